// 包 warapi：战争数据服务的 HTTP 客户端（分片、各六边形动态/静态数据、批量抓取）
package warapi

import (
	"fmt"
	"strings"

	"war-map/internal/structure"
	"war-map/internal/topology"
)

// Shard：数据分片
type Shard string

const (
	ShardAble    Shard = "able"
	ShardBaker   Shard = "baker"
	ShardCharlie Shard = "charlie"
)

// DefaultBases：各分片的默认服务地址
var DefaultBases = map[Shard]string{
	ShardAble:    "https://war-service-live.foxholeservices.com/api",
	ShardBaker:   "https://war-service-live-2.foxholeservices.com/api",
	ShardCharlie: "https://war-service-live-3.foxholeservices.com/api",
}

// ParseShard：大小写不敏感，空串为 able
func ParseShard(s string) (Shard, error) {
	switch sh := Shard(strings.ToLower(strings.TrimSpace(s))); sh {
	case "":
		return ShardAble, nil
	case ShardAble, ShardBaker, ShardCharlie:
		return sh, nil
	}
	return "", fmt.Errorf("unknown shard %q", s)
}

// WarData：当前战争概况
type WarData struct {
	WarID                string         `json:"warId"`
	WarNumber            int            `json:"warNumber"`
	Winner               structure.Team `json:"winner"`
	ConquestStartTime    int64          `json:"conquestStartTime"`
	ConquestEndTime      int64          `json:"conquestEndTime"`
	ResistanceStartTime  int64          `json:"resistanceStartTime"`
	RequiredVictoryTowns int            `json:"requiredVictoryTowns"`
}

// MapItem：动态数据中的单个结构，x/y 为六边形局部坐标
type MapItem struct {
	TeamID   structure.Team `json:"teamId"`
	IconType uint32         `json:"iconType"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Flags    uint32         `json:"flags"`
}

// MarkerType：地名标注等级
type MarkerType string

const (
	MarkerMajor MarkerType = "Major"
	MarkerMinor MarkerType = "Minor"
)

// MapTextItem：静态数据中的地名标注
type MapTextItem struct {
	Text          string     `json:"text"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	MapMarkerType MarkerType `json:"mapMarkerType"`
}

// MapData：单个六边形的动态或静态数据
type MapData struct {
	RegionID             int           `json:"regionId"`
	ScorchedVictoryTowns int           `json:"scorchedVictoryTowns"`
	MapItems             []MapItem     `json:"mapItems"`
	MapTextItems         []MapTextItem `json:"mapTextItems"`
	LastUpdated          int64         `json:"lastUpdated"`
	Version              int           `json:"version"`
}

// HexReport：一个六边形一次抓取的合并结果（结构取自动态数据，地名取自静态数据）
type HexReport struct {
	Hex         topology.HexID
	Items       []MapItem
	TextItems   []MapTextItem
	LastUpdated int64
	Version     int
}

// Batch：一次刷新所需的全部数据；War 为 nil 表示战争概况不可用
type Batch struct {
	Shard Shard
	War   *WarData
	Hexes []HexReport
}

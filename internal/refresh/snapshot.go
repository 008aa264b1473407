// 包 refresh：刷新编排（抓取 → 分类/归一化 → 领地划分 → 发布不可变快照）
package refresh

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"war-map/internal/sector"
	"war-map/internal/structure"
	"war-map/internal/topology"
	"war-map/internal/victory"
	"war-map/internal/warapi"
)

// HexInfo：六边形概况（覆盖层与名称层使用）
type HexInfo struct {
	ID       topology.HexID `json:"id"`
	Name     string         `json:"name"`
	Center   orb.Point      `json:"center"`
	Boundary orb.Ring       `json:"boundary"`
}

// Label：地名标注（全局坐标）
type Label struct {
	Hex    topology.HexID    `json:"hex"`
	Text   string            `json:"text"`
	Global orb.Point         `json:"position"`
	Class  warapi.MarkerType `json:"class"`
}

// 文档注释：一次刷新的完整结果
// 背景：发布后只读，读者可无锁持有；可见性过滤只在读取侧重新筛选，不回写快照。
// 约束：Structures 按（六边形、输入顺序）稳定排列；Sectors 以六边形为键，几何无效的六边形为空切片并列于 Invalid。
type Snapshot struct {
	ID         uuid.UUID                           `json:"id"`
	Generation uint64                              `json:"generation"`
	Shard      warapi.Shard                        `json:"shard"`
	BuiltAt    time.Time                           `json:"built_at"`
	Hexes      []HexInfo                           `json:"hexes"`
	Structures []structure.Classified              `json:"structures"`
	Labels     []Label                             `json:"labels"`
	Sectors    map[topology.HexID][]sector.Polygon `json:"-"`
	Invalid    []topology.HexID                    `json:"invalid,omitempty"`
	Victory    *victory.Summary                    `json:"victory,omitempty"`
}

// SectorCount：全部领地多边形数量
func (s *Snapshot) SectorCount() int {
	n := 0
	for _, ps := range s.Sectors {
		n += len(ps)
	}
	return n
}

// ByGroup：按图层分组的结构
func (s *Snapshot) ByGroup() map[string][]structure.Classified {
	return Filter(s, func(string) bool { return true })
}

// 文档注释：按可见性谓词重新筛选结构
// 约束：纯函数；不修改快照，同一输入总得到相同输出；nil 快照返回空映射。
func Filter(s *Snapshot, visible func(group string) bool) map[string][]structure.Classified {
	out := make(map[string][]structure.Classified)
	if s == nil {
		return out
	}
	for _, it := range s.Structures {
		if !visible(it.Group) {
			continue
		}
		out[it.Group] = append(out[it.Group], it)
	}
	return out
}

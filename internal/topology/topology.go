// 包 topology：世界六边形注册表，提供每个六边形在全局坐标中的中心与边界
package topology

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"war-map/internal/geom"
)

// ErrUnknownHex：引用了注册表之外的六边形标识
var ErrUnknownHex = errors.New("unknown hex")

// HexID：六边形标识（与数据源的 mapName 一致，如 "DeadLandsHex"）
type HexID string

// Tile：单个六边形的静态描述
type Tile struct {
	ID          HexID     `json:"id"`
	DisplayName string    `json:"name"`
	Q           int       `json:"q"`
	R           int       `json:"r"`
	Center      orb.Point `json:"center"`
}

// Topology：只读注册表；构造后不再修改，可并发读取
type Topology struct {
	size  float64
	tiles map[HexID]Tile
	order []HexID
}

// AxialCenter：平顶布局下轴向坐标到全局坐标的换算（北向为 +y）
func AxialCenter(q, r int, size float64) orb.Point {
	x := size * 1.5 * float64(q)
	y := -size * math.Sqrt(3) * (float64(r) + float64(q)/2)
	return orb.Point{x, y}
}

// DefaultTiles：内置的 43 个六边形，中心按 size 由轴向坐标推导
func DefaultTiles(size float64) []Tile {
	out := make([]Tile, 0, len(defaultTable))
	for _, e := range defaultTable {
		out = append(out, Tile{ID: e.id, DisplayName: e.name, Q: e.q, R: e.r, Center: AxialCenter(e.q, e.r, size)})
	}
	return out
}

// New：由六边形列表构造注册表
// 约束：标识不可重复；size 必须为正且有限；输入顺序即为 AllHexIDs 顺序
func New(tiles []Tile, size float64) (*Topology, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("topology: invalid hex size %v", size)
	}
	t := &Topology{size: size, tiles: make(map[HexID]Tile, len(tiles)), order: make([]HexID, 0, len(tiles))}
	for _, tile := range tiles {
		if tile.ID == "" {
			return nil, errors.New("topology: empty hex id")
		}
		if _, dup := t.tiles[tile.ID]; dup {
			return nil, fmt.Errorf("topology: duplicate hex id %q", tile.ID)
		}
		if !geom.Finite(tile.Center) {
			return nil, fmt.Errorf("topology: hex %q has non-finite center", tile.ID)
		}
		t.tiles[tile.ID] = tile
		t.order = append(t.order, tile.ID)
	}
	return t, nil
}

// Default：内置表 + 指定尺寸
func Default(size float64) (*Topology, error) { return New(DefaultTiles(size), size) }

// HexSize：六边形外接圆半径
func (t *Topology) HexSize() float64 { return t.size }

// Len：注册的六边形数量
func (t *Topology) Len() int { return len(t.order) }

// Tile：按标识取六边形
func (t *Topology) Tile(id HexID) (Tile, error) {
	tile, ok := t.tiles[id]
	if !ok {
		return Tile{}, fmt.Errorf("%w: %q", ErrUnknownHex, id)
	}
	return tile, nil
}

// Center：六边形全局中心，未注册时返回 ErrUnknownHex
func (t *Topology) Center(id HexID) (orb.Point, error) {
	tile, err := t.Tile(id)
	if err != nil {
		return orb.Point{}, err
	}
	return tile.Center, nil
}

// Boundary：六边形边界闭合环
func (t *Topology) Boundary(id HexID) (orb.Ring, error) {
	c, err := t.Center(id)
	if err != nil {
		return nil, err
	}
	return geom.Hexagon(c, t.size), nil
}

// AllHexIDs：稳定顺序的标识列表（副本，调用方可自由修改）
func (t *Topology) AllHexIDs() []HexID {
	return append([]HexID(nil), t.order...)
}

// Tiles：稳定顺序的六边形列表（副本）
func (t *Topology) Tiles() []Tile {
	out := make([]Tile, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.tiles[id])
	}
	return out
}

// 包 sector：按基地位置把六边形划分为 Voronoi 领地多边形
package sector

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"war-map/internal/geom"
	"war-map/internal/structure"
)

// ErrInvalidGeometry：边界或站点含 NaN/Inf，或边界不足三个顶点
var ErrInvalidGeometry = errors.New("invalid geometry")

// Site：领地站点（全局坐标下的基地位置及其阵营色）
type Site struct {
	Pos   orb.Point
	Team  structure.Team
	Color structure.Color
}

// Polygon：单个站点在六边形内的领地
// 约束：Geometry 为单个凸多边形构成的 MultiPolygon，外环逆时针；Site 为输入站点下标
type Polygon struct {
	Geometry orb.MultiPolygon
	Team     structure.Team
	Color    structure.Color
	Site     int
}

// Area：领地面积
func (p Polygon) Area() float64 { return planar.Area(p.Geometry) }

// 文档注释：六边形内的 Voronoi 划分
// 背景：每个单元为六边形依次被与其他站点的中垂线半平面裁剪的结果；六边形为凸，单元恒为凸，不需要通用布尔运算。
// 约束：
// - 0 个站点返回空；1 个站点返回整个六边形
// - 重合站点只保留下标较小者的单元，后者不产出多边形
// - 面积不超过 Eps 或顶点少于 3 的退化单元被丢弃
// - 结果两两内部不相交，且面积之和等于六边形面积（站点全在六边形外时同样成立）
func Tessellate(hex orb.Ring, sites []Site) ([]Polygon, error) {
	if geom.VertexCount(hex) < 3 || !geom.RingFinite(hex) {
		return nil, ErrInvalidGeometry
	}
	for _, s := range sites {
		if !geom.Finite(s.Pos) {
			return nil, ErrInvalidGeometry
		}
	}
	if len(sites) == 0 {
		return nil, nil
	}
	base := geom.CCW(hex)
	out := make([]Polygon, 0, len(sites))
	for i, si := range sites {
		cell := base
		owned := true
		for j, sj := range sites {
			if i == j {
				continue
			}
			if geom.Near(si.Pos, sj.Pos) {
				if j < i {
					owned = false
					break
				}
				continue
			}
			n, c := bisector(si.Pos, sj.Pos)
			cell = geom.ClipHalfPlane(cell, n, c)
			if len(cell) == 0 {
				break
			}
		}
		if !owned || geom.VertexCount(cell) < 3 || geom.Area(cell) <= geom.Eps {
			continue
		}
		out = append(out, Polygon{
			Geometry: orb.MultiPolygon{orb.Polygon{geom.CCW(cell)}},
			Team:     si.Team,
			Color:    si.Color,
			Site:     i,
		})
	}
	return out, nil
}

// bisector：离 a 不远于离 b 的半平面 n·p <= c
// |p-a|² <= |p-b|²  ⇔  2p·(b-a) <= |b|² - |a|²
func bisector(a, b orb.Point) (orb.Point, float64) {
	n := orb.Point{b[0] - a[0], b[1] - a[1]}
	c := (b[0]*b[0] + b[1]*b[1] - a[0]*a[0] - a[1]*a[1]) / 2
	return n, c
}

// 包 geom：全局平面坐标下的轻量几何工具（六边形边界、半平面裁剪、带容差的点入多边形）；面积与方向交给 orb/planar
// 约束：环统一采用闭合表示（首点在末尾重复）；坐标为渲染空间平面坐标，不涉及投影
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Eps：顶点去重与边界判定的绝对容差
const Eps = 1e-9

// Hexagon：生成平顶六边形闭合环
// 约束：size 为外接圆半径（中心到顶点），非边长；角度自 0° 起每 60° 一个顶点，共 7 点
func Hexagon(center orb.Point, size float64) orb.Ring {
	ring := make(orb.Ring, 0, 7)
	for i := 0; i < 6; i++ {
		rad := float64(i*60) * math.Pi / 180
		ring = append(ring, orb.Point{
			center[0] + size*math.Cos(rad),
			center[1] + size*math.Sin(rad),
		})
	}
	return append(ring, ring[0])
}

// Area：环面积（绝对值）；planar.Area 对环返回有向面积
func Area(r orb.Ring) float64 { return math.Abs(planar.Area(r)) }

// Finite：坐标不含 NaN/Inf
func Finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}

// RingFinite：环上所有顶点均有限
func RingFinite(r orb.Ring) bool {
	for _, p := range r {
		if !Finite(p) {
			return false
		}
	}
	return true
}

// open：去掉闭合点，返回顶点序列
func open(r orb.Ring) []orb.Point {
	n := len(r)
	if n > 1 && r[0].Equal(r[n-1]) {
		return r[:n-1]
	}
	return r
}

// closeRing：补齐闭合点
func closeRing(pts []orb.Point) orb.Ring {
	if len(pts) == 0 {
		return nil
	}
	r := orb.Ring(pts)
	if !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

func near(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) <= Eps && math.Abs(a[1]-b[1]) <= Eps
}

// dedupe：去除相邻重复顶点（含首尾）
func dedupe(pts []orb.Point) []orb.Point {
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && near(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && near(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// VertexCount：环的不重复顶点数
func VertexCount(r orb.Ring) int { return len(dedupe(append([]orb.Point(nil), open(r)...))) }

// Near：两点在 Eps 容差内重合
func Near(a, b orb.Point) bool { return near(a, b) }

// CCW：返回逆时针方向的闭合环；已是逆时针或退化时原样返回，不修改入参
func CCW(r orb.Ring) orb.Ring {
	if len(r) < 3 || r.Orientation() != orb.CW {
		return r
	}
	rev := closeRing(append([]orb.Point(nil), r...))
	rev.Reverse()
	return rev
}

package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Covers：点位于环内（含边界）或距边界不超过 tol
// 约束：planar.RingContains 要求闭合环，入参为开环时补齐后再判定
func Covers(ring orb.Ring, pt orb.Point, tol float64) bool {
	pts := open(ring)
	if len(pts) < 3 {
		return false
	}
	closed := closeRing(append([]orb.Point(nil), pts...))
	if planar.RingContains(closed, pt) {
		return true
	}
	for i := 0; i < len(closed)-1; i++ {
		if planar.DistanceFromSegment(closed[i], closed[i+1], pt) <= tol {
			return true
		}
	}
	return false
}

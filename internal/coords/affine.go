package coords

import (
	"math"

	"github.com/paulmach/orb"
)

// Affine：二维仿射矩阵 [a b c d e f]
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Affine [6]float64

func Identity() Affine { return Affine{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Affine { return Affine{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// Rotate：逆时针旋转（弧度）
func Rotate(rad float64) Affine {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine{c, s, -s, c, 0, 0}
}

// Then：先应用 m 再应用 next，即 next·m
func (m Affine) Then(next Affine) Affine {
	return Affine{
		next[0]*m[0] + next[2]*m[1],
		next[1]*m[0] + next[3]*m[1],
		next[0]*m[2] + next[2]*m[3],
		next[1]*m[2] + next[3]*m[3],
		next[0]*m[4] + next[2]*m[5] + next[4],
		next[1]*m[4] + next[3]*m[5] + next[5],
	}
}

// Apply：变换单点
func (m Affine) Apply(p orb.Point) orb.Point {
	return orb.Point{m[0]*p[0] + m[2]*p[1] + m[4], m[1]*p[0] + m[3]*p[1] + m[5]}
}

package geom

import "github.com/paulmach/orb"

// 文档注释：半平面裁剪（Sutherland–Hodgman 单边）
// 背景：Voronoi 单元由六边形依次被各中垂线半平面裁剪得到，输入为凸时不需要通用布尔运算。
// 约束：保留满足 n·p <= c 的一侧；输入为凸多边形时输出仍为凸多边形；全部被裁掉时返回 nil。
func ClipHalfPlane(r orb.Ring, n orb.Point, c float64) orb.Ring {
	pts := open(r)
	if len(pts) == 0 {
		return nil
	}
	f := func(p orb.Point) float64 { return n[0]*p[0] + n[1]*p[1] - c }
	out := make([]orb.Point, 0, len(pts)+2)
	prev := pts[len(pts)-1]
	fp := f(prev)
	for _, cur := range pts {
		fc := f(cur)
		if fc <= 0 {
			if fp > 0 {
				out = append(out, lerp(prev, cur, fp/(fp-fc)))
			}
			out = append(out, cur)
		} else if fp < 0 {
			out = append(out, lerp(prev, cur, fp/(fp-fc)))
		}
		prev, fp = cur, fc
	}
	out = dedupe(out)
	if len(out) == 0 {
		return nil
	}
	return closeRing(out)
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

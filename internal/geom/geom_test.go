package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHexagonShape(t *testing.T) {
	cases := []struct {
		center orb.Point
		size   float64
	}{
		{orb.Point{0, 0}, 1},
		{orb.Point{1500, -2598.076}, 1000},
		{orb.Point{-3.5, 7.25}, 0.01},
	}
	for _, c := range cases {
		ring := Hexagon(c.center, c.size)
		if len(ring) != 7 {
			t.Fatalf("expected 7 points, got %d", len(ring))
		}
		if !ring[0].Equal(ring[6]) {
			t.Fatalf("ring not closed: %v != %v", ring[0], ring[6])
		}
		for i := 0; i < 6; i++ {
			d := math.Hypot(ring[i][0]-c.center[0], ring[i][1]-c.center[1])
			if math.Abs(d-c.size) > 1e-9*math.Max(1, c.size) {
				t.Fatalf("vertex %d at distance %v, want %v", i, d, c.size)
			}
			a0 := math.Atan2(ring[i][1]-c.center[1], ring[i][0]-c.center[0])
			a1 := math.Atan2(ring[i+1][1]-c.center[1], ring[i+1][0]-c.center[0])
			step := math.Mod(a1-a0+2*math.Pi, 2*math.Pi)
			if math.Abs(step-math.Pi/3) > 1e-9 {
				t.Fatalf("vertex %d->%d step %v rad, want 60deg", i, i+1, step)
			}
		}
		a0 := math.Atan2(ring[0][1]-c.center[1], ring[0][0]-c.center[0])
		if math.Abs(a0) > 1e-9 {
			t.Fatalf("first vertex must sit at 0deg, got %v", a0)
		}
	}
}

func TestHexagonArea(t *testing.T) {
	ring := Hexagon(orb.Point{10, 10}, 2)
	want := 3 * math.Sqrt(3) / 2 * 4
	if got := Area(ring); math.Abs(got-want) > 1e-9 {
		t.Fatalf("area %v, want %v", got, want)
	}
	if ring.Orientation() != orb.CCW {
		t.Fatalf("hexagon expected counter-clockwise")
	}
}

func TestCCWReversesClockwiseRing(t *testing.T) {
	cw := orb.Ring{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}
	got := CCW(cw)
	if got.Orientation() != orb.CCW || !got.Closed() {
		t.Fatalf("not a closed ccw ring: %v", got)
	}
	if math.Abs(Area(got)-4) > 1e-12 {
		t.Fatalf("area %v", Area(got))
	}
	if cw[1] != (orb.Point{0, 2}) {
		t.Fatal("input ring modified")
	}
	ccw := Hexagon(orb.Point{}, 1)
	if got := CCW(ccw); &got[0] != &ccw[0] {
		t.Fatal("ccw ring should be returned as is")
	}
}

func TestClipHalfPlane(t *testing.T) {
	sq := boundRing(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}})
	// 保留 x <= 1
	half := ClipHalfPlane(sq, orb.Point{1, 0}, 1)
	if got := Area(half); math.Abs(got-2) > 1e-12 {
		t.Fatalf("half area %v, want 2", got)
	}
	if got := ClipHalfPlane(sq, orb.Point{1, 0}, -1); got != nil {
		t.Fatalf("expected empty clip, got %v", got)
	}
	if got := Area(ClipHalfPlane(sq, orb.Point{1, 0}, 5)); math.Abs(got-4) > 1e-12 {
		t.Fatalf("untouched area %v, want 4", got)
	}
}

func TestCovers(t *testing.T) {
	hex := Hexagon(orb.Point{0, 0}, 1)
	if !Covers(hex, orb.Point{0, 0}, Eps) {
		t.Fatal("center must be covered")
	}
	if !Covers(hex, hex[2], 1e-9) {
		t.Fatal("vertex must be covered")
	}
	if Covers(hex, orb.Point{1.5, 0}, 1e-9) {
		t.Fatal("outside point must not be covered")
	}
	// 顶点 (1,0) 外侧 1e-4 处：仅在容差足够时覆盖
	if !Covers(hex, orb.Point{1 + 1e-4, 0}, 1e-3) || Covers(hex, orb.Point{1 + 1e-4, 0}, 1e-6) {
		t.Fatal("boundary tolerance not honoured")
	}
	sq := orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if !Covers(sq, orb.Point{1, 1}, 0) {
		t.Fatal("open ring must be closed before testing")
	}
}

func TestFinite(t *testing.T) {
	if Finite(orb.Point{math.NaN(), 0}) || Finite(orb.Point{0, math.Inf(-1)}) {
		t.Fatal("non-finite point reported finite")
	}
	if !RingFinite(Hexagon(orb.Point{1, 2}, 3)) {
		t.Fatal("hexagon reported non-finite")
	}
}

func boundRing(b orb.Bound) orb.Ring {
	return orb.Ring{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
}

package coords

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"war-map/internal/geom"
	"war-map/internal/topology"
)

func newTestNormalizer(t *testing.T, size float64, overrides map[topology.HexID]Calibration) (*topology.Topology, *Normalizer) {
	t.Helper()
	topo, err := topology.Default(size)
	if err != nil {
		t.Fatalf("topology: %v", err)
	}
	return topo, NewNormalizer(topo, DefaultCalibration(size), overrides)
}

func TestOriginMapsOntoCenter(t *testing.T) {
	topo, n := newTestNormalizer(t, 100, nil)
	for _, id := range topo.AllHexIDs() {
		c, _ := topo.Center(id)
		got, err := n.Normalize(id, orb.Point{0.5, 0.5})
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if math.Abs(got[0]-c[0]) > 1e-9 || math.Abs(got[1]-c[1]) > 1e-9 {
			t.Fatalf("%s: origin mapped to %v, want %v", id, got, c)
		}
	}
}

func TestSameLocalPointDiffersByCenterOffset(t *testing.T) {
	topo, n := newTestNormalizer(t, 100, nil)
	local := orb.Point{0.2, 0.9}
	a, _ := n.Normalize("DeadLandsHex", local)
	b, _ := n.Normalize("GreatMarchHex", local)
	ca, _ := topo.Center("DeadLandsHex")
	cb, _ := topo.Center("GreatMarchHex")
	if math.Abs((b[0]-a[0])-(cb[0]-ca[0])) > 1e-9 || math.Abs((b[1]-a[1])-(cb[1]-ca[1])) > 1e-9 {
		t.Fatalf("offset %v,%v does not match center offset", b[0]-a[0], b[1]-a[1])
	}
}

func TestDefaultCalibrationAxes(t *testing.T) {
	_, n := newTestNormalizer(t, 100, nil)
	// 局部 y 向下，全局 y 向上
	top, _ := n.Normalize("DeadLandsHex", orb.Point{0.5, 0})
	bottom, _ := n.Normalize("DeadLandsHex", orb.Point{0.5, 1})
	if top[1] <= bottom[1] {
		t.Fatalf("local top %v must map above local bottom %v", top, bottom)
	}
	right, _ := n.Normalize("DeadLandsHex", orb.Point{1, 0.5})
	if math.Abs(right[0]-100) > 1e-9 || math.Abs(right[1]) > 1e-9 {
		t.Fatalf("local right edge mapped to %v, want (100,0)", right)
	}
}

func TestInteriorPointsStayInsideHex(t *testing.T) {
	topo, n := newTestNormalizer(t, 100, nil)
	ring, _ := topo.Boundary("DeadLandsHex")
	for _, local := range []orb.Point{{0.5, 0.5}, {0.3, 0.4}, {0.75, 0.5}, {0.5, 0.95}} {
		g, _ := n.Normalize("DeadLandsHex", local)
		if !geom.Covers(ring, g, 1e-9) {
			t.Fatalf("local %v mapped outside hex: %v", local, g)
		}
	}
}

func TestOverrideCalibration(t *testing.T) {
	over := map[topology.HexID]Calibration{
		"DeadLandsHex": {Origin: orb.Point{0, 0}, ScaleX: 1, ScaleY: 1, Rotation: math.Pi / 2},
	}
	_, n := newTestNormalizer(t, 100, over)
	got, _ := n.Normalize("DeadLandsHex", orb.Point{1, 0})
	if math.Abs(got[0]) > 1e-9 || math.Abs(got[1]-1) > 1e-9 {
		t.Fatalf("rotated point %v, want (0,1)", got)
	}
}

func TestNormalizeTotalAndUnknown(t *testing.T) {
	_, n := newTestNormalizer(t, 100, nil)
	if _, err := n.Normalize("DeadLandsHex", orb.Point{1e12, -1e12}); err != nil {
		t.Fatalf("far point must not fail: %v", err)
	}
	if _, err := n.Normalize("NowhereHex", orb.Point{0, 0}); !errors.Is(err, topology.ErrUnknownHex) {
		t.Fatalf("expected ErrUnknownHex, got %v", err)
	}
}

func TestAffineThenOrder(t *testing.T) {
	m := Translate(1, 0).Then(Scale(2, 2))
	if got := m.Apply(orb.Point{1, 1}); got != (orb.Point{4, 2}) {
		t.Fatalf("translate then scale gave %v", got)
	}
	if got := Identity().Apply(orb.Point{3, 4}); got != (orb.Point{3, 4}) {
		t.Fatalf("identity gave %v", got)
	}
}

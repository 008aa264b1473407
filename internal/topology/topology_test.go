package topology

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDefaultTopology(t *testing.T) {
	topo, err := Default(100)
	if err != nil {
		t.Fatalf("default topology: %v", err)
	}
	if topo.Len() != 43 {
		t.Fatalf("expected 43 hexes, got %d", topo.Len())
	}
	c, err := topo.Center("DeadLandsHex")
	if err != nil {
		t.Fatalf("center: %v", err)
	}
	if c != (orb.Point{0, 0}) {
		t.Fatalf("deadlands must sit at origin, got %v", c)
	}
	tile, _ := topo.Tile("LinnMercyHex")
	if tile.DisplayName != "Linn of Mercy" {
		t.Fatalf("unexpected name %q", tile.DisplayName)
	}
}

func TestUnknownHex(t *testing.T) {
	topo, _ := Default(100)
	if _, err := topo.Center("AtlantisHex"); !errors.Is(err, ErrUnknownHex) {
		t.Fatalf("expected ErrUnknownHex, got %v", err)
	}
	if _, err := topo.Boundary("AtlantisHex"); !errors.Is(err, ErrUnknownHex) {
		t.Fatalf("expected ErrUnknownHex from Boundary, got %v", err)
	}
}

func TestAllHexIDsStableCopy(t *testing.T) {
	topo, _ := Default(10)
	a := topo.AllHexIDs()
	b := topo.AllHexIDs()
	if len(a) != len(b) {
		t.Fatal("length changed between calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
	a[0] = "Mutated"
	if topo.AllHexIDs()[0] == "Mutated" {
		t.Fatal("AllHexIDs must return a copy")
	}
}

func TestNeighbourCentersAreOneHexApart(t *testing.T) {
	size := 50.0
	topo, _ := Default(size)
	a, _ := topo.Center("DeadLandsHex")
	b, _ := topo.Center("CallahansPassageHex")
	d := math.Hypot(a[0]-b[0], a[1]-b[1])
	if math.Abs(d-size*math.Sqrt(3)) > 1e-9 {
		t.Fatalf("neighbour distance %v, want %v", d, size*math.Sqrt(3))
	}
	if b[1] <= a[1] {
		t.Fatalf("r-1 neighbour must lie north, got %v vs %v", b, a)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(nil, 0); err == nil {
		t.Fatal("expected error for zero size")
	}
	dup := []Tile{{ID: "A"}, {ID: "A"}}
	if _, err := New(dup, 1); err == nil {
		t.Fatal("expected duplicate id error")
	}
	nan := []Tile{{ID: "A", Center: orb.Point{math.NaN(), 0}}}
	if _, err := New(nan, 1); err == nil {
		t.Fatal("expected non-finite center error")
	}
}

package sector

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"war-map/internal/geom"
	"war-map/internal/structure"
)

const testSize = 100

func hex() orb.Ring { return geom.Hexagon(orb.Point{0, 0}, testSize) }

func totalArea(ps []Polygon) float64 {
	var a float64
	for _, p := range ps {
		a += p.Area()
	}
	return a
}

func TestZeroSites(t *testing.T) {
	got, err := Tessellate(hex(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %d polygons, err %v", len(got), err)
	}
}

func TestSingleSiteCoversHex(t *testing.T) {
	got, err := Tessellate(hex(), []Site{{Pos: orb.Point{10, 10}, Team: structure.TeamWardens}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 polygon, got %d", len(got))
	}
	if math.Abs(got[0].Area()-geom.Area(hex())) > 1e-6 {
		t.Fatalf("area %v, hex %v", got[0].Area(), geom.Area(hex()))
	}
	if got[0].Team != structure.TeamWardens || got[0].Site != 0 {
		t.Fatalf("site attribution lost: %+v", got[0])
	}
}

func TestSymmetricPairSplitsInHalf(t *testing.T) {
	sites := []Site{{Pos: orb.Point{-30, 0}}, {Pos: orb.Point{30, 0}}}
	got, err := Tessellate(hex(), sites)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 polygons, got %d", len(got))
	}
	half := geom.Area(hex()) / 2
	for _, p := range got {
		if math.Abs(p.Area()-half) > 1e-6 {
			t.Fatalf("cell %d area %v, want %v", p.Site, p.Area(), half)
		}
	}
}

func TestAreaConservedAndCellsContainSites(t *testing.T) {
	sites := []Site{
		{Pos: orb.Point{-40, 10}},
		{Pos: orb.Point{35, 30}},
		{Pos: orb.Point{5, -60}},
		{Pos: orb.Point{0, 0}},
	}
	got, err := Tessellate(hex(), sites)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(sites) {
		t.Fatalf("want %d polygons, got %d", len(sites), len(got))
	}
	if math.Abs(totalArea(got)-geom.Area(hex())) > 1e-6 {
		t.Fatalf("areas sum to %v, hex %v", totalArea(got), geom.Area(hex()))
	}
	for _, p := range got {
		ring := p.Geometry[0][0]
		if ring.Orientation() != orb.CCW {
			t.Fatalf("cell %d not counter-clockwise", p.Site)
		}
		if !geom.Covers(ring, sites[p.Site].Pos, 1e-9) {
			t.Fatalf("cell %d does not contain its site", p.Site)
		}
		for _, v := range ring {
			if !geom.Covers(hex(), v, 1e-6) {
				t.Fatalf("cell %d vertex %v escapes hex", p.Site, v)
			}
		}
	}
}

func TestSitesOutsideHexStillPartition(t *testing.T) {
	sites := []Site{{Pos: orb.Point{-500, 0}}, {Pos: orb.Point{500, 40}}}
	got, err := Tessellate(hex(), sites)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(totalArea(got)-geom.Area(hex())) > 1e-6 {
		t.Fatalf("areas sum to %v", totalArea(got))
	}
}

func TestCoincidentSitesFirstWins(t *testing.T) {
	sites := []Site{
		{Pos: orb.Point{-20, 0}, Team: structure.TeamColonials},
		{Pos: orb.Point{-20, 0}, Team: structure.TeamWardens},
		{Pos: orb.Point{40, 0}},
	}
	got, err := Tessellate(hex(), sites)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 polygons, got %d", len(got))
	}
	for _, p := range got {
		if p.Site == 1 {
			t.Fatal("later coincident site must not own a cell")
		}
	}
	if got[0].Team != structure.TeamColonials {
		t.Fatalf("coincident location owned by %s", got[0].Team)
	}
	if math.Abs(totalArea(got)-geom.Area(hex())) > 1e-6 {
		t.Fatalf("areas sum to %v", totalArea(got))
	}
}

func TestNonFiniteInput(t *testing.T) {
	if _, err := Tessellate(hex(), []Site{{Pos: orb.Point{math.NaN(), 0}}}); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("NaN site: %v", err)
	}
	bad := hex()
	bad[2] = orb.Point{math.Inf(1), 0}
	if _, err := Tessellate(bad, []Site{{Pos: orb.Point{0, 0}}}); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("Inf boundary: %v", err)
	}
	if _, err := Tessellate(orb.Ring{{0, 0}, {1, 1}}, nil); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("degenerate boundary: %v", err)
	}
}

func TestSitesFromPicksBases(t *testing.T) {
	items := []structure.Classified{
		{Type: structure.TownBase2, Team: structure.TeamWardens, Global: orb.Point{1, 1}},
		{Type: structure.Hospital, Team: structure.TeamWardens},
		{Type: structure.RelicBase1, Team: structure.TeamColonials, Global: orb.Point{2, 2}},
	}
	sites := SitesFrom(items)
	if len(sites) != 2 {
		t.Fatalf("want 2 sites, got %d", len(sites))
	}
	if sites[1].Color != structure.ColonialSector || sites[0].Pos != (orb.Point{1, 1}) {
		t.Fatalf("unexpected sites %+v", sites)
	}
}

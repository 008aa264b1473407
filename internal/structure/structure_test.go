package structure

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
)

func TestClassifyFlagCombinations(t *testing.T) {
	cases := []struct {
		flags    Flags
		label    string
		vp, burn bool
	}{
		{0, "Town Base 1", false, false},
		{FlagVictoryPoint, "Victory Point", true, false},
		{FlagScorched, "Scorched Town Base 1", false, true},
		{FlagVictoryPoint | FlagScorched, "Scorched Victory Point", true, true},
		{0x2 | 0x4 | 0x8, "Town Base 1", false, false},
	}
	for _, c := range cases {
		got := Classify("DeadLandsHex", orb.Point{1, 2}, Structure{Type: TownBase1, Team: TeamWardens, Flags: c.flags})
		if got.Label != c.label || got.VictoryPoint != c.vp || got.Scorched != c.burn {
			t.Fatalf("flags %#x: got %q vp=%v scorched=%v", c.flags, got.Label, got.VictoryPoint, got.Scorched)
		}
		if got.Group != "Town Base" {
			t.Fatalf("flags %#x: group %q", c.flags, got.Group)
		}
		if got.TeamColor != WardenIcon {
			t.Fatalf("team color %v", got.TeamColor)
		}
		if c.burn && got.IconColor != ScorchedIcon {
			t.Fatalf("scorched icon color %v", got.IconColor)
		}
		if got.Global != (orb.Point{1, 2}) || got.Hex != "DeadLandsHex" {
			t.Fatalf("position not carried: %+v", got)
		}
	}
}

func TestClassifyUnknownType(t *testing.T) {
	got := Classify("DeadLandsHex", orb.Point{}, Structure{Type: 9999, Team: TeamNone})
	if got.Label != UnknownLabel {
		t.Fatalf("label %q", got.Label)
	}
	if got.Group != GroupOther {
		t.Fatalf("group %q", got.Group)
	}
	if got.TeamColor != NeutralIcon {
		t.Fatalf("color %v", got.TeamColor)
	}
	// 再次分类同一未知编码不应产生差异
	if again := Classify("DeadLandsHex", orb.Point{}, Structure{Type: 9999}); again.Label != UnknownLabel {
		t.Fatalf("second label %q", again.Label)
	}
}

func TestFriendlyName(t *testing.T) {
	cases := map[string]string{
		"TownBase1":             "Town Base 1",
		"RocketSiteWithRocket":  "Rocket Site With Rocket",
		"MassProductionFactory": "Mass Production Factory",
		"Hospital":              "Hospital",
		"Base12":                "Base 12",
	}
	for in, want := range cases {
		if got := FriendlyName(in); got != want {
			t.Fatalf("FriendlyName(%q) = %q, want %q", in, got, want)
		}
	}
	if Label(SpecialBaseKeep) != "Special Base Keep" {
		t.Fatalf("keep label %q", Label(SpecialBaseKeep))
	}
}

func TestLayerGroups(t *testing.T) {
	if LayerGroup(CoalField) != "Fields" || LayerGroup(Seaport) != "Storage" || LayerGroup(RocketTarget) != "Rocket" {
		t.Fatal("unexpected group mapping")
	}
	if LayerGroup(Fort) != GroupOther {
		t.Fatalf("fort group %q", LayerGroup(Fort))
	}
	seen := map[string]bool{}
	for _, g := range typeGroups {
		seen[g] = true
	}
	for _, g := range Groups {
		if !seen[g] {
			t.Fatalf("group %q has no types", g)
		}
		delete(seen, g)
	}
	if len(seen) != 0 {
		t.Fatalf("groups missing from Groups: %v", seen)
	}
}

func TestSectorBases(t *testing.T) {
	for _, ty := range []Type{TownBase1, TownBase2, TownBase3, RelicBase1, RelicBase2, RelicBase3} {
		if !IsSectorBase(ty) {
			t.Fatalf("%s should be a sector base", ty)
		}
	}
	if IsSectorBase(Hospital) || IsSectorBase(9999) {
		t.Fatal("non-base counted as sector base")
	}
}

func TestColorCSS(t *testing.T) {
	if WardenIcon.CSS() != "#2878bf" {
		t.Fatalf("warden icon %s", WardenIcon.CSS())
	}
	if ColonialSector.CSS() != "rgba(81,108,75,0.3)" {
		t.Fatalf("colonial sector %s", ColonialSector.CSS())
	}
	if SectorColor("bogus") != NeutralSector || IconColor("") != NeutralIcon {
		t.Fatal("unknown team must fall back to neutral")
	}
	b, _ := json.Marshal(ScorchedIcon)
	if string(b) != `"#e74c3c"` {
		t.Fatalf("json %s", b)
	}
}

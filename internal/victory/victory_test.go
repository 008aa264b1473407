package victory

import (
	"testing"

	"war-map/internal/structure"
)

func vp(team structure.Team, scorched bool) structure.Classified {
	return structure.Classified{Team: team, VictoryPoint: true, Scorched: scorched}
}

func TestSummarize(t *testing.T) {
	items := []structure.Classified{
		vp(structure.TeamWardens, false),
		vp(structure.TeamWardens, false),
		vp(structure.TeamColonials, false),
		vp(structure.TeamColonials, true),
		vp(structure.TeamNone, true),
		vp(structure.TeamNone, false),
		{Team: structure.TeamWardens},
		{Team: structure.TeamColonials, Scorched: true},
	}
	got := Summarize(32, items)
	want := Summary{Warden: 2, Colonial: 1, Scorched: 2, Required: 30}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.Leader() != structure.TeamWardens {
		t.Fatalf("leader %s", got.Leader())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(0, nil)
	if got != (Summary{}) || got.Leader() != structure.TeamNone {
		t.Fatalf("got %+v", got)
	}
}

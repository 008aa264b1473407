package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"war-map/internal/refresh"
	"war-map/internal/sector"
	"war-map/internal/structure"
	"war-map/internal/topology"
	"war-map/internal/victory"
)

func TestRowFromSnapshot(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	snap := &refresh.Snapshot{
		ID:         id,
		Generation: 7,
		Shard:      "baker",
		BuiltAt:    now,
		Structures: make([]structure.Classified, 3),
		Sectors: map[topology.HexID][]sector.Polygon{
			"DeadLandsHex":        make([]sector.Polygon, 2),
			"CallahansPassageHex": {},
		},
		Invalid: []topology.HexID{"CallahansPassageHex"},
		Victory: &victory.Summary{Warden: 1},
	}
	row := RowFromSnapshot(snap)
	if row.ID != id || row.Generation != 7 || row.Shard != "baker" || !row.BuiltAt.Equal(now) {
		t.Fatalf("identity fields %+v", row)
	}
	if row.Structures != 3 || row.Sectors != 2 {
		t.Fatalf("counts %d %d", row.Structures, row.Sectors)
	}
	if len(row.InvalidHexes) != 1 || row.InvalidHexes[0] != "CallahansPassageHex" {
		t.Fatalf("invalid %v", row.InvalidHexes)
	}
	if row.Victory == nil || row.Victory.Warden != 1 {
		t.Fatalf("victory %+v", row.Victory)
	}
	if nullJSON(nil) != nil || nullJSON([]byte("{}")) != "{}" {
		t.Fatal("nullJSON")
	}
}

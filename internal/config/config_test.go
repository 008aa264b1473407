package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"war-map/internal/topology"
	"war-map/internal/warapi"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("SHARD", "Charlie")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RefreshInterval != 30*time.Second || cfg.HexSize != 256 || cfg.Addr != ":8080" {
		t.Fatalf("cfg %+v", cfg)
	}
	if s, err := cfg.ShardValue(); err != nil || s != warapi.ShardCharlie {
		t.Fatalf("shard %v %v", s, err)
	}
}

func TestCalibrationOverrides(t *testing.T) {
	doc := `
hex_size: 100
hexes:
  DeadLandsHex:
    center: [10, 20]
  GreatMarchHex:
    calibration:
      origin: [0, 0]
      scale_x: 1
      scale_y: 1
      rotation: 0
`
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadCalibration(path)
	if err != nil {
		t.Fatal(err)
	}
	topo, norm, err := f.Build(256)
	if err != nil {
		t.Fatal(err)
	}
	if topo.HexSize() != 100 {
		t.Fatalf("size %v", topo.HexSize())
	}
	if c, _ := topo.Center("DeadLandsHex"); c != (orb.Point{10, 20}) {
		t.Fatalf("center %v", c)
	}
	g, _ := norm.Normalize("DeadLandsHex", orb.Point{0.5, 0.5})
	if g != (orb.Point{10, 20}) {
		t.Fatalf("origin mapped to %v", g)
	}
	c, _ := topo.Center("GreatMarchHex")
	g, _ = norm.Normalize("GreatMarchHex", orb.Point{3, 4})
	if math.Abs(g[0]-(c[0]+3)) > 1e-9 || math.Abs(g[1]-(c[1]+4)) > 1e-9 {
		t.Fatalf("identity calibration gave %v for center %v", g, c)
	}
}

func TestCalibrationRejectsBadInput(t *testing.T) {
	f, err := ParseCalibration([]byte("hexes:\n  AtlantisHex:\n    center: [0, 0]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.Build(100); !errors.Is(err, topology.ErrUnknownHex) {
		t.Fatalf("expected ErrUnknownHex, got %v", err)
	}
	f, _ = ParseCalibration([]byte("default: {origin: [0.5, 0.5], scale_x: 0, scale_y: 1}\n"))
	if _, _, err := f.Build(100); err == nil {
		t.Fatal("zero scale accepted")
	}
	if _, err := ParseCalibration([]byte("hexes: [")); err == nil {
		t.Fatal("broken yaml accepted")
	}
	empty, err := LoadCalibration("")
	if err != nil {
		t.Fatal(err)
	}
	if topo, _, err := empty.Build(100); err != nil || topo.Len() != 43 {
		t.Fatalf("empty calibration: %v", err)
	}
}

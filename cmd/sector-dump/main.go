// 离线工具：执行一次完整刷新，并把每个图层写为 GeoJSON 文件，便于在 GIS 工具中核对领地划分
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"war-map/internal/config"
	"war-map/internal/layers"
	"war-map/internal/logger"
	"war-map/internal/refresh"
	"war-map/internal/structure"
	"war-map/internal/visibility"
	"war-map/internal/warapi"
)

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	shard, err := cfg.ShardValue()
	if err != nil {
		l.Error("config_shard_error", "err", err)
		os.Exit(1)
	}
	out := os.Getenv("DUMP_DIR")
	if out == "" {
		out = filepath.Join("data", "dump")
	}
	cal, err := config.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		l.Error("calibration_error", "err", err)
		os.Exit(1)
	}
	topo, norm, err := cal.Build(cfg.HexSize)
	if err != nil {
		l.Error("topology_error", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	r := refresh.NewRefresher(warapi.NewClient(cfg.ClientOptions()...), &refresh.Builder{Topo: topo, Norm: norm, Workers: cfg.TessellateWorkers})
	snap, err := r.Refresh(ctx, shard)
	if err != nil {
		l.Error("dump_refresh_error", "shard", shard, "err", err)
		os.Exit(1)
	}
	if len(snap.Invalid) > 0 {
		l.Warn("dump_invalid_hexes", "hexes", snap.Invalid)
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		l.Error("dump_mkdir_error", "dir", out, "err", err)
		os.Exit(1)
	}
	ls := layers.Compose(snap, visibility.NewState(structure.AllGroups()))
	for i, ly := range ls {
		name := strconv.Itoa(i) + "-" + slug(ly.Title) + ".geojson"
		b, err := json.MarshalIndent(ly.Features, "", "  ")
		if err != nil {
			l.Error("dump_marshal_error", "layer", ly.Title, "err", err)
			continue
		}
		if err := os.WriteFile(filepath.Join(out, name), b, 0o644); err != nil {
			l.Error("dump_write_error", "file", name, "err", err)
			os.Exit(1)
		}
		l.Info("dump_layer", "file", name, "features", len(ly.Features.Features), "z", ly.ZIndex)
	}
	l.Info("dump_done", "generation", snap.Generation, "structures", len(snap.Structures), "sectors", snap.SectorCount(), "dir", out)
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

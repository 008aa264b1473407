package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"war-map/internal/coords"
	"war-map/internal/geom"
	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/sector"
	"war-map/internal/structure"
	"war-map/internal/topology"
	"war-map/internal/victory"
	"war-map/internal/warapi"
)

// Builder：把一批原始数据构建为快照；Workers 为领地划分并发上限（<=0 不限）
type Builder struct {
	Topo    *topology.Topology
	Norm    *coords.Normalizer
	Workers int
}

type hexResult struct {
	structures []structure.Classified
	labels     []Label
	sectors    []sector.Polygon
	invalid    bool
}

// 文档注释：构建快照
// 背景：各六边形之间无共享可变状态，按六边形并行处理，结果按批次顺序合并。
// 约束：
// - 批次中出现未注册的六边形时整体失败（ErrUnknownHex），调用方保留旧快照
// - 单个六边形几何无效只使该六边形领地为空，其余照常
// - 坐标非有限的结构与标注不进入快照
func (b *Builder) Build(ctx context.Context, batch warapi.Batch) (*Snapshot, error) {
	for _, h := range batch.Hexes {
		if _, err := b.Topo.Tile(h.Hex); err != nil {
			return nil, err
		}
	}
	results := make([]hexResult, len(batch.Hexes))
	g, gctx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		g.SetLimit(b.Workers)
	}
	for i := range batch.Hexes {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := b.buildHex(batch.Hexes[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:      uuid.New(),
		Shard:   batch.Shard,
		BuiltAt: time.Now().UTC(),
		Sectors: make(map[topology.HexID][]sector.Polygon, len(batch.Hexes)),
	}
	for _, t := range b.Topo.Tiles() {
		ring, _ := b.Topo.Boundary(t.ID)
		snap.Hexes = append(snap.Hexes, HexInfo{ID: t.ID, Name: t.DisplayName, Center: t.Center, Boundary: ring})
	}
	for i, r := range results {
		id := batch.Hexes[i].Hex
		snap.Structures = append(snap.Structures, r.structures...)
		snap.Labels = append(snap.Labels, r.labels...)
		snap.Sectors[id] = r.sectors
		if r.invalid {
			snap.Invalid = append(snap.Invalid, id)
		}
	}
	if batch.War != nil {
		v := victory.Summarize(batch.War.RequiredVictoryTowns, snap.Structures)
		snap.Victory = &v
	}
	return snap, nil
}

func (b *Builder) buildHex(h warapi.HexReport) (hexResult, error) {
	var r hexResult
	ring, err := b.Topo.Boundary(h.Hex)
	if err != nil {
		return r, err
	}
	all := make([]structure.Classified, 0, len(h.Items))
	for _, it := range h.Items {
		global, err := b.Norm.Normalize(h.Hex, pointOf(it.X, it.Y))
		if err != nil {
			return r, fmt.Errorf("normalize %s: %w", h.Hex, err)
		}
		all = append(all, structure.Classify(h.Hex, global, structure.Structure{
			Local: pointOf(it.X, it.Y),
			Type:  structure.Type(it.IconType),
			Team:  it.TeamID,
			Flags: structure.Flags(it.Flags),
		}))
	}
	outside := 0
	for _, c := range all {
		if !geom.Finite(c.Global) {
			continue
		}
		// 标定偏差会把结构推到六边形外，仅记录不剔除
		if !geom.Covers(ring, c.Global, b.Topo.HexSize()*1e-3) {
			outside++
		}
		r.structures = append(r.structures, c)
	}
	if outside > 0 {
		logger.L().Debug("structure_outside_hex", "hex", h.Hex, "count", outside)
	}
	for _, ti := range h.TextItems {
		global, err := b.Norm.Normalize(h.Hex, pointOf(ti.X, ti.Y))
		if err != nil {
			return r, fmt.Errorf("normalize %s: %w", h.Hex, err)
		}
		if !geom.Finite(global) {
			continue
		}
		r.labels = append(r.labels, Label{Hex: h.Hex, Text: ti.Text, Global: global, Class: ti.MapMarkerType})
	}

	polys, err := sector.Tessellate(ring, sector.SitesFrom(all))
	switch {
	case errors.Is(err, sector.ErrInvalidGeometry):
		metrics.InvalidGeometryTotal.Inc()
		logger.L().Warn("sector_invalid_geometry", "hex", h.Hex)
		r.sectors = []sector.Polygon{}
		r.invalid = true
	case err != nil:
		return r, err
	default:
		r.sectors = polys
	}
	return r, nil
}

func pointOf(x, y float64) orb.Point { return orb.Point{x, y} }

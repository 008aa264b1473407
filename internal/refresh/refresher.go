package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/warapi"
)

var (
	// ErrFetchFailure：抓取失败，已发布快照保持不变
	ErrFetchFailure = errors.New("fetch failure")
	// ErrStale：结果产生前已有更新的刷新请求，结果被丢弃
	ErrStale = errors.New("stale refresh")
)

// Fetcher：数据抓取协作者（warapi.Client 实现之）
type Fetcher interface {
	FetchAll(ctx context.Context, shard warapi.Shard) (warapi.Batch, error)
}

// 文档注释：刷新编排器
// 背景：刷新可以重叠（定时器与手动触发），每次请求领取单调递增的代数；只有仍是最新请求的结果才会发布（后请求者胜）。
// 约束：任何失败都不改变已发布快照；发布后按注册顺序同步调用回调。
// 回调串行执行，且只对仍是当前发布的快照触发：被更新快照取代的发布不再通知，回调看到的代数单调递增。
type Refresher struct {
	fetch   Fetcher
	builder *Builder
	latest  atomic.Uint64
	pub     published

	hooksMu  sync.RWMutex
	hooks    []func(*Snapshot)
	notifyMu sync.Mutex
}

func NewRefresher(f Fetcher, b *Builder) *Refresher {
	return &Refresher{fetch: f, builder: b}
}

// Current：当前已发布快照，尚未发布时为 nil
func (r *Refresher) Current() *Snapshot { return r.pub.Load() }

// OnPublish：注册发布回调；回调不得修改快照
func (r *Refresher) OnPublish(fn func(*Snapshot)) {
	r.hooksMu.Lock()
	r.hooks = append(r.hooks, fn)
	r.hooksMu.Unlock()
}

// Refresh：执行一次完整刷新，成功时返回新发布的快照
func (r *Refresher) Refresh(ctx context.Context, shard warapi.Shard) (*Snapshot, error) {
	gen := r.latest.Add(1)
	l := logger.For("refresh").With("generation", gen, "shard", shard)
	t0 := time.Now()
	l.Info("refresh_begin")

	batch, err := r.fetch.FetchAll(ctx, shard)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("fetch_failed").Inc()
		l.Error("refresh_fetch_failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}
	if batch.Shard == "" {
		batch.Shard = shard
	}
	snap, err := r.builder.Build(ctx, batch)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("build_failed").Inc()
		l.Error("refresh_build_failed", "err", err)
		return nil, err
	}
	snap.Generation = gen

	if !r.pub.swap(snap, func() bool { return r.latest.Load() == gen }) {
		metrics.RefreshTotal.WithLabelValues("stale").Inc()
		l.Info("refresh_stale", "latest", r.latest.Load())
		return nil, ErrStale
	}
	dur := time.Since(t0).Milliseconds()
	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.RefreshDurationMs.Observe(float64(dur))
	metrics.PublishedGeneration.Set(float64(gen))
	metrics.SectorPolygons.Set(float64(snap.SectorCount()))
	l.Info("refresh_published", "id", snap.ID, "structures", len(snap.Structures), "sectors", snap.SectorCount(), "invalid_hexes", len(snap.Invalid), "duration_ms", dur)

	r.notify(snap)
	return snap, nil
}

// notify：snap 已被取代时返回 false 且不调用回调
func (r *Refresher) notify(snap *Snapshot) bool {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	if r.pub.Load() != snap {
		logger.For("refresh").Debug("refresh_notify_superseded", "generation", snap.Generation)
		return false
	}
	r.hooksMu.RLock()
	hooks := append([]func(*Snapshot){}, r.hooks...)
	r.hooksMu.RUnlock()
	for _, h := range hooks {
		h(snap)
	}
	return true
}

package warapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/topology"
)

// ErrStatus：服务返回非 2xx
var ErrStatus = errors.New("warapi: unexpected status")

// 文档注释：战争数据服务客户端
// 背景：数据源按分片部署，地址可被配置覆盖；同一客户端可被多个刷新任务并发使用。
// 约束：不做重试与缓存；单次请求的超时由 HTTP 客户端与 ctx 共同决定。
type Client struct {
	http        *http.Client
	bases       map[Shard]string
	concurrency int
}

// Option：客户端可选项
type Option func(*Client)

// WithHTTPClient：替换底层 HTTP 客户端
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithBase：覆盖某个分片的服务地址
func WithBase(s Shard, base string) Option {
	return func(c *Client) { c.bases[s] = strings.TrimRight(base, "/") }
}

// WithConcurrency：批量抓取的并发上限，<=0 不限
func WithConcurrency(n int) Option { return func(c *Client) { c.concurrency = n } }

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		bases:       make(map[Shard]string, len(DefaultBases)),
		concurrency: 8,
	}
	for s, b := range DefaultBases {
		c.bases[s] = b
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Base：分片地址，未知分片返回错误
func (c *Client) Base(s Shard) (string, error) {
	b, ok := c.bases[s]
	if !ok {
		return "", fmt.Errorf("unknown shard %q", s)
	}
	return b, nil
}

// get：GET + JSON 解码；endpoint 只用于指标与日志标签
func (c *Client) get(ctx context.Context, shard Shard, endpoint, path string, out any) error {
	base, err := c.Base(shard)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	t0 := time.Now()
	metrics.FetchRequestsTotal.WithLabelValues(endpoint).Inc()
	logger.For("warapi").Debug("warapi_req", "shard", shard, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FetchFailTotal.WithLabelValues(endpoint).Inc()
		logger.For("warapi").Error("warapi_http_error", "shard", shard, "path", path, "err", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FetchFailTotal.WithLabelValues(endpoint).Inc()
		logger.For("warapi").Warn("warapi_status", "shard", shard, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.FetchFailTotal.WithLabelValues(endpoint).Inc()
		logger.For("warapi").Error("warapi_decode_error", "shard", shard, "path", path, "err", err)
		return fmt.Errorf("decode %s: %w", path, err)
	}
	dur := time.Since(t0).Milliseconds()
	metrics.FetchDurationMs.WithLabelValues(endpoint).Observe(float64(dur))
	logger.For("warapi").Debug("warapi_resp", "shard", shard, "path", path, "duration_ms", dur)
	return nil
}

func (c *Client) War(ctx context.Context, shard Shard) (*WarData, error) {
	var w WarData
	if err := c.get(ctx, shard, "war", "/worldconquest/war", &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) MapNames(ctx context.Context, shard Shard) ([]string, error) {
	var names []string
	if err := c.get(ctx, shard, "maps", "/worldconquest/maps", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) Dynamic(ctx context.Context, shard Shard, mapName string) (*MapData, error) {
	var d MapData
	if err := c.get(ctx, shard, "dynamic", "/worldconquest/maps/"+url.PathEscape(mapName)+"/dynamic/public", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Static(ctx context.Context, shard Shard, mapName string) (*MapData, error) {
	var d MapData
	if err := c.get(ctx, shard, "static", "/worldconquest/maps/"+url.PathEscape(mapName)+"/static", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// 文档注释：一次性抓取某分片的全部数据
// 背景：先取六边形列表，再并发拉取每个六边形的动态与静态数据；战争概况并行获取。
// 约束：任一六边形失败则整批失败（调用方据此保留旧快照）；战争概况失败只记日志，War 置 nil。
// 结果按六边形标识排序，保证相同输入得到相同批次。
func (c *Client) FetchAll(ctx context.Context, shard Shard) (Batch, error) {
	names, err := c.MapNames(ctx, shard)
	if err != nil {
		return Batch{}, err
	}
	var war *WarData
	hexes := make([]HexReport, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency + 1)
	}
	g.Go(func() error {
		w, err := c.War(gctx, shard)
		if err != nil {
			if gctx.Err() == nil {
				logger.For("warapi").Warn("warapi_war_unavailable", "shard", shard, "err", err)
			}
			return nil
		}
		war = w
		return nil
	})
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			dyn, err := c.Dynamic(gctx, shard, name)
			if err != nil {
				return fmt.Errorf("dynamic %s: %w", name, err)
			}
			st, err := c.Static(gctx, shard, name)
			if err != nil {
				return fmt.Errorf("static %s: %w", name, err)
			}
			hexes[i] = HexReport{
				Hex:         topology.HexID(name),
				Items:       dyn.MapItems,
				TextItems:   st.MapTextItems,
				LastUpdated: dyn.LastUpdated,
				Version:     dyn.Version,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}
	sort.Slice(hexes, func(a, b int) bool { return hexes[a].Hex < hexes[b].Hex })
	return Batch{Shard: shard, War: war, Hexes: hexes}, nil
}

package api

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"war-map/internal/logger"
	"war-map/internal/metrics"
)

// 文档注释：本地 LRU 缓存（图层响应体）
// 背景：同一快照代数与可见性组合在短周期内被反复请求，进程内缓存避免重复组合与序列化；TTL 可调。
// 约束：键由调用方构造并包含分片与快照 ID，快照更新后旧键自然失效。
type LRU struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	now  func() time.Time
	lst  *list.List
	dict map[string]*list.Element
}

type kv struct {
	k   string
	v   []byte
	exp time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU{cap: capacity, ttl: ttl, now: time.Now, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *LRU) Get(k string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		it := e.Value.(kv)
		if c.now().Before(it.exp) {
			c.lst.MoveToFront(e)
			return it.v, true
		}
		c.lst.Remove(e)
		delete(c.dict, k)
	}
	return nil, false
}

func (c *LRU) Set(k string, v []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := c.now().Add(c.ttl)
	if e, ok := c.dict[k]; ok {
		e.Value = kv{k: k, v: v, exp: exp}
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(kv{k: k, v: v, exp: exp})
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(kv).k)
		c.lst.Remove(back)
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

// 文档注释：两级缓存（LRU → Redis）
// 约束：rc 为 nil 时只用 LRU；Redis 错误只记日志并按未命中处理。
type layerCache struct {
	lru *LRU
	rc  *redis.Client
	ttl time.Duration
}

func (c *layerCache) get(ctx context.Context, key string) ([]byte, bool) {
	if b, ok := c.lru.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues("lru").Inc()
		return b, true
	}
	if c.rc != nil {
		b, err := c.rc.Get(ctx, key).Bytes()
		if err == nil {
			metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
			c.lru.Set(key, b)
			return b, true
		}
		if err != redis.Nil {
			logger.L().Warn("cache_redis_get_error", "err", err)
		}
	}
	metrics.CacheMissesTotal.Inc()
	return nil, false
}

func (c *layerCache) set(ctx context.Context, key string, b []byte) {
	c.lru.Set(key, b)
	if c.rc != nil {
		if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
			logger.L().Warn("cache_redis_set_error", "err", err)
		}
	}
}

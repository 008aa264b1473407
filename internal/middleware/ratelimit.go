package middleware

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"war-map/internal/logger"
)

// 文档注释：按客户端的令牌桶限流中间件
// 背景：图层接口的响应体较大，对单一来源限速以保护缓存与组合路径；按配置开关与速率。
// 约束：不做排队，超限直接返回 429；空闲超过 idle 的桶会被惰性回收。
// ipHeader 为空时只按 RemoteAddr 计桶；只有部署在可信代理之后才应配置（如 X-Forwarded-For），否则客户端可伪造该头绕过限流。
type Limiter struct {
	rate     float64
	burst    float64
	idle     time.Duration
	now      func() time.Time
	ipHeader string

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

func NewLimiter(rps, burst float64, ipHeader string) *Limiter {
	if burst < 1 {
		burst = math.Max(1, rps)
	}
	return &Limiter{rate: rps, burst: burst, idle: 10 * time.Minute, now: time.Now, ipHeader: ipHeader, buckets: map[string]*bucket{}}
}

// Allow：key 对应的桶中取一个令牌
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for k, b := range l.buckets {
			if now.Sub(b.last) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}
	b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.last).Seconds()*l.rate)
	b.last = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Wrap：按客户端 IP 限流，来源 IP 的取法见 Limiter
func (l *Limiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, l.ipHeader)
		key := "-"
		if ip != nil {
			key = ip.String()
		}
		if !l.Allow(key) {
			logger.L().Debug("rate_limited", "ip", key, "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP：解析请求来源 IP；header 非空时优先取其首个有效 IP
func ClientIP(r *http.Request, header string) net.IP {
	if header != "" {
		if raw := r.Header.Get(header); raw != "" {
			first := strings.TrimSpace(strings.Split(raw, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}

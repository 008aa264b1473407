package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"war-map/internal/logger"
)

// 文档注释：管理接口保护
// 背景：手动刷新等管理操作需要 x-admin-token；可选地再限制来源 CIDR（支持 v4/v6）。
// 约束：未配置令牌时管理接口一律 403；令牌比较为常量时间。
type Admin struct {
	token string
	cidrs []*net.IPNet
}

// NewAdmin：cidrs 为逗号分隔列表，无效项忽略；为空表示不限来源
func NewAdmin(token, cidrs string) *Admin {
	a := &Admin{token: token}
	for _, c := range strings.Split(cidrs, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(c); err == nil {
			a.cidrs = append(a.cidrs, n)
		}
	}
	return a
}

func (a *Admin) allowed(r *http.Request) bool {
	if a.token == "" {
		return false
	}
	t := r.Header.Get("x-admin-token")
	if subtle.ConstantTimeCompare([]byte(t), []byte(a.token)) != 1 {
		return false
	}
	if len(a.cidrs) == 0 {
		return true
	}
	ip := ClientIP(r, "")
	if ip == nil {
		return false
	}
	for _, n := range a.cidrs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (a *Admin) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.allowed(r) {
			logger.L().Debug("admin_block", "path", r.URL.Path, "remote", r.RemoteAddr)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// 包 api：集中注册 HTTP API 路由，主入口只负责挂载
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"war-map/internal/layers"
	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/middleware"
	"war-map/internal/refresh"
	"war-map/internal/store"
	"war-map/internal/topology"
	"war-map/internal/visibility"
	"war-map/internal/warapi"
)

// History：刷新历史来源（store.Store 实现之）
type History interface {
	RecentRefreshes(ctx context.Context, shard string, limit int) ([]store.RefreshRow, error)
	GetTotals(ctx context.Context) (*store.Totals, error)
}

// Deps：路由依赖；Redis、History、Admin 可为 nil
type Deps struct {
	Topo      *topology.Topology
	Refresher *refresh.Refresher
	Shard     warapi.Shard
	Vis       *visibility.State
	VisStore  visibility.StateStore
	Redis     *redis.Client
	LRU       *LRU
	CacheTTL  time.Duration
	History   History
	Admin     *middleware.Admin
	Hub       *Hub
}

type server struct {
	Deps
	cache *layerCache
}

// 文档注释：构建路由
// 背景：读接口全部基于已发布快照，尚未发布时返回 503；可见性变更后显式重新组合一次图层并推送通知。
// 约束：返回的路由不含前缀，由主入口挂载到 API_BASE 下。
func BuildRoutes(d Deps) *mux.Router {
	if d.LRU == nil {
		d.LRU = NewLRU(256, d.CacheTTL)
	}
	if d.Hub == nil {
		d.Hub = NewHub()
	}
	if d.VisStore == nil {
		d.VisStore = &visibility.MemoryStore{}
	}
	s := &server{Deps: d, cache: &layerCache{lru: d.LRU, rc: d.Redis, ttl: d.CacheTTL}}

	r := mux.NewRouter()
	r.Use(countRoute)
	r.HandleFunc("/hexes", s.hexes).Methods(http.MethodGet)
	r.HandleFunc("/hexes/{id}/sectors", s.hexSectors).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", s.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/layers", s.layers).Methods(http.MethodGet)
	r.HandleFunc("/structures", s.structures).Methods(http.MethodGet)
	r.HandleFunc("/victory", s.victory).Methods(http.MethodGet)
	r.HandleFunc("/visibility", s.getVisibility).Methods(http.MethodGet)
	r.HandleFunc("/visibility", s.putVisibility).Methods(http.MethodPut)
	r.HandleFunc("/visibility/reset", s.resetVisibility).Methods(http.MethodPost)
	r.HandleFunc("/visibility/show-all", s.visibilityAll(func(v *visibility.State) { v.ShowAll() })).Methods(http.MethodPost)
	r.HandleFunc("/visibility/hide-all", s.visibilityAll(func(v *visibility.State) { v.HideAll() })).Methods(http.MethodPost)
	r.HandleFunc("/visibility/{group}", s.setVisible).Methods(http.MethodPut)
	r.HandleFunc("/visibility/{group}/toggle", s.toggle).Methods(http.MethodPost)
	r.HandleFunc("/visibility/{group}/opacity", s.opacity).Methods(http.MethodPost)
	r.HandleFunc("/groups", s.groups).Methods(http.MethodGet)
	r.HandleFunc("/history", s.history).Methods(http.MethodGet)
	r.HandleFunc("/history/totals", s.totals).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.ws).Methods(http.MethodGet)
	admin := d.Admin
	if admin == nil {
		// 未配置令牌时管理接口一律拒绝
		admin = middleware.NewAdmin("", "")
	}
	r.Handle("/refresh", admin.Wrap(http.HandlerFunc(s.refresh))).Methods(http.MethodPost)
	return r
}

func countRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				metrics.APIRequestsTotal.WithLabelValues(tpl).Inc()
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, b []byte) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// current：已发布快照，未发布时写 503 并返回 nil
func (s *server) current(w http.ResponseWriter) *refresh.Snapshot {
	snap := s.Refresher.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot published yet")
	}
	return snap
}

func (s *server) hexes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"size": s.Topo.HexSize(), "hexes": s.Topo.Tiles()})
}

func (s *server) hexSectors(w http.ResponseWriter, r *http.Request) {
	id := topology.HexID(mux.Vars(r)["id"])
	if _, err := s.Topo.Tile(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	snap := s.current(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, layers.SectorCollection(snap, id))
}

type snapshotView struct {
	ID         string           `json:"id"`
	Generation uint64           `json:"generation"`
	Shard      warapi.Shard     `json:"shard"`
	BuiltAt    time.Time        `json:"built_at"`
	Hexes      int              `json:"hexes"`
	Structures int              `json:"structures"`
	Labels     int              `json:"labels"`
	Sectors    int              `json:"sectors"`
	Invalid    []topology.HexID `json:"invalid_hexes"`
}

func viewOf(snap *refresh.Snapshot) snapshotView {
	inv := snap.Invalid
	if inv == nil {
		inv = []topology.HexID{}
	}
	return snapshotView{
		ID:         snap.ID.String(),
		Generation: snap.Generation,
		Shard:      snap.Shard,
		BuiltAt:    snap.BuiltAt,
		Hexes:      len(snap.Hexes),
		Structures: len(snap.Structures),
		Labels:     len(snap.Labels),
		Sectors:    snap.SectorCount(),
		Invalid:    inv,
	}
}

func (s *server) snapshot(w http.ResponseWriter, r *http.Request) {
	if snap := s.current(w); snap != nil {
		writeJSON(w, http.StatusOK, viewOf(snap))
	}
}

// statesFor：groups 参数非空时覆盖已保存的开关（透明度沿用已保存值）
func (s *server) statesFor(r *http.Request) *visibility.State {
	raw := r.URL.Query().Get("groups")
	if raw == "" {
		return s.Vis
	}
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	st := visibility.NewState(groups)
	for _, g := range groups {
		if saved, ok := s.Vis.Get(g); ok {
			st.SetOpacity(g, saved.Opacity)
		}
	}
	return st
}

func fingerprint(st *visibility.State) string {
	b, _ := st.Export()
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// layersKey：代数只在进程内递增，Redis 层跨进程共享，因此以每次构建唯一的快照 ID 作键
func layersKey(snap *refresh.Snapshot, st *visibility.State) string {
	return "warmap:layers:" + string(snap.Shard) + ":" + snap.ID.String() + ":" + fingerprint(st)
}

// compose：按（分片、快照 ID、可见性指纹）缓存的图层响应体
func (s *server) compose(ctx context.Context, snap *refresh.Snapshot, st *visibility.State) ([]byte, error) {
	key := layersKey(snap, st)
	if b, ok := s.cache.get(ctx, key); ok {
		return b, nil
	}
	b, err := json.Marshal(map[string]any{
		"generation": snap.Generation,
		"shard":      snap.Shard,
		"layers":     layers.Compose(snap, st),
	})
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, b)
	return b, nil
}

func (s *server) layers(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	b, err := s.compose(r.Context(), snap, s.statesFor(r))
	if err != nil {
		logger.L().Error("layers_compose_error", "err", err)
		writeError(w, http.StatusInternalServerError, "compose failed")
		return
	}
	writeRaw(w, b)
}

func (s *server) structures(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, refresh.Filter(snap, s.statesFor(r).Visible))
}

func (s *server) victory(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	if snap.Victory == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snap.Victory)
}

func (s *server) getVisibility(w http.ResponseWriter, r *http.Request) {
	b, err := s.Vis.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, b)
}

func (s *server) putVisibility(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Vis.Import(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.visibilityChanged(r.Context())
	s.getVisibility(w, r)
}

func (s *server) visibilityAll(fn func(*visibility.State)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(s.Vis)
		s.visibilityChanged(r.Context())
		s.getVisibility(w, r)
	}
}

// resetVisibility：恢复默认并清除已保存状态，下次启动同样得到默认值
func (s *server) resetVisibility(w http.ResponseWriter, r *http.Request) {
	s.Vis.Reset()
	if err := s.VisStore.Clear(r.Context()); err != nil {
		logger.L().Warn("visibility_clear_error", "err", err)
	}
	s.recompose(r.Context())
	s.getVisibility(w, r)
}

func (s *server) setVisible(w http.ResponseWriter, r *http.Request) {
	g := mux.Vars(r)["group"]
	v, err := strconv.ParseBool(r.URL.Query().Get("visible"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "visible must be a boolean")
		return
	}
	if !s.Vis.SetVisible(g, v) {
		writeError(w, http.StatusNotFound, "unknown group "+strconv.Quote(g))
		return
	}
	st, _ := s.Vis.Get(g)
	s.visibilityChanged(r.Context())
	writeJSON(w, http.StatusOK, st)
}

func (s *server) toggle(w http.ResponseWriter, r *http.Request) {
	g := mux.Vars(r)["group"]
	st, ok := s.Vis.Toggle(g)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown group "+strconv.Quote(g))
		return
	}
	s.visibilityChanged(r.Context())
	writeJSON(w, http.StatusOK, st)
}

func (s *server) opacity(w http.ResponseWriter, r *http.Request) {
	g := mux.Vars(r)["group"]
	v, err := strconv.ParseFloat(r.URL.Query().Get("v"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "opacity must be a number")
		return
	}
	if !s.Vis.SetOpacity(g, v) {
		writeError(w, http.StatusNotFound, "unknown group "+strconv.Quote(g))
		return
	}
	st, _ := s.Vis.Get(g)
	s.visibilityChanged(r.Context())
	writeJSON(w, http.StatusOK, st)
}

// visibilityChanged：保存状态后重新组合
func (s *server) visibilityChanged(ctx context.Context) {
	if err := visibility.Persist(ctx, s.VisStore, s.Vis); err != nil {
		logger.L().Warn("visibility_persist_error", "err", err)
	}
	s.recompose(ctx)
}

// recompose：对最新快照重新组合一次并通知订阅者
func (s *server) recompose(ctx context.Context) {
	if snap := s.Refresher.Current(); snap != nil {
		if _, err := s.compose(ctx, snap, s.Vis); err != nil {
			logger.L().Error("layers_compose_error", "err", err)
		}
	}
	s.Hub.Broadcast(Event{Type: "visibility"})
}

func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	shard := s.Shard
	if q := r.URL.Query().Get("shard"); q != "" {
		sh, err := warapi.ParseShard(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		shard = sh
	}
	snap, err := s.Refresher.Refresh(r.Context(), shard)
	switch {
	case errors.Is(err, refresh.ErrFetchFailure):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, refresh.ErrStale):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, topology.ErrUnknownHex):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, viewOf(snap))
	}
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "history disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.History.RecentRefreshes(r.Context(), r.URL.Query().Get("shard"), limit)
	if err != nil {
		logger.L().Error("history_query_error", "err", err)
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	if rows == nil {
		rows = []store.RefreshRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *server) totals(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "history disabled")
		return
	}
	t, err := s.History.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("history_totals_error", "err", err)
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type groupView struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

// groups：各分组的结构数量与当前显示状态，顺序同可见性状态
func (s *server) groups(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	byGroup := snap.ByGroup()
	names := s.Vis.Groups()
	out := make([]groupView, 0, len(names))
	for _, g := range names {
		st, _ := s.Vis.Get(g)
		out = append(out, groupView{Group: g, Count: len(byGroup[g]), Visible: st.Visible, Opacity: st.Opacity})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) ws(w http.ResponseWriter, r *http.Request) {
	var hello *Event
	if snap := s.Refresher.Current(); snap != nil {
		hello = &Event{Type: "snapshot", Generation: snap.Generation, Shard: string(snap.Shard), ID: snap.ID.String()}
	}
	s.Hub.ServeWS(w, r, hello)
}

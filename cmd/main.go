// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"war-map/internal/api"
	"war-map/internal/config"
	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/middleware"
	"war-map/internal/migrate"
	"war-map/internal/refresh"
	"war-map/internal/store"
	"war-map/internal/structure"
	"war-map/internal/utils"
	"war-map/internal/version"
	"war-map/internal/visibility"
	"war-map/internal/warapi"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")

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
	l.Debug("config_api_base", "base", cfg.APIBase, "shard", shard)

	cal, err := config.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		l.Error("calibration_error", "path", cfg.CalibrationPath, "err", err)
		os.Exit(1)
	}
	topo, norm, err := cal.Build(cfg.HexSize)
	if err != nil {
		l.Error("topology_error", "err", err)
		os.Exit(1)
	}
	l.Info("topology_ready", "hexes", topo.Len(), "size", topo.HexSize())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := warapi.NewClient(cfg.ClientOptions()...)
	r := refresh.NewRefresher(client, &refresh.Builder{Topo: topo, Norm: norm, Workers: cfg.TessellateWorkers})

	var rc *redis.Client
	if cfg.RedisEnable {
		if rc, err = utils.OpenRedisFromEnv(); err != nil {
			l.Error("redis_config_error", "err", err)
			os.Exit(1)
		}
	}
	var visStore visibility.StateStore = &visibility.MemoryStore{}
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(ctx).Err(); err != nil {
		// Redis 不可用时缓存与可见性均降级为进程内存
		l.Error("redis_ping_error", "err", err)
		rc = nil
	} else {
		l.Info("redis_ping_ok")
		visStore = visibility.NewRedisStore(rc, "")
	}
	vis, err := visibility.Restore(ctx, visStore, structure.AllGroups())
	if err != nil {
		l.Warn("visibility_restore_error", "err", err)
	}

	deps := api.Deps{
		Topo:      topo,
		Refresher: r,
		Shard:     shard,
		Vis:       vis,
		VisStore:  visStore,
		Redis:     rc,
		LRU:       api.NewLRU(cfg.LRUSize, cfg.CacheTTL),
		CacheTTL:  cfg.CacheTTL,
		Admin:     middleware.NewAdmin(cfg.AdminToken, cfg.AdminCIDRs),
		Hub:       api.NewHub(cfg.WSOriginPatterns...),
	}
	r.OnPublish(deps.Hub.Published)

	if cfg.HistoryEnable {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st := store.AttachDB(db)
		deps.History = st
		r.OnPublish(func(s *refresh.Snapshot) {
			row := store.RowFromSnapshot(s)
			go func() {
				wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := st.RecordRefresh(wctx, row); err != nil {
					l.Error("history_record_error", "generation", row.Generation, "err", err)
				}
			}()
		})
	} else {
		l.Info("history_disabled")
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(deps)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDist)))

	// NOTE: 向前端暴露 API 基础路径，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + cfg.APIBase + "'\n"))
		_, _ = w.Write([]byte("window.__SHARD__='" + string(shard) + "'\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	done := refresh.StartTicker(ctx, r, shard, cfg.RefreshInterval)

	handler := logger.AccessMiddleware(l)(mux)
	if cfg.RateLimitEnable {
		handler = middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitIPHeader).Wrap(handler)
	}
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		var err error
		if cfg.TLSEnable {
			if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "war-map.local", "localhost"); err != nil {
				l.Error("tls_cert_error", "err", err)
			}
			l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
			err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			l.Info("listening", "addr", cfg.Addr)
			err = s.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("listen_error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("shutdown_begin")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		l.Error("shutdown_error", "err", err)
	}
	<-done
	if rc != nil {
		_ = rc.Close()
	}
	l.Info("shutdown_ok")
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

var (
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warmap_refresh_total",
		Help: "Refresh attempts by outcome (ok, fetch_failed, build_failed, stale)",
	}, []string{"outcome"})
	RefreshDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warmap_refresh_duration_ms",
		Help:    "Full refresh duration in milliseconds (fetch + build)",
		Buckets: durationBuckets,
	})
	PublishedGeneration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warmap_published_generation",
		Help: "Generation number of the currently published snapshot",
	})
	FetchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warmap_fetch_requests_total",
		Help: "War API requests by endpoint",
	}, []string{"endpoint"})
	FetchFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warmap_fetch_fail_total",
		Help: "War API request failures by endpoint",
	}, []string{"endpoint"})
	FetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warmap_fetch_duration_ms",
		Help:    "War API request duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"endpoint"})
	InvalidGeometryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warmap_invalid_geometry_total",
		Help: "Hexes whose sector tessellation was dropped because of non-finite input",
	})
	SectorPolygons = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warmap_sector_polygons",
		Help: "Sector polygons in the published snapshot",
	})
	UnknownTypesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warmap_unknown_structure_types_total",
		Help: "Structures classified with an unknown type code",
	})
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warmap_api_requests_total",
		Help: "API requests by route",
	}, []string{"route"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warmap_cache_hits_total",
		Help: "Layer cache hits by tier (lru, redis)",
	}, []string{"tier"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warmap_cache_misses_total",
		Help: "Layer cache misses",
	})
)

func init() {
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshDurationMs)
	prometheus.MustRegister(PublishedGeneration)
	prometheus.MustRegister(FetchRequestsTotal)
	prometheus.MustRegister(FetchFailTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(InvalidGeometryTotal)
	prometheus.MustRegister(SectorPolygons)
	prometheus.MustRegister(UnknownTypesTotal)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }

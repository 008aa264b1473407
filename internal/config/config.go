// 包 config：进程配置（环境变量）与六边形标定文件（YAML）
package config

import (
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"

	"war-map/internal/warapi"
)

// Config：服务与命令行工具共用的环境变量配置；.env 由入口先行加载
type Config struct {
	Addr    string `envconfig:"ADDR" default:":8080"`
	APIBase string `envconfig:"API_BASE" default:"/api"`

	Shard             string        `envconfig:"SHARD" default:"able"`
	WarAPIBaseAble    string        `envconfig:"WARAPI_BASE_ABLE"`
	WarAPIBaseBaker   string        `envconfig:"WARAPI_BASE_BAKER"`
	WarAPIBaseCharlie string        `envconfig:"WARAPI_BASE_CHARLIE"`
	FetchTimeout      time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	FetchConcurrency  int           `envconfig:"FETCH_CONCURRENCY" default:"8"`
	RefreshInterval   time.Duration `envconfig:"REFRESH_INTERVAL" default:"5m"`

	HexSize           float64 `envconfig:"HEX_SIZE" default:"256"`
	CalibrationPath   string  `envconfig:"CALIBRATION_PATH"`
	TessellateWorkers int     `envconfig:"TESSELLATE_WORKERS" default:"8"`

	HistoryEnable bool          `envconfig:"HISTORY_ENABLE" default:"false"`
	RedisEnable   bool          `envconfig:"REDIS_ENABLE" default:"true"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"2m"`
	LRUSize       int           `envconfig:"LRU_SIZE" default:"256"`
	AdminToken    string        `envconfig:"ADMIN_TOKEN"`
	AdminCIDRs    string        `envconfig:"ADMIN_CIDRS"`
	UIDist        string        `envconfig:"UI_DIST" default:"ui/dist"`

	RateLimitEnable   bool    `envconfig:"RATE_LIMIT_ENABLE" default:"true"`
	RateLimitRPS      float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst    float64 `envconfig:"RATE_LIMIT_BURST" default:"40"`
	RateLimitIPHeader string  `envconfig:"RATE_LIMIT_IP_HEADER"`

	WSOriginPatterns []string `envconfig:"WS_ORIGIN_PATTERNS"`

	TLSEnable   bool   `envconfig:"TLS_ENABLE" default:"false"`
	TLSCertPath string `envconfig:"TLS_CERT_PATH" default:"data/certs/server.crt"`
	TLSKeyPath  string `envconfig:"TLS_KEY_PATH" default:"data/certs/server.key"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ShardValue：解析后的分片
func (c *Config) ShardValue() (warapi.Shard, error) { return warapi.ParseShard(c.Shard) }

// ClientOptions：按配置构造战争数据客户端选项
func (c *Config) ClientOptions() []warapi.Option {
	opts := []warapi.Option{
		warapi.WithConcurrency(c.FetchConcurrency),
		warapi.WithHTTPClient(&http.Client{Timeout: c.FetchTimeout}),
	}
	for s, base := range map[warapi.Shard]string{
		warapi.ShardAble:    c.WarAPIBaseAble,
		warapi.ShardBaker:   c.WarAPIBaseBaker,
		warapi.ShardCharlie: c.WarAPIBaseCharlie,
	} {
		if base != "" {
			opts = append(opts, warapi.WithBase(s, base))
		}
	}
	return opts
}

package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"war-map/internal/logger"
)

// 文档注释：Redis 连接参数
// 背景：图层缓存与可见性状态共用一个客户端；部署时可给整串 REDIS_URL，也可分项给 REDIS_HOST/PORT/PASS/DB。
// 约束：两者都未配置时返回 nil，调用方降级为进程内存；REDIS_DB 非法时报错而不是静默回退。
func RedisOptionsFromEnv() (*redis.Options, error) {
	if u := os.Getenv("REDIS_URL"); u != "" {
		return redis.ParseURL(u)
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil, nil
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	opts := &redis.Options{Addr: host + ":" + port, Password: os.Getenv("REDIS_PASS"), ClientName: "war-map"}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		opts.DB = n
	}
	return opts, nil
}

// OpenRedisFromEnv：按环境变量打开客户端，未配置时 (nil, nil)
func OpenRedisFromEnv() (*redis.Client, error) {
	opts, err := RedisOptionsFromEnv()
	if err != nil || opts == nil {
		return nil, err
	}
	logger.L().Debug("redis_env", "addr", opts.Addr, "db", opts.DB)
	return redis.NewClient(opts), nil
}

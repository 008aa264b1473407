// 包 utils：刷新历史库与缓存的连接工具、自签证书；环境变量只在这里读取
package utils

import (
	"database/sql"
	"net/url"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// 文档注释：历史库 DSN
// 背景：历史记录可选（HISTORY_ENABLE），通常与其他服务共用一个 Postgres，因此 application_name 固定为 war-map 便于区分连接。
// 约束：DATABASE_URL 优先且原样使用；否则由 PG_HOST/PG_PORT/PG_USER/PG_PASSWORD/PG_DB/PG_SSLMODE 拼装，库名缺省 warmap。
func BuildPostgresDSNFromEnv() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	host := envOr("PG_HOST", "localhost")
	port := envOr("PG_PORT", "5432")
	u := &url.URL{
		Scheme: "postgres",
		Host:   host + ":" + port,
		Path:   "/" + envOr("PG_DB", "warmap"),
	}
	user := envOr("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	q := url.Values{}
	q.Set("sslmode", envOr("PG_SSLMODE", "disable"))
	q.Set("application_name", "war-map")
	u.RawQuery = q.Encode()
	return u.String()
}

// OpenPostgresFromEnv：打开连接池
// 约束：每次发布只写一行，池子很小；PG_MAX_OPEN_CONNS 可覆盖默认 4
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	maxOpen := 4
	if n, err := strconv.Atoi(os.Getenv("PG_MAX_OPEN_CONNS")); err == nil && n > 0 {
		maxOpen = n
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

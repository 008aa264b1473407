package migrate

import (
	"database/sql"

	"war-map/internal/logger"
)

// 背景：首次运行自动创建刷新历史所需表与索引
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _map_refreshes (
            id UUID PRIMARY KEY,
            generation BIGINT NOT NULL,
            shard TEXT NOT NULL,
            built_at TIMESTAMPTZ NOT NULL,
            structures INT NOT NULL,
            sectors INT NOT NULL,
            invalid_hexes TEXT[] NOT NULL DEFAULT '{}',
            victory JSONB
        )`,
		`CREATE INDEX IF NOT EXISTS idx_map_refreshes_shard_built ON _map_refreshes(shard, built_at DESC)`,
		`CREATE TABLE IF NOT EXISTS _map_stats_total (
            id INT PRIMARY KEY,
            total_refreshes BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _map_stats_daily (
            day DATE PRIMARY KEY,
            refreshes BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _map_stats_total(id, total_refreshes)
         VALUES(1, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}

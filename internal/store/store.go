// 包 store: 提供与 PostgreSQL 的数据访问层，记录每次发布的快照摘要与统计
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"war-map/internal/logger"
	"war-map/internal/refresh"
	"war-map/internal/victory"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// RefreshRow: 一次发布的摘要
type RefreshRow struct {
	ID           uuid.UUID        `json:"id"`
	Generation   uint64           `json:"generation"`
	Shard        string           `json:"shard"`
	BuiltAt      time.Time        `json:"built_at"`
	Structures   int              `json:"structures"`
	Sectors      int              `json:"sectors"`
	InvalidHexes []string         `json:"invalid_hexes"`
	Victory      *victory.Summary `json:"victory,omitempty"`
}

// RowFromSnapshot: 快照 → 摘要
func RowFromSnapshot(snap *refresh.Snapshot) RefreshRow {
	inv := make([]string, 0, len(snap.Invalid))
	for _, id := range snap.Invalid {
		inv = append(inv, string(id))
	}
	return RefreshRow{
		ID:           snap.ID,
		Generation:   snap.Generation,
		Shard:        string(snap.Shard),
		BuiltAt:      snap.BuiltAt,
		Structures:   len(snap.Structures),
		Sectors:      snap.SectorCount(),
		InvalidHexes: inv,
		Victory:      snap.Victory,
	}
}

// 文档注释：记录一次发布
// 背景：作为发布回调运行；统计计数失败不影响摘要写入。
// 约束：同一快照重复写入时忽略（以 id 去重）。
func (s *Store) RecordRefresh(ctx context.Context, row RefreshRow) error {
	var vj []byte
	if row.Victory != nil {
		b, err := json.Marshal(row.Victory)
		if err != nil {
			return err
		}
		vj = b
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO _map_refreshes(id, generation, shard, built_at, structures, sectors, invalid_hexes, victory)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO NOTHING`,
		row.ID, int64(row.Generation), row.Shard, row.BuiltAt, row.Structures, row.Sectors, pq.Array(row.InvalidHexes), nullJSON(vj))
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE _map_stats_total SET total_refreshes=total_refreshes+1 WHERE id=1"); err != nil {
		logger.L().Warn("stats_total_update_error", "err", err)
	}
	if _, err := s.db.ExecContext(ctx, "INSERT INTO _map_stats_daily(day, refreshes) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET refreshes=_map_stats_daily.refreshes+1"); err != nil {
		logger.L().Warn("stats_daily_update_error", "err", err)
	}
	logger.L().Debug("refresh_recorded", "id", row.ID, "generation", row.Generation)
	return nil
}

// RecentRefreshes: 按构建时间倒序返回最近记录；shard 为空时不过滤
func (s *Store) RecentRefreshes(ctx context.Context, shard string, limit int) ([]RefreshRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, generation, shard, built_at, structures, sectors, invalid_hexes, victory
        FROM _map_refreshes
        WHERE ($1 = '' OR shard = $1)
        ORDER BY built_at DESC
        LIMIT $2`, shard, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RefreshRow
	for rows.Next() {
		var r RefreshRow
		var gen int64
		var vj []byte
		if err := rows.Scan(&r.ID, &gen, &r.Shard, &r.BuiltAt, &r.Structures, &r.Sectors, pq.Array(&r.InvalidHexes), &vj); err != nil {
			return nil, err
		}
		r.Generation = uint64(gen)
		if len(vj) > 0 {
			var v victory.Summary
			if err := json.Unmarshal(vj, &v); err == nil {
				r.Victory = &v
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals: 累计与当日发布次数
type Totals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

// GetTotals: 统计表读取；当日尚无记录时 Today 为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.db.QueryRowContext(ctx, "SELECT total_refreshes FROM _map_stats_total WHERE id=1").Scan(&t.Total); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT refreshes FROM _map_stats_daily WHERE day=current_date").Scan(&t.Today); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}

func nullJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

package refresh

import (
	"context"
	"errors"
	"time"

	"war-map/internal/logger"
	"war-map/internal/warapi"
)

// 文档注释：后台定时刷新
// 背景：启动即刷新一次，之后按 interval 周期执行；错误只记日志，调度继续。
// 约束：ctx 取消后协程退出；interval <= 0 时只执行启动时的一次。返回的通道在协程退出时关闭。
func StartTicker(ctx context.Context, r *Refresher, shard warapi.Shard, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	l := logger.L()
	run := func() {
		if _, err := r.Refresh(ctx, shard); err != nil && !errors.Is(err, ErrStale) && ctx.Err() == nil {
			l.Error("refresh_tick_error", "shard", shard, "err", err)
		}
	}
	go func() {
		defer close(done)
		run()
		if interval <= 0 {
			return
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				l.Info("refresh_ticker_stop", "shard", shard)
				return
			case <-t.C:
				run()
			}
		}
	}()
	return done
}

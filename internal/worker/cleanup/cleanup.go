// Package cleanup は期限切れトークンの定期削除ジョブを提供する。
// リフレッシュトークンとパスワードリセットトークンのうち、
// 有効期限を過ぎたものをまとめて削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sweeper は有効期限がnow以前のトークンを削除し、削除件数を返す。
// token.Storeが実装する。
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// CleanupJob は期限切れトークンの削除ジョブ。
// 冪等であり、リクエスト処理と並行して実行してよい。
type CleanupJob struct {
	sweeper Sweeper
	logger  *slog.Logger
	now     func() time.Time
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(sweeper Sweeper, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		sweeper: sweeper,
		logger:  logger,
		now:     time.Now,
	}
}

// Run は期限切れトークンを1回削除する。
// 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := j.now()

	deletedCount, err := j.sweeper.Sweep(ctx, start)
	if err != nil {
		j.logger.Error("トークンクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("トークンクリーンアップの実行に失敗: %w", err)
	}

	j.logger.Info("トークンクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}

// Start は起動直後に1回、その後interval間隔でRunを実行する。
// コンテキストがキャンセルされるまで実行を継続する。
// 1回の失敗ではループを止めず、次の周期で再実行する。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("トークンクリーンアップを開始しました",
		slog.Duration("interval", interval),
	)

	_ = j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("トークンクリーンアップを停止しました")
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}

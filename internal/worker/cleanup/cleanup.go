// Package cleanup は期限切れデータの自動削除ジョブを提供する。
// 保持期間（デフォルト7日）を超過したレートカウンターのウィンドウ行と、
// 期限切れセッションを定期バッチで削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PurgeRecorder は削除件数のメトリクス記録インターフェース。nilの場合は記録しない。
type PurgeRecorder interface {
	RecordRateWindowPurged(count int)
}

// CleanupJob は期限切れレートカウンターとセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	metrics       PurgeRecorder
	RetentionDays int // レートカウンターの保持日数（デフォルト: 7）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は7日。
func NewCleanupJob(db Executor, logger *slog.Logger, metrics PurgeRecorder) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		metrics:       metrics,
		RetentionDays: 7,
	}
}

// Run は保持期間を超過したレートカウンター行と期限切れセッションを削除する。
// 過去ウィンドウのカウンターは判定に使われないため、保持期間経過後に
// 安全に削除できる。冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	result, err := j.db.ExecContext(ctx,
		`DELETE FROM rate_counters WHERE window_date < (now() - $1::interval)::date`, interval)
	if err != nil {
		j.logger.Error("レートカウンタークリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("レートカウンタークリーンアップの実行に失敗: %w", err)
	}

	purgedCounters, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordRateWindowPurged(int(purgedCounters))
	}

	result, err = j.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}

	purgedSessions, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("purged_rate_counters", purgedCounters),
		slog.Int64("purged_sessions", purgedSessions),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresRateCounterRepo はPostgreSQLを使用した日次レート制限カウンター。
// INSERT ... ON CONFLICT による単一文のインクリメントで、並行リクエスト
// 間でもカウントが失われないことを保証する。
type PostgresRateCounterRepo struct {
	db *sql.DB
}

// NewPostgresRateCounterRepo はPostgresRateCounterRepoを生成する。
func NewPostgresRateCounterRepo(db *sql.DB) *PostgresRateCounterRepo {
	return &PostgresRateCounterRepo{db: db}
}

// Increment はキーとウィンドウの組のカウンターをアトミックに1増やし、増加後の値を返す。
func (r *PostgresRateCounterRepo) Increment(ctx context.Context, key string, window time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO rate_counters (counter_key, window_date, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (counter_key, window_date)
		 DO UPDATE SET count = rate_counters.count + 1
		 RETURNING count`,
		key, window,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("レート制限カウンターのインクリメントに失敗しました: %w", err)
	}
	return count, nil
}

// DeleteBefore は指定日時より前のウィンドウのカウンター行を削除し、削除件数を返す。
func (r *PostgresRateCounterRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_counters WHERE window_date < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("レート制限カウンターの削除に失敗しました: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ RateCounterRepository = (*PostgresRateCounterRepo)(nil)

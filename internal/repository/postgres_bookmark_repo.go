package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/bookman/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresBookmarkRepo はPostgreSQLを使用したブックマークリポジトリ。
type PostgresBookmarkRepo struct {
	db *sql.DB
}

// NewPostgresBookmarkRepo はPostgresBookmarkRepoを生成する。
func NewPostgresBookmarkRepo(db *sql.DB) *PostgresBookmarkRepo {
	return &PostgresBookmarkRepo{db: db}
}

const bookmarkColumns = `id, user_id, post_id, topic_id, name, reminder_type, reminder_at, created_at`

// scanBookmark は1行分のブックマークを読み取る。
func scanBookmark(row interface{ Scan(...any) error }) (*model.Bookmark, error) {
	b := &model.Bookmark{}
	var reminderType string
	err := row.Scan(&b.ID, &b.UserID, &b.PostID, &b.TopicID, &b.Name, &reminderType, &b.ReminderAt, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.ReminderType = model.ReminderType(reminderType)
	return b, nil
}

// FindByID は指定IDのブックマークを取得する。見つからない場合はnilを返す。
func (r *PostgresBookmarkRepo) FindByID(ctx context.Context, id string) (*model.Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1`,
		id,
	)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ブックマークの取得に失敗しました: %w", err)
	}
	return b, nil
}

// FindByUserAndPost はユーザーIDと投稿IDでブックマークを検索する。見つからない場合はnilを返す。
func (r *PostgresBookmarkRepo) FindByUserAndPost(ctx context.Context, userID, postID string) (*model.Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーと投稿によるブックマークの検索に失敗しました: %w", err)
	}
	return b, nil
}

// FindByUserAndTopic はユーザーIDとトピックIDでトピック直接のブックマークを検索する。
// post_idが設定された行は投稿ブックマークのため対象外。見つからない場合はnilを返す。
func (r *PostgresBookmarkRepo) FindByUserAndTopic(ctx context.Context, userID, topicID string) (*model.Bookmark, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = $1 AND topic_id = $2 AND post_id IS NULL`,
		userID, topicID,
	)

	b, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーとトピックによるブックマークの検索に失敗しました: %w", err)
	}
	return b, nil
}

// CountByUserID はユーザーのブックマーク総数を返す。
func (r *PostgresBookmarkRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ブックマーク数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// Create はブックマークを作成する。
// 一意制約違反（並行作成の競合）はErrCodeAlreadyBookmarkedとして返す。
func (r *PostgresBookmarkRepo) Create(ctx context.Context, b *model.Bookmark) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, user_id, post_id, topic_id, name, reminder_type, reminder_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.PostID, b.TopicID, b.Name, string(b.ReminderType), b.ReminderAt, b.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.NewAlreadyBookmarkedError()
		}
		return fmt.Errorf("ブックマークの作成に失敗しました: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのブックマーク一覧を作成日時降順で返す。
func (r *PostgresBookmarkRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var bookmarks []*model.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("ブックマーク行の読み取りに失敗しました: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の走査に失敗しました: %w", err)
	}
	return bookmarks, nil
}

// Delete は指定IDのブックマークを物理削除する。
func (r *PostgresBookmarkRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ブックマークの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewBookmarkNotFoundError(id)
	}
	return nil
}

// compile-time interface check
var _ BookmarkRepository = (*PostgresBookmarkRepo)(nil)

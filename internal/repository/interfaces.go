// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/bookman/internal/model"
)

// BookmarkRepository はブックマークデータの永続化インターフェース。
type BookmarkRepository interface {
	// FindByID は指定IDのブックマークを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Bookmark, error)

	// FindByUserAndPost はユーザーIDと投稿IDでブックマークを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndPost(ctx context.Context, userID, postID string) (*model.Bookmark, error)

	// FindByUserAndTopic はユーザーIDとトピックIDでトピック直接の
	// ブックマーク（post_idがNULLのもの）を検索する。見つからない場合はnilを返す。
	FindByUserAndTopic(ctx context.Context, userID, topicID string) (*model.Bookmark, error)

	// CountByUserID はユーザーのブックマーク総数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// Create はブックマークを作成する。
	// (user_id, 対象)の一意制約に違反した場合はErrCodeAlreadyBookmarkedの
	// APIErrorを返す。並行作成の競合に対するバックストップ。
	Create(ctx context.Context, bookmark *model.Bookmark) error

	// ListByUserID はユーザーのブックマーク一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Bookmark, error)

	// Delete は指定IDのブックマークを物理削除する。
	Delete(ctx context.Context, id string) error
}

// RateCounterRepository は日次レート制限カウンターの永続化インターフェース。
// ratelimit.CounterStoreのPostgres実装がこのインターフェースを満たす。
type RateCounterRepository interface {
	// Increment はキーとウィンドウの組のカウンターをアトミックに1増やし、
	// 増加後の値を返す。
	Increment(ctx context.Context, key string, window time.Time) (int, error)

	// DeleteBefore は指定日時より前のウィンドウのカウンター行を削除し、
	// 削除件数を返す。
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// セッションの発行は外部の認証基盤が行うため、参照と期限切れ削除のみを提供する。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// Package bookmark はブックマーク作成・削除のドメインロジックを提供する。
// 作成時の入場制御（レート制限 → リマインダー検証 → 重複チェック →
// 総数上限チェック）と、削除時の存在・所有権チェックを統括する。
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bookman/internal/clock"
	"github.com/hitoshi/bookman/internal/model"
	"github.com/hitoshi/bookman/internal/repository"
	"github.com/hitoshi/bookman/internal/security"
	"github.com/hitoshi/bookman/internal/settings"
)

// actionCreateBookmark はレート制限カウンターのアクションキー。
const actionCreateBookmark = "create_bookmark"

// Admitter は日次レート制限の判定インターフェース。
// ratelimit.Limiterを抽象化する。
type Admitter interface {
	Admit(ctx context.Context, actorID, actionKey string, maxCount int) (bool, error)
}

// Recorder はブックマーク操作のメトリクス記録インターフェース。
// metrics.Collectorを抽象化する。nilの場合は記録しない。
type Recorder interface {
	RecordCreated()
	RecordRejected(code string)
	RecordDeleted()
}

// CreateParams はブックマーク作成リクエストのパラメータ。
// PostIDとTopicIDは少なくとも一方が必須。PostIDが指定されている場合、
// 対象の同一性は投稿で判定されTopicIDは付随情報として保存される。
// ReminderTypeは未検証の入力値をそのまま受け取り、Create内で解析する。
// レート制限をペイロード検証より先に適用するため、検証はハンドラーではなく
// ここで行う。
type CreateParams struct {
	UserID       string
	PostID       *string
	TopicID      *string
	Name         string
	ReminderType model.ReminderType
	ReminderAt   *time.Time
}

// Service はブックマーク管理のサービス層。
type Service struct {
	repo      repository.BookmarkRepository
	limiter   Admitter
	limits    settings.Provider
	sanitizer security.NameSanitizerService
	clock     clock.Clock
	metrics   Recorder
	manageURL string
}

// NewService はServiceの新しいインスタンスを生成する。
// manageURLは上限超過エラーのメッセージに含めるブックマーク管理画面のURL。
// metricsはnilでもよい。
func NewService(
	repo repository.BookmarkRepository,
	limiter Admitter,
	limits settings.Provider,
	sanitizer security.NameSanitizerService,
	clk clock.Clock,
	metrics Recorder,
	manageURL string,
) *Service {
	return &Service{
		repo:      repo,
		limiter:   limiter,
		limits:    limits,
		sanitizer: sanitizer,
		clock:     clk,
		metrics:   metrics,
		manageURL: manageURL,
	}
}

// Create はブックマークを作成する。
// チェックの実行順序: レート制限 → リマインダー検証 → 対象の解決 →
// 重複チェック → 総数上限チェック → 永続化。最初に失敗したチェックで中断する。
// レート制限はペイロードの正当性に関わらず最初に実行する（濫用対策）。
// 不正なペイロードの連投もカウンターを消費し、上限到達後はRATE_LIMITEDになる。
// 重複チェックを総数上限より先に行うのは、重複の方がユーザーにとって
// 具体的で対処しやすいフィードバックであるため。
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.Bookmark, error) {
	limits := s.limits.Current()

	// 1. 日次作成回数のレート制限
	allowed, err := s.limiter.Admit(ctx, params.UserID, actionCreateBookmark, limits.MaxBookmarksPerDay)
	if err != nil {
		return nil, fmt.Errorf("レート制限の判定に失敗しました: %w", err)
	}
	if !allowed {
		return nil, s.reject(model.NewRateLimitedError())
	}

	// 2. リマインダー種別の解析と時刻の組み合わせ検証
	reminderType, known := model.ParseReminderType(string(params.ReminderType))
	if !known {
		return nil, s.reject(model.NewInvalidReminderTypeError(string(params.ReminderType)))
	}
	reminderAt, reminderErr := validateReminder(reminderType, params.ReminderAt)
	if reminderErr != nil {
		return nil, s.reject(reminderErr)
	}

	// 3. 対象の解決（重複チェックの同一性判定に必要）
	postID, topicID, targetErr := normalizeTarget(params.PostID, params.TopicID)
	if targetErr != nil {
		return nil, s.reject(targetErr)
	}

	// 4. 重複チェック（対象の同一性はリマインダーに関係なく(user, target)で判定）
	existing, err := s.findExisting(ctx, params.UserID, postID, topicID)
	if err != nil {
		return nil, fmt.Errorf("既存ブックマークの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, s.reject(model.NewAlreadyBookmarkedError())
	}

	// 5. 総数上限チェック
	count, err := s.repo.CountByUserID(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("ブックマーク数の確認に失敗しました: %w", err)
	}
	if count >= limits.MaxBookmarksPerUser {
		return nil, s.reject(model.NewTooManyBookmarksError(limits.MaxBookmarksPerUser, s.manageURL))
	}

	// 6. 永続化
	b := &model.Bookmark{
		ID:           uuid.New().String(),
		UserID:       params.UserID,
		PostID:       postID,
		TopicID:      topicID,
		Name:         s.sanitizer.Sanitize(params.Name),
		ReminderType: reminderType,
		ReminderAt:   reminderAt,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// 一意制約違反（並行作成の競合）はAPIErrorとしてそのまま返す
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return nil, s.reject(apiErr)
		}
		return nil, fmt.Errorf("ブックマークの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCreated()
	}

	slog.Info("bookmark created",
		slog.String("bookmark_id", b.ID),
		slog.String("user_id", b.UserID),
		slog.String("reminder_type", string(b.ReminderType)),
	)

	return b, nil
}

// Delete はブックマークを削除する。
// 存在確認を所有権チェックより先に行い、未検出と権限なしを
// 区別したエラーとして返す。
func (s *Service) Delete(ctx context.Context, requesterID, bookmarkID string) error {
	b, err := s.repo.FindByID(ctx, bookmarkID)
	if err != nil {
		return fmt.Errorf("ブックマークの取得に失敗しました: %w", err)
	}
	if b == nil {
		return s.reject(model.NewBookmarkNotFoundError(bookmarkID))
	}
	if b.UserID != requesterID {
		return s.reject(model.NewInvalidAccessError())
	}

	if err := s.repo.Delete(ctx, bookmarkID); err != nil {
		return fmt.Errorf("ブックマークの削除に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDeleted()
	}

	slog.Info("bookmark deleted",
		slog.String("bookmark_id", bookmarkID),
		slog.String("user_id", requesterID),
	)

	return nil
}

// ListByUser はユーザーのブックマーク一覧を作成日時降順で返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Bookmark, error) {
	bookmarks, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の取得に失敗しました: %w", err)
	}
	return bookmarks, nil
}

// findExisting は解決済み対象で既存ブックマークを検索する。
func (s *Service) findExisting(ctx context.Context, userID string, postID, topicID *string) (*model.Bookmark, error) {
	if postID != nil {
		return s.repo.FindByUserAndPost(ctx, userID, *postID)
	}
	return s.repo.FindByUserAndTopic(ctx, userID, *topicID)
}

// reject は拒否メトリクスを記録してからエラーを返す。
func (s *Service) reject(apiErr *model.APIError) *model.APIError {
	if s.metrics != nil {
		s.metrics.RecordRejected(apiErr.Code)
	}
	return apiErr
}

// normalizeTarget は対象の指定を正規化する。
// 空文字列のポインタはnilとして扱い、両方未指定の場合はエラーを返す。
// 投稿が指定されている場合、同一性判定は投稿で行われる（トピックは付随情報）。
func normalizeTarget(postID, topicID *string) (*string, *string, *model.APIError) {
	if postID != nil && *postID == "" {
		postID = nil
	}
	if topicID != nil && *topicID == "" {
		topicID = nil
	}
	if postID == nil && topicID == nil {
		return nil, nil, model.NewInvalidTargetError("post_idとtopic_idがどちらも未指定です")
	}
	return postID, topicID, nil
}

// validateReminder はリマインダー種別と時刻の組み合わせを検証する。
// 時刻必須の種別で時刻が欠けている場合はエラー。
// 時刻不要の種別では指定された時刻を無視してnilを返す。
func validateReminder(reminderType model.ReminderType, reminderAt *time.Time) (*time.Time, *model.APIError) {
	if !reminderType.RequiresReminderAt() {
		return nil, nil
	}
	if reminderAt == nil || reminderAt.IsZero() {
		return nil, model.NewTimeMustBeProvidedError()
	}
	return reminderAt, nil
}

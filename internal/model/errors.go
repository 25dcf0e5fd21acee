// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, bookmark, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeTimeMustBeProvided  = "TIME_MUST_BE_PROVIDED"
	ErrCodeAlreadyBookmarked   = "ALREADY_BOOKMARKED"
	ErrCodeTooManyBookmarks    = "TOO_MANY_BOOKMARKS"
	ErrCodeBookmarkNotFound    = "BOOKMARK_NOT_FOUND"
	ErrCodeInvalidAccess       = "INVALID_ACCESS"
	ErrCodeInvalidTarget       = "INVALID_TARGET"
	ErrCodeInvalidReminderType = "INVALID_REMINDER_TYPE"
)

// NewRateLimitedError は日次作成上限超過エラーを生成する。
// 同一ウィンドウ内の再試行は無意味なため、翌日以降の再試行を促す。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "本日のブックマーク作成回数が上限に達しました。",
		Category: "system",
		Action:   "時間をおいてから再度お試しください。",
	}
}

// NewTimeMustBeProvidedError はリマインダー時刻未指定エラーを生成する。
func NewTimeMustBeProvidedError() *APIError {
	return &APIError{
		Code:     ErrCodeTimeMustBeProvided,
		Message:  "このリマインダー種別にはリマインダー時刻の指定が必要です。",
		Category: "validation",
		Action:   "reminder_atに有効な日時（RFC 3339形式）を指定してください。",
	}
}

// NewAlreadyBookmarkedError は重複ブックマークエラーを生成する。
func NewAlreadyBookmarkedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyBookmarked,
		Message:  "この対象は既にブックマーク済みです。",
		Category: "bookmark",
		Action:   "ブックマーク一覧から既存のブックマークを確認してください。",
	}
}

// NewTooManyBookmarksError はブックマーク総数の上限超過エラーを生成する。
// 上限値と管理画面URLは呼び出し側（サービス層）が組み立てて渡す。
// クライアントはMessageの一覧のみを表示する場合があるため、
// 上限値と管理画面URLの両方をMessageに含める。
func NewTooManyBookmarksError(limit int, manageURL string) *APIError {
	return &APIError{
		Code:     ErrCodeTooManyBookmarks,
		Message:  fmt.Sprintf("ブックマーク数が上限（%d件）に達しています。%s から不要なブックマークを削除してください。", limit, manageURL),
		Category: "bookmark",
		Action:   fmt.Sprintf("%s から不要なブックマークを削除してください。", manageURL),
	}
}

// NewBookmarkNotFoundError はブックマーク未検出エラーを生成する。
func NewBookmarkNotFoundError(bookmarkID string) *APIError {
	return &APIError{
		Code:     ErrCodeBookmarkNotFound,
		Message:  fmt.Sprintf("指定されたブックマークが見つかりません: %s", bookmarkID),
		Category: "bookmark",
		Action:   "ブックマークIDを確認してください。",
	}
}

// NewInvalidAccessError は他ユーザーのブックマークへの操作エラーを生成する。
func NewInvalidAccessError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAccess,
		Message:  "このブックマークを操作する権限がありません。",
		Category: "auth",
		Action:   "自分が作成したブックマークのみ削除できます。",
	}
}

// NewInvalidTargetError は対象未指定・不正指定エラーを生成する。
func NewInvalidTargetError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTarget,
		Message:  fmt.Sprintf("ブックマーク対象が不正です: %s", reason),
		Category: "validation",
		Action:   "post_idまたはtopic_idのいずれかを指定してください。",
	}
}

// NewInvalidReminderTypeError は未知のリマインダー種別エラーを生成する。
func NewInvalidReminderTypeError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidReminderType,
		Message:  fmt.Sprintf("無効なリマインダー種別です: %s", value),
		Category: "validation",
		Action:   "none、at_desired_time、later_today、tomorrow、next_week、next_month、customのいずれかを指定してください。",
	}
}

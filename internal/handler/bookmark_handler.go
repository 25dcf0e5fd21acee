// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bookman/internal/bookmark"
	"github.com/hitoshi/bookman/internal/middleware"
	"github.com/hitoshi/bookman/internal/model"
)

// BookmarkServiceInterface はブックマークハンドラーが必要とするサービスインターフェース。
type BookmarkServiceInterface interface {
	// Create はガード付きのブックマーク作成を行う。
	Create(ctx context.Context, params bookmark.CreateParams) (*model.Bookmark, error)
	// Delete は所有者チェック付きでブックマークを削除する。
	Delete(ctx context.Context, userID, bookmarkID string) error
	// ListByUser はユーザーのブックマーク一覧を返す。
	ListByUser(ctx context.Context, userID string) ([]*model.Bookmark, error)
}

// BookmarkHandler はブックマーク管理のHTTPハンドラー。
type BookmarkHandler struct {
	service BookmarkServiceInterface
}

// NewBookmarkHandler はBookmarkHandlerを生成する。
func NewBookmarkHandler(service BookmarkServiceInterface) *BookmarkHandler {
	return &BookmarkHandler{
		service: service,
	}
}

// createBookmarkRequest はブックマーク作成リクエストのボディ。
type createBookmarkRequest struct {
	PostID       *string `json:"post_id"`
	TopicID      *string `json:"topic_id"`
	Name         string  `json:"name"`
	ReminderType string  `json:"reminder_type"`
	ReminderAt   *string `json:"reminder_at"`
}

// bookmarkResponse はブックマーク情報のAPIレスポンス。
type bookmarkResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	PostID       *string    `json:"post_id,omitempty"`
	TopicID      *string    `json:"topic_id,omitempty"`
	Name         string     `json:"name"`
	ReminderType string     `json:"reminder_type"`
	ReminderAt   *time.Time `json:"reminder_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateBookmark は新しいブックマークを作成する。
// POST /api/bookmarks
func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	// reminder_atはRFC 3339形式。解析できない値は未指定として扱い、
	// 時刻必須の種別であれば後段の検証でTIME_MUST_BE_PROVIDEDになる。
	var reminderAt *time.Time
	if req.ReminderAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.ReminderAt); err == nil {
			reminderAt = &t
		}
	}

	// reminder_typeの検証はサービス層が行う。レート制限がペイロードの
	// 正当性に関わらず最初に適用されるよう、ここでは素通しする。
	created, err := h.service.Create(r.Context(), bookmark.CreateParams{
		UserID:       userID,
		PostID:       req.PostID,
		TopicID:      req.TopicID,
		Name:         req.Name,
		ReminderType: model.ReminderType(req.ReminderType),
		ReminderAt:   reminderAt,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBookmarkResponse(created))
}

// ListBookmarks はユーザーのブックマーク一覧を取得する。
// GET /api/bookmarks
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	bookmarks, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]bookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		results[i] = toBookmarkResponse(b)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// DeleteBookmark はブックマークを削除する。
// DELETE /api/bookmarks/:id
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	bookmarkID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, bookmarkID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toBookmarkResponse はドメインのBookmarkをhandlerのレスポンス型に変換する。
func toBookmarkResponse(b *model.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		PostID:       b.PostID,
		TopicID:      b.TopicID,
		Name:         b.Name,
		ReminderType: string(b.ReminderType),
		ReminderAt:   b.ReminderAt,
		CreatedAt:    b.CreatedAt,
	}
}

// unauthorizedError は認証必須エラーを生成する。
func unauthorizedError() *model.APIError {
	return &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// apiErrorResponse はAPIエラーレスポンスのJSON構造。
// Errorsには表示順のメッセージ一覧を格納する。
type apiErrorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Errors   []string `json:"errors"`
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Errors:   []string{apiErr.Message},
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case model.ErrCodeTimeMustBeProvided,
		model.ErrCodeAlreadyBookmarked,
		model.ErrCodeTooManyBookmarks,
		model.ErrCodeInvalidTarget,
		model.ErrCodeInvalidReminderType:
		return http.StatusBadRequest
	case model.ErrCodeBookmarkNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidAccess:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

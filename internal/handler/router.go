package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bookman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// ブックマーク
	BookmarkService BookmarkServiceInterface

	// ユーザー情報
	UserFinder UserFinder

	// メトリクス（nilの場合はステータスコード集計をスキップ）
	StatusRecorder middleware.StatusRecorder

	// 認証不要の補助エンドポイント
	HealthHandler  http.Handler
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → SecurityHeaders → CSRF → Session → RateLimit
//
// ヘルスチェックとメトリクスはミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Recoveryを最外殻に置き、後続ミドルウェアのpanicも500に変換する
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	bookmarkHandler := NewBookmarkHandler(deps.BookmarkService)

	// --- 認証不要のルート ---

	if deps.HealthHandler != nil {
		r.Method(http.MethodGet, "/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: CSRF → Session → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.Middleware())

		// ブックマーク管理
		r.Route("/api/bookmarks", func(r chi.Router) {
			r.Post("/", bookmarkHandler.CreateBookmark)
			r.Get("/", bookmarkHandler.ListBookmarks)
			r.Delete("/{id}", bookmarkHandler.DeleteBookmark)
		})

		// ユーザー情報
		if deps.UserFinder != nil {
			userHandler := NewUserHandler(deps.UserFinder)
			r.Get("/api/me", userHandler.GetMe)
		}
	})

	return r
}

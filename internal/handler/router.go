package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/datetimeapi/internal/locale"
	"github.com/hitoshi/datetimeapi/internal/metrics"
	"github.com/hitoshi/datetimeapi/internal/middleware"
	"github.com/hitoshi/datetimeapi/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	ClientIP          func(*http.Request) string

	// メトリクス（MetricsHandlerがnilの場合 /metrics は公開しない）
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler

	// 曜日名の言語選択
	Negotiator *locale.Negotiator
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	StripSlashes → RequestID → Logging → Metrics → Recovery → SecurityHeaders → CORS → RateLimit
//
// panicはRecoveryで500に変換され、LoggingとMetricsに記録される。
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()

	// 末尾スラッシュ付きのURLも同じルートとして扱う
	r.Use(chimw.StripSlashes)
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.ClientIP))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError(req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, model.NewMethodNotAllowedError(req.Method))
	})

	// --- 運用エンドポイント ---
	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	h := NewDateTimeHandler(deps.Negotiator, collector)

	// --- 計算エンドポイント ---
	// ミドルウェアスタック: RateLimit
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Get("/addsubtract", h.AddSubtract)
		r.Get("/difference", h.Difference)
		r.Get("/convert", h.Convert)
		r.Get("/current", h.Current)
		r.Get("/dayofweek", h.DayOfWeek)
		r.Get("/weeknumber_iso", h.WeekNumber)
	})

	return r
}

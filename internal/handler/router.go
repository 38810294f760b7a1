package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/botcatalog/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 運用
	Logger         *slog.Logger
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	HTTPMetrics    middleware.HTTPMetricsRecorder

	// ミドルウェア依存
	AdminEmails       []string
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	// TrustProxyHeaders がtrueの場合のみX-Forwarded-For/X-Real-IPをクライアントIPとして扱う。
	// リバースプロキシを経由しない構成でtrueにするとヘッダー偽装でレート制限を回避される。
	TrustProxyHeaders bool

	// 認証
	AuthService   AuthServiceInterface
	AuthConfig    AuthHandlerConfig
	LoginRecorder LoginRecorder

	// カタログ
	ProductService ProductServiceInterface
	WhatsAppNumber string

	// お問い合わせ
	ContactService ContactServiceInterface

	// ダッシュボード
	StatsService StatsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS
//
// 管理API（/api/admin/*）はさらに Session → AdminAllowList → RateLimit(admin) → CSRF を通る。
// お問い合わせ送信は RateLimit(contact) を通る。TrustProxyHeaders有効時はその前にRealIPを通す。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.LoginRecorder)
	productHandler := NewProductHandler(deps.ProductService, deps.WhatsAppNumber)
	contactHandler := NewContactHandler(deps.ContactService)
	statsHandler := NewStatsHandler(deps.StatsService)

	// --- 運用エンドポイント ---
	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker).Health)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
		r.Get("/auth/user", authHandler.Me)
		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		r.Get("/products", productHandler.ListPublic)
		contactChain := []func(http.Handler) http.Handler{deps.RateLimiter.ContactMiddleware()}
		if deps.TrustProxyHeaders {
			contactChain = append([]func(http.Handler) http.Handler{chimw.RealIP}, contactChain...)
		}
		r.With(contactChain...).Post("/contact", contactHandler.Submit)

		// --- 管理者のみ ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.AuthService))
			r.Use(middleware.NewAdminAllowListMiddleware(deps.AdminEmails))
			r.Use(deps.RateLimiter.AdminMiddleware())
			r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

			r.Get("/stats", statsHandler.Get)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.ListAll)
				r.Post("/", productHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", productHandler.Get)
					r.Put("/", productHandler.Update)
					r.Delete("/", productHandler.Delete)
				})
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", contactHandler.ListMessages)
				r.Put("/{id}/read", contactHandler.MarkRead)
			})
		})
	})

	return r
}

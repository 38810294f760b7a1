package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/botcatalog/internal/auth"
	"github.com/hitoshi/botcatalog/internal/config"
	"github.com/hitoshi/botcatalog/internal/contact"
	"github.com/hitoshi/botcatalog/internal/database"
	"github.com/hitoshi/botcatalog/internal/handler"
	"github.com/hitoshi/botcatalog/internal/metrics"
	"github.com/hitoshi/botcatalog/internal/middleware"
	"github.com/hitoshi/botcatalog/internal/product"
	"github.com/hitoshi/botcatalog/internal/repository"
	"github.com/hitoshi/botcatalog/internal/security"
)

const (
	dbPingTimeout   = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

// runServe はAPIサーバーを起動する。
// SIGINT/SIGTERMを受信するとgraceful shutdownを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Ping(ctx, db, dbPingTimeout); err != nil {
		return err
	}
	slog.Info("connected to database",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	reg := prometheus.NewRegistry()
	limiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))
	defer limiter.Stop()

	router := handler.NewRouter(buildRouterDeps(cfg, db, reg, limiter))

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server", slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("API server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// rateLimiterConfig は設定値からレート制限の設定を生成する。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rc := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitAdmin > 0 {
		rc.AdminPerMinute = cfg.RateLimitAdmin
	}
	if cfg.RateLimitContact > 0 {
		rc.ContactPerMinute = cfg.RateLimitContact
	}
	return rc
}

// buildRouterDeps はリポジトリ・サービス・メトリクスを組み立ててRouterDepsを返す。
// regにはプロセス・ランタイムのコレクタも登録する。
func buildRouterDeps(cfg *config.Config, db *sql.DB, reg *prometheus.Registry, limiter *middleware.RateLimiter) *handler.RouterDeps {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	productRepo := repository.NewPostgresProductRepo(db)
	messageRepo := repository.NewPostgresContactMessageRepo(db)

	provider := auth.NewOIDCProvider(auth.OIDCConfig{
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		RedirectURL:  cfg.AuthRedirectURL,
		Scopes:       cfg.AuthScopes,
		AuthorizeURL: cfg.AuthAuthorizeURL,
		TokenURL:     cfg.AuthTokenURL,
		UserInfoURL:  cfg.AuthUserInfoURL,
		HTTPClient:   security.NewSafeClient(cfg.AuthHTTPTimeout),
	})
	authService := auth.NewService(provider, userRepo, sessionRepo, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
	})

	sanitizer := security.NewTextSanitizer()
	productService := product.NewService(productRepo, sanitizer, collector)
	contactService := contact.NewService(messageRepo, sanitizer, collector)

	return &handler.RouterDeps{
		Logger:         slog.Default(),
		HealthChecker:  db,
		MetricsHandler: metrics.Handler(reg),
		HTTPMetrics:    collector,

		AdminEmails:       cfg.AdminEmails,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter:       limiter,
		TrustProxyHeaders: cfg.TrustProxyHeaders,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},
		LoginRecorder: collector,

		ProductService: productService,
		WhatsAppNumber: cfg.WhatsAppNumber,
		ContactService: contactService,
		StatsService:   handler.NewStatsServiceAdapter(productService, contactService),
	}
}

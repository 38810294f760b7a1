// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OAuth
	AuthClientID     string
	AuthClientSecret string
	AuthRedirectURL  string
	AuthAuthorizeURL string
	AuthTokenURL     string
	AuthUserInfoURL  string
	AuthScopes       string
	AuthHTTPTimeout  time.Duration

	// Session
	SessionMaxAge int

	// Admin
	AdminEmails []string

	// Rate Limit（1分あたりのリクエスト数）
	RateLimitAdmin   int
	RateLimitContact int

	// Catalog
	WhatsAppNumber string

	// Logging
	LogLevel string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string

	// Proxy
	// TrustProxyHeaders はX-Forwarded-For/X-Real-IPをクライアントIPとして扱うかどうか。
	// リバースプロキシの背後で動かす場合のみtrueにする。
	TrustProxyHeaders bool
}

// requiredKeys は未設定の場合に起動を中止する設定キー。
var requiredKeys = []string{
	"database_url",
	"auth_client_id",
	"auth_client_secret",
	"auth_redirect_url",
	"auth_authorize_url",
	"auth_token_url",
	"auth_userinfo_url",
	"base_url",
}

// defaults は任意設定のデフォルト値。
var defaults = map[string]any{
	"server_port":         "8080",
	"session_max_age":     604800,
	"cookie_domain":       "",
	"cors_allowed_origin": "http://localhost:5173",
	"admin_emails":        "",
	"whatsapp_number":     "",
	"rate_limit_admin":    120,
	"rate_limit_contact":  5,
	"auth_scopes":         "openid email profile",
	"auth_http_timeout":   10 * time.Second,
	"log_level":           "info",
	"trust_proxy_headers": false,
}

// NewViper は環境変数とデフォルト値を設定したviperインスタンスを生成する。
// キーは小文字のスネークケースで、対応する環境変数は大文字になる（例: server_port → SERVER_PORT）。
// カレントディレクトリにconfig.yamlがあれば環境変数より低い優先度で読み込む。
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	return LoadFrom(NewViper())
}

// LoadFrom はviperインスタンスからConfigを読み込む。
// 設定ファイルが存在しない場合は環境変数とデフォルト値のみを使用する。
func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, strings.ToUpper(key))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg := &Config{
		DatabaseURL:       v.GetString("database_url"),
		AuthClientID:      v.GetString("auth_client_id"),
		AuthClientSecret:  v.GetString("auth_client_secret"),
		AuthRedirectURL:   v.GetString("auth_redirect_url"),
		AuthAuthorizeURL:  v.GetString("auth_authorize_url"),
		AuthTokenURL:      v.GetString("auth_token_url"),
		AuthUserInfoURL:   v.GetString("auth_userinfo_url"),
		AuthScopes:        v.GetString("auth_scopes"),
		AuthHTTPTimeout:   positiveDuration(v, "auth_http_timeout"),
		SessionMaxAge:     positiveInt(v, "session_max_age"),
		AdminEmails:       splitList(v.GetString("admin_emails")),
		RateLimitAdmin:    positiveInt(v, "rate_limit_admin"),
		RateLimitContact:  positiveInt(v, "rate_limit_contact"),
		WhatsAppNumber:    strings.TrimPrefix(strings.TrimSpace(v.GetString("whatsapp_number")), "+"),
		LogLevel:          v.GetString("log_level"),
		ServerPort:        v.GetString("server_port"),
		BaseURL:           strings.TrimRight(v.GetString("base_url"), "/"),
		CookieDomain:      v.GetString("cookie_domain"),
		CORSAllowedOrigin: v.GetString("cors_allowed_origin"),
		TrustProxyHeaders: v.GetBool("trust_proxy_headers"),
	}
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")

	return cfg, nil
}

// positiveInt は正の整数値を返す。不正値や0以下の場合はデフォルト値を返す。
func positiveInt(v *viper.Viper, key string) int {
	if i := v.GetInt(key); i > 0 {
		return i
	}
	return defaults[key].(int)
}

// positiveDuration は正の期間を返す。不正値や0以下の場合はデフォルト値を返す。
func positiveDuration(v *viper.Viper, key string) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return defaults[key].(time.Duration)
}

// splitList はカンマ区切りの文字列を小文字化・空白除去したスライスに変換する。
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

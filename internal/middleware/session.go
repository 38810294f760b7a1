// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/botcatalog/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	userIDContextKey = contextKey("user_id")
	emailContextKey  = contextKey("email")
)

// CurrentUserFinder はセッションIDから現在のユーザーを解決するインターフェース。
// セッションがない、期限切れ、またはユーザーが存在しない場合はUNAUTHORIZEDの*model.APIErrorを返す。
type CurrentUserFinder interface {
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// NewSessionMiddleware はHTTP Only CookieのセッションIDから現在のユーザーを解決し、
// ユーザーIDとメールアドレスをリクエストコンテキストに注入するミドルウェアを返す。
// 未認証リクエストには401 UNAUTHORIZED、ストア障害には500 INTERNAL_ERRORを返し、
// 後続のハンドラーは実行しない。
func NewSessionMiddleware(users CurrentUserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			user, err := users.GetCurrentUser(r.Context(), cookie.Value)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized {
					WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
					return
				}
				slog.Error("failed to resolve current user",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := ContextWithUser(r.Context(), user.ID, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewAdminAllowListMiddleware はメールアドレスの許可リストで管理者を絞り込むミドルウェアを返す。
// リストが空の場合は認証済みユーザー全員を管理者として扱う。
// NewSessionMiddlewareの後に配置する。
func NewAdminAllowListMiddleware(emails []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.ToLower(EmailFromContext(r.Context()))
			if _, ok := allowed[email]; !ok {
				slog.Warn("admin access denied",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// EmailFromContext はリクエストコンテキストからメールアドレスを取得する。未設定なら空文字列。
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailContextKey).(string)
	return email
}

// ContextWithUser はコンテキストにユーザーIDとメールアドレスを注入する。
// ロギングミドルウェア配下ではリクエストログにもユーザーIDを反映する。
func ContextWithUser(ctx context.Context, userID, email string) context.Context {
	if u, ok := ctx.Value(requestUserContextKey).(*requestUser); ok {
		u.id = userID
	}
	ctx = context.WithValue(ctx, userIDContextKey, userID)
	return context.WithValue(ctx, emailContextKey, email)
}

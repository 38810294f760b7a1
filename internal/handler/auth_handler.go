package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/botcatalog/internal/middleware"
	"github.com/hitoshi/botcatalog/internal/model"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// LoginRecorder はログイン結果の記録に使用するインターフェース。
type LoginRecorder interface {
	RecordLogin(success bool)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は認可コードフローとセッション関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	logins  LoginRecorder
}

// NewAuthHandler はAuthHandlerを生成する。loginsはnilでもよい。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, logins LoginRecorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		logins:  logins,
	}
}

// userResponse はログインユーザーのAPIレスポンス。
type userResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Login は認可コードフローを開始する。
// GET /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	h.setCookie(w, oauthStateCookie, state, oauthStateMaxAge, false)
	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// Callback は認証プロバイダからのコールバックを処理し、セッションCookieを発行する。
// GET /api/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch")
		h.recordLogin(false)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	h.setCookie(w, oauthStateCookie, "", -1, false)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.recordLogin(false)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		h.recordLogin(false)
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	h.recordLogin(true)
	h.setCookie(w, middleware.SessionCookieName, session.ID, h.config.SessionMaxAge, true)
	http.Redirect(w, r, h.config.BaseURL+"/", http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄してトップページへリダイレクトする。
// GET /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		// 削除に失敗してもCookieはクリアする
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to logout", slog.String("error", err.Error()))
		}
	}

	h.setCookie(w, middleware.SessionCookieName, "", -1, true)
	http.Redirect(w, r, h.config.BaseURL+"/", http.StatusTemporaryRedirect)
}

// Me は現在のログインユーザー情報を返す。
// GET /api/auth/user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	user, err := h.service.GetCurrentUser(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	})
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.logins != nil {
		h.logins.RecordLogin(success)
	}
}

// setCookie はHTTP OnlyのCookieを設定する。maxAgeが負の場合は削除する。
func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, maxAge int, withDomain bool) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if withDomain {
		c.Domain = h.config.CookieDomain
	}
	http.SetCookie(w, c)
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxProviderResponseSize は認証プロバイダのレスポンスとして読み込む上限。
const maxProviderResponseSize = 1 << 20

// OIDCConfig は認可コードフローを提供する認証プロバイダの設定。
// エンドポイントはすべてURLで指定する。
type OIDCConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       string

	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string

	// HTTPClient はトークン交換とユーザー情報取得に使用する。nilの場合はhttp.DefaultClient。
	HTTPClient *http.Client
}

// OIDCProvider はOpenID Connect互換の認可コードフローによる認証を提供する。
type OIDCProvider struct {
	config OIDCConfig
	client *http.Client
}

// NewOIDCProvider はOIDCProviderを生成する。
func NewOIDCProvider(config OIDCConfig) *OIDCProvider {
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if config.Scopes == "" {
		config.Scopes = "openid email profile"
	}
	return &OIDCProvider{config: config, client: client}
}

// GetLoginURL は認可エンドポイントのURLを生成する。
func (p *OIDCProvider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope":         {p.config.Scopes},
		"state":         {state},
		"prompt":        {"login consent"},
	}
	sep := "?"
	if strings.Contains(p.config.AuthorizeURL, "?") {
		sep = "&"
	}
	return p.config.AuthorizeURL + sep + params.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// userInfoResponse はユーザー情報エンドポイントのレスポンス。
// 名前と画像はOIDC標準のクレーム名とプロバイダ独自の名前の両方を受け付ける。
type userInfoResponse struct {
	Sub             string `json:"sub"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	GivenName       string `json:"given_name"`
	LastName        string `json:"last_name"`
	FamilyName      string `json:"family_name"`
	ProfileImageURL string `json:"profile_image_url"`
	Picture         string `json:"picture"`
}

// ExchangeCode は認可コードをアクセストークンに交換し、ユーザー情報を取得する。
func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	token, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	info, err := p.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return &OAuthUserInfo{
		Subject:         info.Sub,
		Email:           info.Email,
		FirstName:       firstNonEmpty(info.FirstName, info.GivenName),
		LastName:        firstNonEmpty(info.LastName, info.FamilyName),
		ProfileImageURL: firstNonEmpty(info.ProfileImageURL, info.Picture),
	}, nil
}

func (p *OIDCProvider) exchangeToken(ctx context.Context, code string) (*tokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &token, nil
}

func (p *OIDCProvider) fetchUserInfo(ctx context.Context, accessToken string) (*userInfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("empty sub in user info response")
	}

	return &info, nil
}

// do はリクエストを送信し、200以外のステータスをエラーとして本文を返す。
func (p *OIDCProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// compile-time interface check
var _ OAuthProvider = (*OIDCProvider)(nil)

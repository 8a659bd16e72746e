package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/nao1215/moviegate/pkg/apperror"
	"github.com/nao1215/moviegate/pkg/httpclient"
	"golang.org/x/oauth2"
)

// signProviderPath は下流APIの外部プロバイダ経由サインインエンドポイント。
const signProviderPath = "/api/auth/sign-provider"

// oauthScopes はGoogleに要求するスコープ。
var oauthScopes = []string{"email", "profile", "openid"}

// OAuthConfig はOAuthStrategyの設定。
type OAuthConfig struct {
	// Issuer はOpenID ConnectのIssuer。
	Issuer string
	// ClientID はOAuth2クライアントID。
	ClientID string
	// ClientSecret はOAuth2クライアントシークレット。
	ClientSecret string
	// RedirectURL はコールバックURL。
	RedirectURL string
	// HTTPClient はプロバイダとの通信に使うクライアント。nilの場合はhttp.DefaultClient。
	HTTPClient *http.Client
}

// OAuthStrategy はGoogleの認可コードフローを完了し、
// 得られたIDトークンのクレームを下流APIのトークンと交換する。
// サーバー側にセッションは作らない。
type OAuthStrategy struct {
	// oauth2Config は認可URLの生成とコード交換に使う設定。
	oauth2Config *oauth2.Config
	// verifier はIDトークンの検証器。
	verifier *oidc.IDTokenVerifier
	// httpClient はプロバイダとの通信に使うクライアント。
	httpClient *http.Client
	// client は下流APIクライアント。
	client *httpclient.Client
	// apiKeyToken は下流APIに渡すAPIキートークン。
	apiKeyToken string
}

// idTokenClaims はIDトークンから読み取るクレーム。
type idTokenClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// signProviderRequest は下流APIの sign-provider に送るリクエストボディ。
type signProviderRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	APIKeyToken string `json:"apiKeyToken"`
}

// NewOAuthStrategy はIssuerのディスカバリを行い、新しいOAuthStrategyを生成する。
func NewOAuthStrategy(ctx context.Context, cfg OAuthConfig, client *httpclient.Client, apiKeyToken string) (*OAuthStrategy, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("OAuth2クライアントIDが必要です")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("OpenID Connectのディスカバリに失敗: %w", err)
	}

	return &OAuthStrategy{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       slices.Clone(oauthScopes),
		},
		verifier:    provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		httpClient:  httpClient,
		client:      client,
		apiKeyToken: apiKeyToken,
	}, nil
}

// AuthCodeURL はプロバイダの認可エンドポイントへのリダイレクトURLを返す。
func (s *OAuthStrategy) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// Authenticate は認可コードをIDトークンと交換し、そのクレームで下流APIにサインインする。
func (s *OAuthStrategy) Authenticate(ctx context.Context, cred Credential) (*AuthResult, error) {
	oc, ok := cred.(OAuthCredential)
	if !ok {
		return nil, apperror.Unauthorized("OAuth資格情報が必要です", nil)
	}
	if oc.Code == "" {
		return nil, apperror.Unauthorized("認可コードがありません", nil)
	}

	claims, err := s.resolveIdentity(ctx, oc.Code)
	if err != nil {
		return nil, apperror.Unauthorized("", err)
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}

	var raw json.RawMessage
	if err := s.client.PostJSON(ctx, signProviderPath, signProviderRequest{
		Name:        name,
		Email:       claims.Email,
		Password:    claims.Subject,
		APIKeyToken: s.apiKeyToken,
	}, &raw); err != nil {
		return nil, apperror.Unauthorized("", err)
	}

	result, err := parseAuthResponse(raw)
	if err != nil {
		return nil, apperror.Unauthorized("", err)
	}
	return result, nil
}

// resolveIdentity は認可コードを交換し、検証済みIDトークンのクレームを返す。
func (s *OAuthStrategy) resolveIdentity(ctx context.Context, code string) (*idTokenClaims, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("認可コードの交換に失敗: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("トークンレスポンスにIDトークンがありません")
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("IDトークンの検証に失敗: %w", err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("IDトークンのクレームの読み取りに失敗: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("IDトークンにsubまたはemailがありません")
	}
	return &claims, nil
}

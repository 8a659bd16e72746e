package auth

import (
	"context"
	"encoding/json"

	"github.com/nao1215/moviegate/pkg/apperror"
	"github.com/nao1215/moviegate/pkg/httpclient"
)

// signInPath は下流APIのサインインエンドポイント。
const signInPath = "/api/auth/sign-in"

// apiKeyRequest はサインイン系エンドポイントに送るリクエストボディ。
type apiKeyRequest struct {
	APIKeyToken string `json:"apiKeyToken"`
}

// PasswordStrategy は下流APIのBasic認証サインインで資格情報を検証する。
type PasswordStrategy struct {
	// client は下流APIクライアント。
	client *httpclient.Client
	// apiKeyToken は下流APIに渡すAPIキートークン。
	apiKeyToken string
}

// NewPasswordStrategy は新しいPasswordStrategyを生成する。
func NewPasswordStrategy(client *httpclient.Client, apiKeyToken string) *PasswordStrategy {
	return &PasswordStrategy{
		client:      client,
		apiKeyToken: apiKeyToken,
	}
}

// Authenticate はメールアドレスとパスワードを下流APIで検証する。
func (s *PasswordStrategy) Authenticate(ctx context.Context, cred Credential) (*AuthResult, error) {
	pc, ok := cred.(PasswordCredential)
	if !ok {
		return nil, apperror.Unauthorized("パスワード資格情報が必要です", nil)
	}
	if pc.Identifier == "" || pc.Secret == "" {
		return nil, apperror.Unauthorized("メールアドレスとパスワードが必要です", nil)
	}

	var raw json.RawMessage
	err := s.client.PostJSON(ctx, signInPath, apiKeyRequest{APIKeyToken: s.apiKeyToken}, &raw,
		httpclient.WithBasicAuth(pc.Identifier, pc.Secret))
	if err != nil {
		return nil, apperror.Unauthorized("", err)
	}

	result, err := parseAuthResponse(raw)
	if err != nil {
		return nil, apperror.Unauthorized("", err)
	}
	return result, nil
}

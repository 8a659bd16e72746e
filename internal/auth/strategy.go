package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// tokenField は下流APIのレスポンスでトークンを格納するフィールド名。
const tokenField = "token"

// UserRecord はユーザーのクレーム（id, email, name など）。
// トークンは含まない。
type UserRecord map[string]any

// AuthResult は認証に成功したユーザーとそのベアラートークン。
type AuthResult struct {
	// Identity はレスポンスボディとして返すユーザー情報。
	Identity UserRecord
	// Token は下流APIが発行したベアラートークン。Cookieにのみ格納する。
	Token string
}

// Credential はストラテジーに渡す資格情報。
// PasswordCredential と OAuthCredential のいずれかである。
type Credential interface {
	credential()
}

// PasswordCredential はパスワードサインインの資格情報。
type PasswordCredential struct {
	// Identifier はユーザー識別子（メールアドレス）。
	Identifier string
	// Secret はパスワード。
	Secret string
}

func (PasswordCredential) credential() {}

// OAuthCredential はOAuthプロバイダからのコールバックで受け取った認可コード。
type OAuthCredential struct {
	// Code は認可コード。
	Code string
}

func (OAuthCredential) credential() {}

// Strategy は資格情報を検証済みのユーザーとトークンに変換する。
// 失敗した場合は apperror.KindUnauthorized のエラーを返す。
type Strategy interface {
	Authenticate(ctx context.Context, cred Credential) (*AuthResult, error)
}

var (
	// errEmptyToken は下流APIのレスポンスにトークンが無いことを表す。
	errEmptyToken = errors.New("下流APIのレスポンスにトークンがありません")
	// errEmptyIdentity は下流APIのレスポンスにユーザー情報が無いことを表す。
	errEmptyIdentity = errors.New("下流APIのレスポンスにユーザー情報がありません")
)

// parseAuthResponse は下流APIの認証レスポンスをAuthResultに変換する。
// トークン以外のフィールドをすべてユーザー情報として扱う。
// エラーが無くてもトークンまたはユーザー情報が空であれば失敗とする。
func parseAuthResponse(body []byte) (*AuthResult, error) {
	if len(body) == 0 {
		return nil, errEmptyIdentity
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("下流APIのレスポンスのデシリアライズに失敗: %w", err)
	}

	token, _ := fields[tokenField].(string)
	if token == "" {
		return nil, errEmptyToken
	}
	delete(fields, tokenField)
	if !hasIdentity(fields) {
		return nil, errEmptyIdentity
	}

	return &AuthResult{
		Identity: UserRecord(fields),
		Token:    token,
	}, nil
}

// hasIdentity はトークン以外のフィールドに中身のある値が1つでもあるかどうかを返す。
// nil、空オブジェクト、空配列だけの場合はユーザー情報が無いものとみなす。
func hasIdentity(fields map[string]any) bool {
	for _, v := range fields {
		switch x := v.(type) {
		case nil:
		case map[string]any:
			if len(x) > 0 {
				return true
			}
		case []any:
			if len(x) > 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}

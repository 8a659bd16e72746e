package auth

import "net/http"

const (
	// CookieName はベアラートークンを格納するCookieの名前。
	CookieName = "token"
	// RememberMeMaxAge は rememberMe 指定時のCookie有効期間（30日、秒）。
	RememberMeMaxAge = 2592000
	// DefaultMaxAge は rememberMe 未指定時のCookie有効期間（2時間、秒）。
	DefaultMaxAge = 7200
)

// CookiePolicyInput はCookie属性を決定する入力。
type CookiePolicyInput struct {
	// IsDevEnvironment は開発環境かどうか。
	IsDevEnvironment bool
	// RememberMe はCookieの有効期間を延ばすかどうか。
	RememberMe bool
}

// CookieAttributes はトークンCookieの属性。
type CookieAttributes struct {
	// HTTPOnly はJavaScriptからのアクセスを禁止するかどうか。
	HTTPOnly bool
	// Secure はHTTPSでのみ送信するかどうか。
	Secure bool
	// MaxAgeSeconds はCookieの有効期間（秒）。0は未指定で、ブラウザ終了までのセッションCookieになる。
	MaxAgeSeconds int
}

// ComputeCookieAttributes はパスワードサインインで発行するCookieの属性を返す。
func ComputeCookieAttributes(in CookiePolicyInput) CookieAttributes {
	if in.IsDevEnvironment {
		return CookieAttributes{}
	}
	maxAge := DefaultMaxAge
	if in.RememberMe {
		maxAge = RememberMeMaxAge
	}
	return CookieAttributes{
		HTTPOnly:      true,
		Secure:        true,
		MaxAgeSeconds: maxAge,
	}
}

// ComputeCallbackCookieAttributes はOAuthコールバックで発行するCookieの属性を返す。
// コールバックには rememberMe が無いため有効期間は常に未指定になる。
func ComputeCallbackCookieAttributes(isDevEnvironment bool) CookieAttributes {
	return CookieAttributes{
		HTTPOnly: !isDevEnvironment,
		Secure:   !isDevEnvironment,
	}
}

// Cookie は属性を適用したトークンCookieを生成する。
func (a CookieAttributes) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: a.HTTPOnly,
		Secure:   a.Secure,
		MaxAge:   a.MaxAgeSeconds,
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// contextKeyToken はGinコンテキストにトークンを格納するキー。
	contextKeyToken = "bearer_token"
	// contextKeySubject はGinコンテキストにトークンのsubクレームを格納するキー。
	contextKeySubject = "token_subject"
)

// TokenFromCookie はリクエストのcookieName Cookieからベアラートークンを取り出す
// Ginミドルウェアを返す。
// トークンの有無や有効性は検証しない。検証は下流APIの責務である。
// トークンがJWT形式であれば、ログ用途にsubクレームを署名検証なしで読み取る。
func TokenFromCookie(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err == nil && token != "" {
			c.Set(contextKeyToken, token)
			if sub := unverifiedSubject(token); sub != "" {
				c.Set(contextKeySubject, sub)
			}
		}
		c.Next()
	}
}

// GetToken はGinコンテキストからベアラートークンを取得する。
// TokenFromCookieミドルウェアが事前に適用されている必要がある。
func GetToken(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// GetSubject はGinコンテキストからトークンのsubクレームを取得する。
// 署名検証していない値なので認可判断に使用してはならない。
func GetSubject(c *gin.Context) string {
	return c.GetString(contextKeySubject)
}

// unverifiedSubject はJWTのsubクレームを署名検証なしで取り出す。
// JWTとして解釈できない場合は空文字列を返す。
func unverifiedSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

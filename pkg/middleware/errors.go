package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moviegate/pkg/apperror"
)

// ErrorHandler はハンドラが c.Error で記録したエラーをHTTPレスポンスに変換する
// Ginミドルウェアを返す。
// レスポンスの書き込みはこのミドルウェアだけが行い、1リクエストにつき1回に限る。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := apperror.As(err)
		if !ok {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody(http.StatusInternalServerError, "内部サーバーエラーが発生しました"))
			return
		}

		if appErr.Kind != apperror.KindUnauthorized {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
		}

		// 下流APIのエラーレスポンスはそのまま中継する
		if len(appErr.Body) > 0 {
			contentType := appErr.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(appErr.Status, contentType, appErr.Body)
			c.Abort()
			return
		}

		c.AbortWithStatusJSON(appErr.Status, ErrorBody(appErr.Status, appErr.Message))
	}
}

// ErrorBody はエラーレスポンスのJSONボディを生成する。
// statusCode, error, message の3フィールドを持つ。
func ErrorBody(status int, message string) gin.H {
	return gin.H{
		"statusCode": status,
		"error":      http.StatusText(status),
		"message":    message,
	}
}

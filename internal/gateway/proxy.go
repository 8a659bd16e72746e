package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moviegate/pkg/apperror"
	"github.com/nao1215/moviegate/pkg/httpclient"
	"github.com/nao1215/moviegate/pkg/middleware"
)

// ForwardedRequest は下流APIへ転送する1回分のリクエスト。
type ForwardedRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path は下流APIのパス。
	Path string
	// Body はリクエストボディ。nilの場合は送信しない。
	Body []byte
	// ContentType はBodyのContent-Type。
	ContentType string
	// Token はベアラートークン。空の場合はAuthorizationヘッダーを付けない。
	Token string
}

// Forwarder はリクエストを下流APIへ1回だけ転送する。
// リトライ、キャッシュ、独自のタイムアウトは持たない。
type Forwarder struct {
	// client は下流APIクライアント。
	client *httpclient.Client
}

// NewForwarder は新しいForwarderを生成する。
func NewForwarder(client *httpclient.Client) *Forwarder {
	return &Forwarder{client: client}
}

// Forward はリクエストを転送し、下流APIのレスポンスを返す。
// 通信エラーと2xx以外のステータスは UpstreamFailure、
// 2xxでもexpectedStatusと一致しない場合は BadImplementation になる。
func (f *Forwarder) Forward(ctx context.Context, req ForwardedRequest, expectedStatus int) (*httpclient.Response, error) {
	resp, err := f.client.Do(ctx, httpclient.Request{
		Method:      req.Method,
		Path:        req.Path,
		Body:        req.Body,
		ContentType: req.ContentType,
		BearerToken: req.Token,
	})
	if err != nil {
		return nil, apperror.UpstreamFailure(0, nil, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.UpstreamFailure(resp.StatusCode, resp.Body, resp.ContentType, &httpclient.StatusError{Response: resp})
	}
	if resp.StatusCode != expectedStatus {
		return nil, apperror.BadImplementation(fmt.Sprintf("下流APIが想定外のステータスを返しました: got %d, want %d", resp.StatusCode, expectedStatus))
	}
	return resp, nil
}

// proxyRoute はプロキシするルートの定義。
type proxyRoute struct {
	// name はメトリクスとログに使うルート名。
	name string
	// downstreamPath はリクエストから下流APIのパスを組み立てる。
	downstreamPath func(c *gin.Context) string
	// expectedStatus は下流APIの成功ステータス。
	expectedStatus int
	// withBody はリクエストボディを転送するかどうか。
	withBody bool
}

// handleProxy はCookieのトークンを付与して下流APIに転送するハンドラを返す。
func (s *Server) handleProxy(route proxyRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := ForwardedRequest{
			Method: c.Request.Method,
			Path:   route.downstreamPath(c),
			Token:  middleware.GetToken(c),
		}
		if route.withBody {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				_ = c.Error(fmt.Errorf("リクエストボディの読み取りに失敗: %w", err))
				return
			}
			req.Body = body
			req.ContentType = c.ContentType()
		}

		resp, err := s.forwarder.Forward(c.Request.Context(), req, route.expectedStatus)
		s.metrics.observeProxy(route.name, err)
		if err != nil {
			log.Printf("プロキシエラー: route=%s, subject=%s, error=%v", route.name, middleware.GetSubject(c), err)
			_ = c.Error(err)
			return
		}

		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
	}
}

// userMovieCreateRoute はユーザー映画の作成ルート。
var userMovieCreateRoute = proxyRoute{
	name:           "user_movies_create",
	downstreamPath: func(_ *gin.Context) string { return "/api/user-movies/" },
	expectedStatus: http.StatusCreated,
	withBody:       true,
}

// userMovieDeleteRoute はユーザー映画の削除ルート。
var userMovieDeleteRoute = proxyRoute{
	name: "user_movies_delete",
	downstreamPath: func(c *gin.Context) string {
		return "/api/user-movies/" + url.PathEscape(c.Param("userMovieId"))
	},
	expectedStatus: http.StatusOK,
}

// moviesListRoute は映画一覧の取得ルート。クエリ文字列をそのまま転送する。
var moviesListRoute = proxyRoute{
	name: "movies_list",
	downstreamPath: func(c *gin.Context) string {
		path := "/api/movies"
		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}
		return path
	},
	expectedStatus: http.StatusOK,
}

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client は下流API通信用のHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先APIのベースURL。
	baseURL string
}

// New は新しい下流API通信用HTTPクライアントを生成する。
// baseURLには接続先APIのベースURL（例: "http://localhost:3000"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// HTTPClient は内部で使用しているhttp.Clientを返す。
// OpenID Connectプロバイダとの通信でも同じタイムアウトを使うために共有する。
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Request は下流APIへのリクエスト。
type Request struct {
	// Method はHTTPメソッド。
	Method string
	// Path はベースURLからのパス。
	Path string
	// Body はリクエストボディ。nilの場合はボディを送信しない。
	Body []byte
	// ContentType はBodyのContent-Type。空の場合は application/json。
	ContentType string
	// BearerToken は Authorization: Bearer ヘッダーに設定するトークン。空の場合は設定しない。
	BearerToken string
	// BasicUser と BasicPassword はBasic認証の資格情報。BasicUserが空の場合は設定しない。
	BasicUser     string
	BasicPassword string
}

// Response は下流APIのレスポンス。
type Response struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// ContentType はレスポンスのContent-Type。
	ContentType string
	// Body はレスポンスボディ。
	Body []byte
}

// StatusError は下流APIが2xx以外のステータスを返したことを表す。
type StatusError struct {
	// Response は下流APIのレスポンス。
	Response *Response
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.Response.StatusCode, string(e.Response.Body))
}

// Do はリクエストを1回だけ送信し、レスポンスを返す。
// 2xx以外のステータスでもエラーにはしない。エラーは通信に失敗した場合のみ返す。
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	var bodyReader io.Reader
	if r.Body != nil {
		bodyReader = bytes.NewReader(r.Body)
	}

	url := c.baseURL + r.Path
	req, err := http.NewRequestWithContext(ctx, r.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if r.Body != nil {
		contentType := r.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.BearerToken)
	}
	if r.BasicUser != "" {
		req.SetBasicAuth(r.BasicUser, r.BasicPassword)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// bodyがjson.RawMessageの場合はそのまま送信する。
// 2xx以外のステータスは*StatusErrorとして返し、成功時はレスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any, opts ...RequestOption) error {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		payload = b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		payload = encoded
	}

	req := Request{Method: http.MethodPost, Path: path, Body: payload}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Response: resp}
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}

// RequestOption はPostJSONのリクエストを変更するオプション。
type RequestOption func(*Request)

// WithBasicAuth はBasic認証の資格情報を設定する。
func WithBasicAuth(user, password string) RequestOption {
	return func(r *Request) {
		r.BasicUser = user
		r.BasicPassword = password
	}
}

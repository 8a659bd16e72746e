package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/moviegate/internal/auth"
	"github.com/nao1215/moviegate/pkg/apperror"
	"github.com/nao1215/moviegate/pkg/httpclient"
)

const (
	// signUpPath は下流APIのサインアップエンドポイント。
	signUpPath = "/api/auth/sign-up"
	// strategyPassword はパスワードストラテジーのメトリクスラベル。
	strategyPassword = "password"
	// strategyGoogle はGoogleストラテジーのメトリクスラベル。
	strategyGoogle = "google_oauth"
)

// signInRequest はサインインのリクエストボディ。
// Basic認証ヘッダーが無い場合はemailとpasswordを資格情報として使う。
type signInRequest struct {
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	RememberMe lenientBool `json:"rememberMe"`
}

// lenientBool はtrue、"true"、1 のような表現をまとめて真偽値として読み取る。
// 解釈できない値はfalseになる。
type lenientBool bool

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (b *lenientBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*b = lenientBool(x)
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(x))
		*b = lenientBool(err == nil && parsed)
	case float64:
		*b = x != 0
	default:
		*b = false
	}
	return nil
}

// handleSignIn はパスワードでサインインし、トークンCookieを発行するハンドラを返す。
func (s *Server) handleSignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, hasBasic := c.Request.BasicAuth()

		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Basic認証ヘッダーがあればJSONとして読めないボディは無視する
			if !hasBasic {
				_ = c.Error(apperror.Unauthorized("リクエストボディが不正です", err))
				return
			}
			req = signInRequest{}
		}

		cred := auth.PasswordCredential{Identifier: req.Email, Secret: req.Password}
		if hasBasic {
			cred = auth.PasswordCredential{Identifier: user, Secret: password}
		}

		result, err := s.password.Authenticate(c.Request.Context(), cred)
		s.metrics.observeAuth(strategyPassword, err)
		if err != nil {
			_ = c.Error(err)
			return
		}

		attrs := auth.ComputeCookieAttributes(auth.CookiePolicyInput{
			IsDevEnvironment: s.isDev,
			RememberMe:       bool(req.RememberMe),
		})
		http.SetCookie(c.Writer, attrs.Cookie(result.Token))
		c.JSON(http.StatusOK, result.Identity)
	}
}

// handleSignUp はリクエストボディをそのまま下流APIのサインアップに転送するハンドラを返す。
func (s *Server) handleSignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if len(body) == 0 {
			body = []byte("{}")
		}

		if err := s.downstream.PostJSON(c.Request.Context(), signUpPath, json.RawMessage(body), nil); err != nil {
			_ = c.Error(upstreamError(err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "User Created"})
	}
}

// handleGoogleLogin はGoogleの認可エンドポイントへリダイレクトするハンドラを返す。
func (s *Server) handleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.oauth == nil {
			_ = c.Error(apperror.Unavailable("Google OAuth2が設定されていません"))
			return
		}
		// stateはプロトコル上必須のため送るが、セッションを持たないので照合はしない
		state := uuid.NewString()
		c.Redirect(http.StatusTemporaryRedirect, s.oauth.AuthCodeURL(state))
	}
}

// handleGoogleCallback はGoogleからのコールバックを処理し、トークンCookieを発行するハンドラを返す。
func (s *Server) handleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.oauth == nil {
			_ = c.Error(apperror.Unavailable("Google OAuth2が設定されていません"))
			return
		}

		if providerErr := c.Query("error"); providerErr != "" {
			err := apperror.Unauthorized("", errors.New("プロバイダがエラーを返しました: "+providerErr))
			s.metrics.observeAuth(strategyGoogle, err)
			_ = c.Error(err)
			return
		}

		code := c.Query("code")
		if code == "" {
			err := apperror.Unauthorized("認可コードがありません", nil)
			s.metrics.observeAuth(strategyGoogle, err)
			_ = c.Error(err)
			return
		}

		result, err := s.oauth.Authenticate(c.Request.Context(), auth.OAuthCredential{Code: code})
		if err == nil && result == nil {
			err = apperror.Unauthorized("", nil)
		}
		s.metrics.observeAuth(strategyGoogle, err)
		if err != nil {
			log.Printf("Googleサインインに失敗: %v", err)
			_ = c.Error(err)
			return
		}

		attrs := auth.ComputeCallbackCookieAttributes(s.isDev)
		http.SetCookie(c.Writer, attrs.Cookie(result.Token))
		c.JSON(http.StatusOK, result.Identity)
	}
}

// upstreamError は下流APIクライアントのエラーをゲートウェイエラーに変換する。
func upstreamError(err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		resp := statusErr.Response
		return apperror.UpstreamFailure(resp.StatusCode, resp.Body, resp.ContentType, err)
	}
	return apperror.UpstreamFailure(0, nil, "", err)
}

package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/moviegate/internal/auth"
	"github.com/nao1215/moviegate/internal/config"
	"github.com/nao1215/moviegate/pkg/httpclient"
	"github.com/nao1215/moviegate/pkg/middleware"
)

// oauthAuthenticator はOAuthコールバックの認証と、プロバイダへのリダイレクトURL生成を行う。
type oauthAuthenticator interface {
	auth.Strategy
	AuthCodeURL(state string) string
}

// Server は認証ゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// isDev は開発環境かどうか。Cookie属性の決定に使う。
	isDev bool
	// downstream は下流APIクライアント。
	downstream *httpclient.Client
	// password はパスワードサインインのストラテジー。
	password auth.Strategy
	// oauth はGoogleサインインのストラテジー。未設定の場合はnil。
	oauth oauthAuthenticator
	// forwarder はユーザー映画APIへのプロキシ。
	forwarder *Forwarder
	// metrics はPrometheusメトリクス。
	metrics *gatewayMetrics
}

// NewServer は新しいゲートウェイサーバーを生成する。
// Googleサインインが設定されている場合はIssuerのディスカバリを行う。
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	downstream := httpclient.New(cfg.APIURL)

	var oauth oauthAuthenticator
	if cfg.GoogleEnabled() {
		strategy, err := auth.NewOAuthStrategy(ctx, auth.OAuthConfig{
			Issuer:       cfg.Google.Issuer,
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			HTTPClient:   downstream.HTTPClient(),
		}, downstream, cfg.APIKeyToken)
		if err != nil {
			return nil, fmt.Errorf("Googleサインインの初期化に失敗: %w", err)
		}
		oauth = strategy
	} else {
		log.Printf("GOOGLE_CLIENT_IDが設定されていないためGoogleサインインを無効にします")
	}

	return newServer(cfg, downstream, auth.NewPasswordStrategy(downstream, cfg.APIKeyToken), oauth), nil
}

// newServer は依存を受け取ってサーバーを組み立てる。
func newServer(cfg config.Config, downstream *httpclient.Client, password auth.Strategy, oauth oauthAuthenticator) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.FrontendURLs))
	router.Use(middleware.ErrorHandler())

	s := &Server{
		router:     router,
		port:       cfg.Port,
		isDev:      cfg.IsDev(),
		downstream: downstream,
		password:   password,
		oauth:      oauth,
		forwarder:  NewForwarder(downstream),
		metrics:    newGatewayMetrics(),
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// ServeHTTP はhttp.Handlerを実装する。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes はAPIルーティングを設定する。
// ストラテジーはルートごとに静的に選択する。
func (s *Server) setupRoutes() {
	authGroup := s.router.Group("/auth")
	{
		authGroup.POST("/sign-in", s.handleSignIn())
		authGroup.POST("/sign-up", s.handleSignUp())
		authGroup.GET("/google-oauth", s.handleGoogleLogin())
		authGroup.GET("/google-oauth/callback", s.handleGoogleCallback())
	}

	// トークンはCookieから毎回読み直す。存在チェックは下流APIに任せる。
	api := s.router.Group("/")
	api.Use(middleware.TokenFromCookie(auth.CookieName))
	{
		api.GET("/movies", s.handleProxy(moviesListRoute))
		api.POST("/user-movies", s.handleProxy(userMovieCreateRoute))
		api.DELETE("/user-movies/:userMovieId", s.handleProxy(userMovieDeleteRoute))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
	s.router.GET("/metrics", gin.WrapH(s.metrics.handler()))
}

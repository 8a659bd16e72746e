// Package config はゲートウェイの設定を環境変数から読み込む。
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envProduction は本番環境を表すENVの値。
const envProduction = "production"

// Config はゲートウェイの設定。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string `env:"PORT" envDefault:"8000"`
	// Env は実行環境。production以外は開発環境として扱う。
	Env string `env:"ENV" envDefault:"development"`
	// APIURL は下流APIのベースURL。
	APIURL string `env:"API_URL" envDefault:"http://localhost:3000"`
	// APIKeyToken は下流APIのサインイン系エンドポイントに渡すAPIキートークン。
	APIKeyToken string `env:"API_KEY_TOKEN"`
	// FrontendURLs はCORSを許可するフロントエンドのオリジン。
	FrontendURLs []string `env:"FRONTEND_URL" envDefault:"http://localhost:8080" envSeparator:","`
	// Google はGoogle OAuth2の設定。
	Google GoogleConfig `envPrefix:"GOOGLE_"`
}

// GoogleConfig はGoogle OAuth2/OpenID Connectの設定。
type GoogleConfig struct {
	// ClientID はOAuth2クライアントID。空の場合はGoogleサインインを無効にする。
	ClientID string `env:"CLIENT_ID"`
	// ClientSecret はOAuth2クライアントシークレット。
	ClientSecret string `env:"CLIENT_SECRET"`
	// RedirectURL はコールバックURL。
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:8000/auth/google-oauth/callback"`
	// Issuer はOpenID ConnectのIssuer。ディスカバリに使用する。
	Issuer string `env:"ISSUER" envDefault:"https://accounts.google.com"`
}

// Load は環境変数から設定を読み込む。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}
	return cfg, nil
}

// IsDev は開発環境かどうかを返す。
func (c Config) IsDev() bool {
	return c.Env != envProduction
}

// GoogleEnabled はGoogleサインインが設定されているかどうかを返す。
func (c Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}

// 認証ゲートウェイのエントリポイント。
// パスワードとGoogle OAuth2によるサインイン、トークンCookieの発行、
// ユーザー映画APIへのプロキシを担当する。
package main

import (
	"context"
	"log"

	"github.com/nao1215/moviegate/internal/config"
	"github.com/nao1215/moviegate/internal/gateway"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := gateway.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: http://localhost:%s (dev=%v, api=%s)", cfg.Port, cfg.IsDev(), cfg.APIURL)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}

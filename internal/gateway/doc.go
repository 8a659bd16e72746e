// Package gateway は認証ゲートウェイの内部実装を提供する。
//
// パスワードとGoogle OAuth2の2種類のサインイン、下流APIが発行した
// ベアラートークンのCookieへの格納、Cookieから取り出したトークンを
// Authorizationヘッダーに付与したユーザー映画APIへのプロキシを担当する。
// サーバー側にセッションは持たず、トークンはリクエストごとにCookieから読み直す。
package gateway

// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// Cookieからのベアラートークン取り出し、エラーハンドリング、パニックリカバリ、
// リクエストID、CORS設定など、ゲートウェイの全ルートで共通して使用する
// ミドルウェアを含む。
package middleware

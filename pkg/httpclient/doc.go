// Package httpclient は下流APIとのHTTP通信を行うクライアントを提供する。
//
// 認証ストラテジーによる資格情報の検証、サインアップの転送、
// ユーザー映画APIへのプロキシなど、ゲートウェイから下流APIへの
// 通信パターンを統一する。リトライやキャッシュは行わない。
package httpclient

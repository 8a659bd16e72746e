// Package auth は資格情報ストラテジーとトークンCookieポリシーを提供する。
//
// ストラテジーはパスワード（下流APIのBasic認証サインイン）と
// Google OAuth2/OpenID Connect の2種類で、どちらも下流APIが発行した
// ベアラートークンとユーザー情報を AuthResult として返す。
// サーバー側にセッションは作らず、トークンはCookieとしてクライアントに渡す。
package auth

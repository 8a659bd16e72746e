package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はゲートウェイエラーの分類。
type Kind string

const (
	// KindUnauthorized は資格情報が拒否された、または存在しないことを表す。
	KindUnauthorized Kind = "Unauthorized"
	// KindBadImplementation は下流APIが想定外の成功ステータスを返したことを表す。
	// ユーザーの誤りではなく契約の不一致を示す。
	KindBadImplementation Kind = "BadImplementation"
	// KindUpstreamFailure は下流APIとの通信失敗、またはエラーステータスを表す。
	KindUpstreamFailure Kind = "UpstreamFailure"
	// KindUnavailable はゲートウェイ側で機能が無効になっていることを表す。
	KindUnavailable Kind = "Unavailable"
)

// Error はゲートウェイのタグ付きエラー。
type Error struct {
	// Kind はエラーの分類。
	Kind Kind
	// Status はクライアントに返すHTTPステータス。
	Status int
	// Message はクライアントに返すメッセージ。
	Message string
	// Body は下流APIのレスポンスボディ。下流のエラーをそのまま中継する場合のみ設定する。
	Body []byte
	// ContentType はBodyのContent-Type。
	ContentType string
	// cause は原因となったエラー。
	cause error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap は原因となったエラーを返す。
func (e *Error) Unwrap() error {
	return e.cause
}

// Unauthorized は401エラーを生成する。
func Unauthorized(message string, cause error) *Error {
	if message == "" {
		message = "認証に失敗しました"
	}
	return &Error{
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: message,
		cause:   cause,
	}
}

// BadImplementation は下流APIの契約違反を表す500エラーを生成する。
func BadImplementation(message string) *Error {
	if message == "" {
		message = "下流APIが想定外のステータスを返しました"
	}
	return &Error{
		Kind:    KindBadImplementation,
		Status:  http.StatusInternalServerError,
		Message: message,
	}
}

// UpstreamFailure は下流APIの失敗を表すエラーを生成する。
// statusが0の場合は通信エラーとして502を使用する。
func UpstreamFailure(status int, body []byte, contentType string, cause error) *Error {
	message := "下流APIがエラーを返しました"
	if status == 0 {
		status = http.StatusBadGateway
		message = "下流APIとの通信に失敗しました"
	}
	return &Error{
		Kind:        KindUpstreamFailure,
		Status:      status,
		Message:     message,
		Body:        body,
		ContentType: contentType,
		cause:       cause,
	}
}

// Unavailable は機能が設定されていないことを表す503エラーを生成する。
func Unavailable(message string) *Error {
	if message == "" {
		message = "この機能は現在利用できません"
	}
	return &Error{
		Kind:    KindUnavailable,
		Status:  http.StatusServiceUnavailable,
		Message: message,
	}
}

// As はerrのチェーンから*Errorを取り出す。
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind はerrが指定した分類のゲートウェイエラーかどうかを返す。
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

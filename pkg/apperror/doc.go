// Package apperror はゲートウェイ全体で共有するエラー分類を提供する。
//
// 各ハンドラは失敗を検出した地点で Error を生成し、境界のエラーハンドラ
// （middleware.ErrorHandler）がHTTPステータスとJSONボディに変換する。
// ゲートウェイ内部でリトライは行わない。
package apperror

// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// 検出した層で生成し、HTTP境界で一度だけステータスコードに変換する。
type APIError struct {
	Code     string   // エラーコード
	Message  string   // エラーメッセージ
	Category string   // カテゴリ: auth, validation, access, system
	Action   string   // ユーザー向け対処方法
	Details  []string // 入力検証エラーのフィールド単位のメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeMismatch           = "MISMATCH"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeExpiredToken       = "EXPIRED_TOKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrorCode はerrがAPIErrorであればそのコードを返す。それ以外は空文字列。
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// NewValidationError は入力検証エラーを生成する。
// detailsには失敗したフィールドごとのメッセージを渡す。
func NewValidationError(details ...string) *APIError {
	msg := "入力内容に誤りがあります。"
	if len(details) > 0 {
		msg = strings.Join(details, " ")
	}
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  msg,
		Category: "validation",
		Action:   "入力内容を確認してください。",
		Details:  details,
	}
}

// NewNotFoundError はエンティティ未検出エラーを生成する。
func NewNotFoundError(entity string, id any) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s not found: %v", entity, id),
		Category: "access",
		Action:   "IDを確認してください。",
	}
}

// NewForbiddenError は他ユーザーのリソースへのアクセスを拒否するエラーを生成する。
func NewForbiddenError(entity string, id any) *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  fmt.Sprintf("%s %v is not accessible", entity, id),
		Category: "access",
		Action:   "自分のワークスペースのリソースを指定してください。",
	}
}

// NewMismatchError はリソースが指定されたワークスペースに属さない場合のエラーを生成する。
func NewMismatchError(entity string, id any, workspaceID int64) *APIError {
	return &APIError{
		Code:     ErrCodeMismatch,
		Message:  fmt.Sprintf("%s %v does not belong to workspace %d", entity, id, workspaceID),
		Category: "access",
		Action:   "ワークスペースIDとリソースIDの組み合わせを確認してください。",
	}
}

// NewConflictError は一意制約違反エラーを生成する。
func NewConflictError(what string) *APIError {
	return &APIError{
		Code:     ErrCodeConflict,
		Message:  fmt.Sprintf("%s already exists", what),
		Category: "validation",
		Action:   "別の値を指定してください。",
	}
}

// NewInvalidTokenError は未知のトークンが提示された場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効です。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewExpiredTokenError は有効期限切れのトークンが提示された場合のエラーを生成する。
func NewExpiredTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeExpiredToken,
		Message:  "トークンの有効期限が切れています。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewInvalidCredentialsError はユーザー名またはパスワードが一致しない場合のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid credentials",
		Category: "auth",
		Action:   "ユーザー名とパスワードを確認してください。",
	}
}

// NewUnauthorizedError は認証が必要な場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInternalError は内部エラーの利用者向け表現を生成する。
// 詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

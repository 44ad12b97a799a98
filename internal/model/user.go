// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// TokenType はトークンの用途を表す。
type TokenType string

const (
	// TokenTypeRefresh はアクセストークン再発行用のトークン。
	TokenTypeRefresh TokenType = "REFRESH"
	// TokenTypePasswordReset はパスワードリセット用のトークン。
	TokenTypePasswordReset TokenType = "PASSWORD_RESET"
)

// Token はユーザーに紐づく不透明な期限付きトークンを表す。
type Token struct {
	ID         int64
	Token      string
	Type       TokenType
	UserID     int64
	ExpiryDate time.Time
}

// Expired はnow時点でトークンが期限切れかどうかを返す。
// 有効期限ちょうどの時刻は期限切れとして扱う。
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}

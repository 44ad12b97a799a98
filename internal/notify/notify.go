// Package notify はパスワードリセットの通知を送信する。
package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/security"
)

// Notifier はパスワードリセット通知の送信インターフェース。
// 送信に失敗した場合はエラーを返し、呼び出し側は内部エラーとして扱う。
type Notifier interface {
	SendPasswordResetEmail(ctx context.Context, address, token string) error
}

// 送信結果のメトリクスラベル値
const (
	resultSent   = "sent"
	resultFailed = "failed"
)

const resetSubject = "Password reset request"

// Config は通知チャネルの選択と送信に必要な設定。
type Config struct {
	FrontendURL string
	From        string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	APIURL string
	APIKey string
}

// New は設定に応じたNotifierを返す。
// APIURLが設定されていればHTTP API、SMTPHostが設定されていればSMTP、
// どちらもなければリンクをログに出力するだけの開発用Notifierを使う。
func New(cfg Config, guard *security.OutboundGuard, m metrics.MetricsCollector) (Notifier, error) {
	switch {
	case cfg.APIURL != "":
		if err := guard.ValidateEndpoint(cfg.APIURL); err != nil {
			return nil, fmt.Errorf("invalid MAIL_API_URL: %w", err)
		}
		return NewHTTPSender(cfg, guard.NewSafeClient(10*time.Second), m), nil
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg, m), nil
	default:
		return NewLogSender(cfg.FrontendURL), nil
	}
}

// ResetLink はフロントエンドのパスワード再設定画面へのリンクを返す。
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// resetBody はパスワードリセットメールの本文を返す。
func resetBody(link string) string {
	return "To reset your password, open the link below:\r\n\r\n" +
		link + "\r\n\r\n" +
		"If you did not request a password reset, you can ignore this email.\r\n"
}

// validRecipient はヘッダーインジェクションにつながる改行を含まないことを確認する。
func validRecipient(address string) error {
	if address == "" || strings.ContainsAny(address, "\r\n") {
		return fmt.Errorf("invalid recipient address: %q", address)
	}
	return nil
}

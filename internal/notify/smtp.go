package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/hitoshi/taskboard/internal/metrics"
)

// sendMailFunc はsmtp.SendMailのシグネチャ。テストで差し替える。
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender はSMTPでパスワードリセットメールを送信する。
type SMTPSender struct {
	addr        string
	auth        smtp.Auth
	from        string
	frontendURL string
	send        sendMailFunc
	metrics     metrics.MetricsCollector
}

// NewSMTPSender はSMTPSenderを生成する。SMTPUsernameが空の場合は認証しない。
func NewSMTPSender(cfg Config, m metrics.MetricsCollector) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:        net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:        auth,
		from:        cfg.From,
		frontendURL: cfg.FrontendURL,
		send:        smtp.SendMail,
		metrics:     m,
	}
}

// SendPasswordResetEmail はリセットリンクを含むプレーンテキストのメールを送信する。
// net/smtpはcontextに対応していないため、ctxは送信開始前のキャンセル確認にのみ使う。
func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, address, token string) error {
	if err := validRecipient(address); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := "From: " + s.from + "\r\n" +
		"To: " + address + "\r\n" +
		"Subject: " + resetSubject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		resetBody(ResetLink(s.frontendURL, token))

	if err := s.send(s.addr, s.auth, s.from, []string{address}, []byte(msg)); err != nil {
		s.metrics.RecordNotification("smtp", resultFailed)
		return fmt.Errorf("smtp send: %w", err)
	}

	s.metrics.RecordNotification("smtp", resultSent)
	slog.Info("password reset email sent", slog.String("channel", "smtp"))
	return nil
}

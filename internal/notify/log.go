package notify

import (
	"context"
	"log/slog"
)

// LogSender はメールを送信せず、リセットリンクをログに出力する。
// メール送信の設定がない開発環境で使う。
type LogSender struct {
	frontendURL string
	logger      *slog.Logger
}

// NewLogSender はLogSenderを生成する。出力先はslogのデフォルトロガー。
func NewLogSender(frontendURL string) *LogSender {
	return &LogSender{frontendURL: frontendURL, logger: slog.Default()}
}

// SendPasswordResetEmail は送信しなかったことをWARNで記録する。
// リセットリンクは有効なトークンを含むため、DEBUGレベルでのみ出力する。
func (s *LogSender) SendPasswordResetEmail(ctx context.Context, address, token string) error {
	if err := validRecipient(address); err != nil {
		return err
	}
	s.logger.WarnContext(ctx, "mail delivery is not configured; password reset email was not sent",
		slog.String("to", address),
	)
	s.logger.DebugContext(ctx, "password reset link",
		slog.String("to", address),
		slog.String("link", ResetLink(s.frontendURL, token)),
	)
	return nil
}

var (
	_ Notifier = (*SMTPSender)(nil)
	_ Notifier = (*HTTPSender)(nil)
	_ Notifier = (*LogSender)(nil)
)

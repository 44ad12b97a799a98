package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskboard/internal/metrics"
)

// mailAPIRequest はHTTPメール送信APIのリクエストボディ。
type mailAPIRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// HTTPSender はJSONのHTTP APIでパスワードリセットメールを送信する。
type HTTPSender struct {
	endpoint    string
	apiKey      string
	from        string
	frontendURL string
	client      *http.Client
	metrics     metrics.MetricsCollector
}

// NewHTTPSender はHTTPSenderを生成する。
// clientには内部ネットワークへの接続を拒否するクライアントを渡す。
func NewHTTPSender(cfg Config, client *http.Client, m metrics.MetricsCollector) *HTTPSender {
	return &HTTPSender{
		endpoint:    cfg.APIURL,
		apiKey:      cfg.APIKey,
		from:        cfg.From,
		frontendURL: cfg.FrontendURL,
		client:      client,
		metrics:     m,
	}
}

// SendPasswordResetEmail はメール送信APIを1回呼び出す。リトライはしない。
func (s *HTTPSender) SendPasswordResetEmail(ctx context.Context, address, token string) error {
	if err := validRecipient(address); err != nil {
		return err
	}

	body, err := json.Marshal(mailAPIRequest{
		From:    s.from,
		To:      []string{address},
		Subject: resetSubject,
		Text:    resetBody(ResetLink(s.frontendURL, token)),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordNotification("http", resultFailed)
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode >= 300 {
		s.metrics.RecordNotification("http", resultFailed)
		return fmt.Errorf("mail API error: status %d", resp.StatusCode)
	}

	s.metrics.RecordNotification("http", resultSent)
	slog.Info("password reset email sent", slog.String("channel", "http"))
	return nil
}

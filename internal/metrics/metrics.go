// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// トークンストア、通知、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordTokenIssued(tokenType string)
	RecordTokenVerification(tokenType, outcome string)
	RecordTokensSwept(count int64)
	RecordNotification(channel, result string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// トークン検証結果のラベル値
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeExpired = "expired"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	tokensIssued   *prometheus.CounterVec
	tokenVerify    *prometheus.CounterVec
	tokensSwept    prometheus.Counter
	notifications  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_tokens_issued_total",
			Help: "発行したトークンの合計数",
		}, []string{"type"}),
		tokenVerify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_token_verifications_total",
			Help: "トークン検証の結果別の合計数",
		}, []string{"type", "outcome"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tokens_swept_total",
			Help: "定期削除で削除した期限切れトークンの合計数",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_notifications_total",
			Help: "パスワードリセット通知の送信結果別の合計数",
		}, []string{"channel", "result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "APIリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.tokensIssued,
		c.tokenVerify,
		c.tokensSwept,
		c.notifications,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued(tokenType string) {
	c.tokensIssued.WithLabelValues(tokenType).Inc()
}

// RecordTokenVerification はトークン検証結果を記録する。
func (c *Collector) RecordTokenVerification(tokenType, outcome string) {
	c.tokenVerify.WithLabelValues(tokenType, outcome).Inc()
}

// RecordTokensSwept は定期削除で削除したトークン数を記録する。
func (c *Collector) RecordTokensSwept(count int64) {
	c.tokensSwept.Add(float64(count))
}

// RecordNotification は通知送信の結果を記録する。
func (c *Collector) RecordNotification(channel, result string) {
	c.notifications.WithLabelValues(channel, result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordTokenIssued(string)               {}
func (Nop) RecordTokenVerification(string, string) {}
func (Nop) RecordTokensSwept(int64)                {}
func (Nop) RecordNotification(string, string)      {}
func (Nop) RecordHTTPStatus(int)                   {}
func (Nop) RecordRequestLatency(time.Duration)     {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)

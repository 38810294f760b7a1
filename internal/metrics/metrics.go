// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	contactMessages  prometheus.Counter
	messagesRead     prometheus.Counter
	productMutations *prometheus.CounterVec
	logins           *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botcatalog_http_requests_total",
			Help: "ルート・メソッド・ステータス別のHTTPリクエスト数",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "botcatalog_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		contactMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botcatalog_contact_messages_total",
			Help: "受け付けたお問い合わせメッセージの合計数",
		}),
		messagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botcatalog_contact_messages_read_total",
			Help: "既読にしたお問い合わせメッセージの合計数",
		}),
		productMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botcatalog_product_mutations_total",
			Help: "操作種別ごとの商品変更数",
		}, []string{"operation"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botcatalog_logins_total",
			Help: "結果別のログイン試行数",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.contactMessages,
		c.messagesRead,
		c.productMutations,
		c.logins,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはURLパラメータを含まないルートパターンを渡す。
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordContactMessage はお問い合わせの受付を記録する。
func (c *Collector) RecordContactMessage() {
	c.contactMessages.Inc()
}

// RecordMessageRead はメッセージの既読化を記録する。
func (c *Collector) RecordMessageRead() {
	c.messagesRead.Inc()
}

// RecordProductMutation は商品の作成・更新・削除を記録する。
func (c *Collector) RecordProductMutation(operation string) {
	c.productMutations.WithLabelValues(operation).Inc()
}

// RecordLogin はログイン結果を記録する。
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

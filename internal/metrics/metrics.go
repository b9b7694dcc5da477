// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやミドルウェアから利用する。
type MetricsCollector interface {
	RecordRequest(route, method string, statusCode int, duration time.Duration)
	RecordCalcError(kind string)
	RecordArithmetic(unit, operation string)
	RecordRateLimited()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	calcErrors  *prometheus.CounterVec
	arithmetic  *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datetimeapi_http_requests_total",
			Help: "ルート・メソッド・ステータスコード別のリクエスト数",
		}, []string{"route", "method", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "datetimeapi_http_request_duration_seconds",
			Help:    "ルート別のリクエスト処理時間（秒）",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route"}),
		calcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datetimeapi_calc_errors_total",
			Help: "種別ごとの入力・計算エラー数",
		}, []string{"kind"}),
		arithmetic: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datetimeapi_date_arithmetic_total",
			Help: "単位・操作別の日付加減算の実行数",
		}, []string{"unit", "operation"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datetimeapi_rate_limited_total",
			Help: "レート制限により拒否されたリクエスト数",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.calcErrors,
		c.arithmetic,
		c.rateLimited,
	)

	return c
}

// RecordRequest はリクエスト数とレイテンシを記録する。
func (c *Collector) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordCalcError は入力・計算エラーを記録する。
func (c *Collector) RecordCalcError(kind string) {
	c.calcErrors.WithLabelValues(kind).Inc()
}

// RecordArithmetic は日付加減算の実行を記録する。
func (c *Collector) RecordArithmetic(unit, operation string) {
	c.arithmetic.WithLabelValues(unit, operation).Inc()
}

// RecordRateLimited はレート制限による拒否を記録する。
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Nop は何も記録しないMetricsCollector。メトリクス無効時やテストで使う。
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordCalcError(string)                           {}
func (Nop) RecordArithmetic(string, string)                  {}
func (Nop) RecordRateLimited()                               {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewRegistry はGo・プロセスのコレクタを登録済みのレジストリを返す。
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

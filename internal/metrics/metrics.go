// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordCreated()
	RecordRejected(code string)
	RecordDeleted()
	RecordHTTPStatus(statusCode int)
	RecordRateWindowPurged(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	created       prometheus.Counter
	rejected      *prometheus.CounterVec
	deleted       prometheus.Counter
	httpStatus    *prometheus.CounterVec
	windowsPurged prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookman_bookmarks_created_total",
			Help: "作成されたブックマークの合計数",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookman_bookmarks_rejected_total",
			Help: "拒否されたブックマーク作成の合計数（エラーコード別）",
		}, []string{"code"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookman_bookmarks_deleted_total",
			Help: "削除されたブックマークの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		windowsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookman_rate_windows_purged_total",
			Help: "クリーンアップで削除されたレートカウンター行の合計数",
		}),
	}

	reg.MustRegister(
		c.created,
		c.rejected,
		c.deleted,
		c.httpStatus,
		c.windowsPurged,
	)

	return c
}

// RecordCreated はブックマーク作成成功を記録する。
func (c *Collector) RecordCreated() {
	c.created.Inc()
}

// RecordRejected はブックマーク作成拒否をエラーコード別に記録する。
func (c *Collector) RecordRejected(code string) {
	c.rejected.WithLabelValues(code).Inc()
}

// RecordDeleted はブックマーク削除を記録する。
func (c *Collector) RecordDeleted() {
	c.deleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRateWindowPurged は削除されたレートカウンター行数を記録する。
func (c *Collector) RecordRateWindowPurged(count int) {
	c.windowsPurged.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

package gateway

import (
	"net/http"

	"github.com/nao1215/moviegate/pkg/apperror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// outcomeSuccess は成功したリクエストのoutcomeラベル。
const outcomeSuccess = "success"

// gatewayMetrics はゲートウェイのPrometheusメトリクス。
// サーバーごとにレジストリを持つ。
type gatewayMetrics struct {
	// registry はメトリクスのレジストリ。
	registry *prometheus.Registry
	// authAttempts はストラテジー別の認証試行数。
	authAttempts *prometheus.CounterVec
	// proxyRequests はルート別のプロキシリクエスト数。
	proxyRequests *prometheus.CounterVec
}

// newGatewayMetrics は新しいメトリクスを生成してレジストリに登録する。
func newGatewayMetrics() *gatewayMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &gatewayMetrics{
		registry: reg,
		authAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_auth_attempts_total",
			Help: "Total number of authentication attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		proxyRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_proxy_requests_total",
			Help: "Total number of requests forwarded to the downstream API by route and outcome",
		}, []string{"route", "outcome"}),
	}
}

// handler は /metrics 用のHTTPハンドラを返す。
func (m *gatewayMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observeAuth は認証試行の結果を記録する。
func (m *gatewayMetrics) observeAuth(strategy string, err error) {
	m.authAttempts.WithLabelValues(strategy, outcome(err)).Inc()
}

// observeProxy はプロキシリクエストの結果を記録する。
func (m *gatewayMetrics) observeProxy(route string, err error) {
	m.proxyRequests.WithLabelValues(route, outcome(err)).Inc()
}

// outcome はエラーをoutcomeラベルに変換する。
func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if appErr, ok := apperror.As(err); ok {
		return string(appErr.Kind)
	}
	return "Unknown"
}

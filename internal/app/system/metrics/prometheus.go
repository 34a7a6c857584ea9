// internal/app/system/metrics/prometheus.go
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	apiCalls       *prom.CounterVec
	apiDuration    *prom.HistogramVec
	batchLoads     *prom.CounterVec
	fallback       *prom.CounterVec
	cacheLookups   *prom.CounterVec
	activeSessions prom.Gauge
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		apiCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Admin API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		apiDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Admin API request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"endpoint"}),
		batchLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "batch_loads_total",
			Help:      "Project count loads by path taken",
		}, []string{"result"}),
		fallback: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_fetches_total",
			Help:      "Per-user fallback fetches by result",
		}, []string{"result"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Project cache lookups by result",
		}, []string{"result"}),
		activeSessions: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently held in memory",
		}),
	}
	reg.MustRegister(pr.apiCalls, pr.apiDuration, pr.batchLoads, pr.fallback, pr.cacheLookups, pr.activeSessions)
	return pr
}

func (p *PrometheusRecorder) ObserveAPICall(endpoint string, d time.Duration, outcome string) {
	if p == nil {
		return
	}
	p.apiCalls.WithLabelValues(endpoint, outcome).Inc()
	p.apiDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBatchLoad(mode string) {
	if p == nil {
		return
	}
	p.batchLoads.WithLabelValues(mode).Inc()
}

func (p *PrometheusRecorder) IncFallbackFetch(success bool) {
	if p == nil {
		return
	}
	p.fallback.WithLabelValues(result(success, "success", "failed")).Inc()
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues(result(hit, "hit", "miss")).Inc()
}

func (p *PrometheusRecorder) SetActiveSessions(n int) {
	if p == nil {
		return
	}
	p.activeSessions.Set(float64(n))
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// HTTPHandler serves the exposition for reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

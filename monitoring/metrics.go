package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 推荐服务指标
type Metrics struct {
	registry *prometheus.Registry

	RecommendationsTotal *prometheus.CounterVec
	RecommendationErrors *prometheus.CounterVec
	PredictDuration      prometheus.Histogram
	HTTPRequestsTotal    *prometheus.CounterVec
	ArtifactLoadSeconds  prometheus.Gauge
}

// NewMetrics 创建并注册指标
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecommendationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "croprec",
				Name:      "recommendations_total",
				Help:      "Total number of crop recommendations by crop",
			},
			[]string{"crop"},
		),
		RecommendationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "croprec",
				Name:      "recommendation_errors_total",
				Help:      "Total failed recommendations by error type",
			},
			[]string{"error_type"},
		),
		PredictDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "croprec",
				Name:      "predict_duration_seconds",
				Help:      "Inference pipeline latency in seconds",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "croprec",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),
		ArtifactLoadSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "croprec",
				Name:      "artifact_load_seconds",
				Help:      "Time spent loading scaler, model and labels at startup",
			},
		),
	}
	m.registry.MustRegister(
		m.RecommendationsTotal,
		m.RecommendationErrors,
		m.PredictDuration,
		m.HTTPRequestsTotal,
		m.ArtifactLoadSeconds,
	)
	return m
}

// RecordRecommendation 记录一次成功推荐
func (m *Metrics) RecordRecommendation(crop string, elapsed time.Duration) {
	m.RecommendationsTotal.WithLabelValues(crop).Inc()
	m.PredictDuration.Observe(elapsed.Seconds())
}

// RecordError 记录一次失败推荐
func (m *Metrics) RecordError(errorType string) {
	m.RecommendationErrors.WithLabelValues(errorType).Inc()
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	chatTurns    *prometheus.CounterVec
	ideaMutation *prometheus.CounterVec
	emailSends   *prometheus.CounterVec
}

var (
	metricsMu      sync.RWMutex
	currentMetrics *Metrics
)

// Current returns the process-wide metrics, or nil before Init.
// Every Observe method is nil-safe.
func Current() *Metrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return currentMetrics
}

func Init(log *logger.Logger) *Metrics {
	m := New()
	metricsMu.Lock()
	currentMetrics = m
	metricsMu.Unlock()
	if log != nil {
		log.Info("metrics initialized")
	}
	return m
}

// New builds an isolated registry. Tests use it directly.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ideabox_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ideabox_api_inflight_requests",
			Help: "In-flight HTTP requests.",
		}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_llm_requests_total",
			Help: "Generative AI calls by model and status.",
		}, []string{"model", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ideabox_llm_request_duration_seconds",
			Help:    "Generative AI call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
		}, []string{"model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_llm_tokens_total",
			Help: "Generative AI tokens by model and direction.",
		}, []string{"model", "direction"}),
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_chat_turns_total",
			Help: "Chat turns by outcome (ok, rate_limited, ai_failed, persistence_failed).",
		}, []string{"outcome"}),
		ideaMutation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_idea_mutations_total",
			Help: "Idea writes by operation.",
		}, []string{"op"}),
		emailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabox_email_sends_total",
			Help: "Outbound emails by kind and status.",
		}, []string{"kind", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.chatTurns, m.ideaMutation, m.emailSends,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(model, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(model, status).Inc()
	m.llmLatency.WithLabelValues(model).Observe(dur.Seconds())
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

func (m *Metrics) IncChatTurn(outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncIdeaMutation(op string) {
	if m == nil {
		return
	}
	m.ideaMutation.WithLabelValues(op).Inc()
}

func (m *Metrics) IncEmail(kind, status string) {
	if m == nil {
		return
	}
	m.emailSends.WithLabelValues(kind, status).Inc()
}

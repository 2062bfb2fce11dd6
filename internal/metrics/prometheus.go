package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nutri-meal-planner/internal/shared"
)

// Outcome labels.
const (
	OutcomeSuccess        = "success"
	OutcomeRateLimited    = "rate_limited"
	OutcomeQuotaExhausted = "quota_exhausted"
	OutcomeTransportError = "transport_error"
	OutcomeParseError     = "parse_error"
	OutcomeError          = "error"
)

// Collectors groups the Prometheus metrics on a private registry.
type Collectors struct {
	Registry     *prometheus.Registry
	Generations  *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Tokens       *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
}

// NewCollectors registers the generation and HTTP metrics plus the standard
// Go and process collectors.
func NewCollectors() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		Registry: reg,
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutri",
			Name:      "generations_total",
			Help:      "Generation calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nutri",
			Name:      "generation_duration_seconds",
			Help:      "Latency of generation calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"operation"}),
		Tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutri",
			Name:      "generation_tokens_total",
			Help:      "LLM tokens consumed by operation and kind.",
		}, []string{"operation", "kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutri",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(
		c.Generations, c.Duration, c.Tokens, c.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}

// ObserveGeneration counts one generation call.
func (c *Collectors) ObserveGeneration(operation, outcome string, d time.Duration) {
	c.Generations.WithLabelValues(operation, outcome).Inc()
	c.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveTokens adds token usage for operation.
func (c *Collectors) ObserveTokens(operation string, usage shared.TokenUsage) {
	c.Tokens.WithLabelValues(operation, "prompt").Add(float64(usage.PromptTokens))
	c.Tokens.WithLabelValues(operation, "completion").Add(float64(usage.CompletionTokens))
}

// ObserveHTTP counts one served request.
func (c *Collectors) ObserveHTTP(route string, status int) {
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Outcome classifies err for the outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var te *shared.TransportError
	if errors.As(err, &te) {
		switch {
		case te.IsRateLimited():
			return OutcomeRateLimited
		case te.IsQuotaExhausted():
			return OutcomeQuotaExhausted
		default:
			return OutcomeTransportError
		}
	}
	var pe *shared.ParseError
	if errors.As(err, &pe) {
		return OutcomeParseError
	}
	return OutcomeError
}

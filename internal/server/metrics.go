package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medai/medmcp/internal/tool"
)

// Metrics holds the Prometheus collectors for tool execution. Wire
// AfterExecute into the registry via tool.WithOnAfterExecute and expose
// Handler on the metrics endpoint.
type Metrics struct {
	registry   *prometheus.Registry
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates a self-contained metrics registry with process and
// runtime collectors plus the tool execution series.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medmcp",
			Name:      "tool_executions_total",
			Help:      "Tool executions by tool name and outcome.",
		}, []string{"tool", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medmcp",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// AfterExecute records one finished execution. Matches the signature
// expected by tool.WithOnAfterExecute.
func (m *Metrics) AfterExecute(_ context.Context, call tool.ToolCall, res tool.ToolResult) {
	status := "ok"
	if res.Failed() {
		status = "error"
	}
	m.executions.WithLabelValues(call.ToolName, status).Inc()
	m.duration.WithLabelValues(call.ToolName).Observe(res.Duration.Seconds())
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

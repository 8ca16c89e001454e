package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Chat pipeline counters, exposed on the /metrics endpoint.
var (
	ChatRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_requests_total",
		Help: "Chat messages received by the pipeline",
	})
	ChatCompletionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_completion_failures_total",
		Help: "Completion calls that returned an error",
	})
	ExtractionsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_extractions_degraded_total",
		Help: "Attachments whose content extraction fell back to an annotation",
	})
)

// SetupTracing initializes OpenTelemetry tracing with a stdout exporter
// (replace with OTLP in prod)
func SetupTracing(serviceName string) func() {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("failed to initialize stdouttrace exporter: %v", err)
	}
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return func() { _ = provider.Shutdown(nil) }
}

// SetupPrometheusMetrics initializes the Prometheus metrics exporter and
// serves /metrics on its own listener
func SetupPrometheusMetrics(addr string) *metric.MeterProvider {
	if addr == "" {
		addr = ":2112"
	}
	exp, err := otelprom.New()
	if err != nil {
		log.Fatalf("failed to initialize prometheus exporter: %v", err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exp))
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(addr, mux)
	}()
	return mp
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/openjaw/openjaw/internal/api/middleware"

// Metrics holds the OpenTelemetry instruments for HTTP traffic.
type Metrics struct {
	requestDuration  metric.Float64Histogram
	requestTotal     metric.Int64Counter
	requestsInFlight metric.Int64UpDownCounter
	responseSize     metric.Int64Histogram
}

// NewMetrics creates a Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestsInFlight, err := meter.Int64UpDownCounter(
		"http.server.requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently being processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	responseSize, err := meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("Size of HTTP server responses in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		requestsInFlight: requestsInFlight,
		responseSize:     responseSize,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each
// request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
			}
			m.requestsInFlight.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			defer m.requestsInFlight.Add(r.Context(), -1, metric.WithAttributes(attrs...))

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			attrs = append(attrs, attribute.String("http.status_code", strconv.Itoa(wrapped.statusCode)))
			if wrapped.statusCode >= 400 {
				attrs = append(attrs, attribute.Bool("error", true))
			}

			m.requestDuration.Record(r.Context(), time.Since(start).Seconds(), metric.WithAttributes(attrs...))
			m.requestTotal.Add(r.Context(), 1, metric.WithAttributes(attrs...))
			m.responseSize.Record(r.Context(), wrapped.written, metric.WithAttributes(attrs...))
		})
	}
}

// ScanMetrics holds instruments for the three-stage scan pipeline.
type ScanMetrics struct {
	scanDuration metric.Float64Histogram
	scanTotal    metric.Int64Counter
	searchCalls  metric.Int64Histogram
	offersFound  metric.Int64Histogram
}

// NewScanMetrics creates instruments for monitoring scan runs.
func NewScanMetrics() (*ScanMetrics, error) {
	meter := otel.Meter(meterName)

	scanDuration, err := meter.Float64Histogram(
		"scan.duration",
		metric.WithDescription("Duration of full scan runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	scanTotal, err := meter.Int64Counter(
		"scan.total",
		metric.WithDescription("Total number of scan runs"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		return nil, err
	}

	searchCalls, err := meter.Int64Histogram(
		"scan.search_calls",
		metric.WithDescription("Provider search calls issued per scan"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	offersFound, err := meter.Int64Histogram(
		"scan.offers_found",
		metric.WithDescription("Offers aggregated per scan across all stages"),
		metric.WithUnit("{offer}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScanMetrics{
		scanDuration: scanDuration,
		scanTotal:    scanTotal,
		searchCalls:  searchCalls,
		offersFound:  offersFound,
	}, nil
}

// RecordScan records the outcome of one scan run.
func (m *ScanMetrics) RecordScan(status string, duration time.Duration, searchCalls, offersFound int) {
	attrs := []attribute.KeyValue{
		attribute.String("scan.status", status),
	}

	// Background context: scan metrics must survive request cancellation.
	ctx := context.Background()
	m.scanDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.scanTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.searchCalls.Record(ctx, int64(searchCalls), metric.WithAttributes(attrs...))
	m.offersFound.Record(ctx, int64(offersFound), metric.WithAttributes(attrs...))
}

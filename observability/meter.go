package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	if log != nil {
		log.Info("meter initialized", logger.Fields(
			"service", config.ServiceName,
			"endpoint", config.Endpoint,
			"interval", config.Interval.String(),
		))
	}
	return mp, nil
}

// Metric names.
const (
	MetricCalls        = "apiclient.calls"
	MetricCallDuration = "apiclient.call.duration"
	MetricCallsActive  = "apiclient.calls.active"
	MetricErrors       = "apiclient.errors"
)

// Metrics holds the pipeline's instruments.
type Metrics struct {
	calls        metric.Int64Counter
	callDuration metric.Float64Histogram
	callsActive  metric.Int64UpDownCounter
	errors       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter(MetricCalls,
		metric.WithDescription("Settled calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCalls, err)
	}

	callDuration, err := meter.Float64Histogram(MetricCallDuration,
		metric.WithDescription("Duration of calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricCallDuration, err)
	}

	callsActive, err := meter.Int64UpDownCounter(MetricCallsActive,
		metric.WithDescription("Calls currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricCallsActive, err)
	}

	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Rejected calls by error type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &Metrics{
		calls:        calls,
		callDuration: callDuration,
		callsActive:  callsActive,
		errors:       errs,
	}, nil
}

// Middleware tracks calls in flight.
func (m *Metrics) Middleware() httpclient.Middleware {
	return func(next httpclient.Handler) httpclient.Handler {
		return func(ctx context.Context, req *httpclient.Request) (*httpclient.Envelope, error) {
			m.callsActive.Add(ctx, 1)
			defer m.callsActive.Add(ctx, -1)
			return next(ctx, req)
		}
	}
}

// Observe records a settled call. It has the httpclient.Observer signature.
func (m *Metrics) Observe(ctx context.Context, req *httpclient.Request, out httpclient.Outcome, elapsed time.Duration) {
	method := methodOf(req)
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", out.State.String()),
		attribute.String("status", strconv.Itoa(out.StatusCode)),
	))
	m.callDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", out.State.String()),
	))

	if out.State == httpclient.StateRejected {
		errType := "internal"
		if herr, ok := httpclient.AsError(out.Err); ok {
			errType = herr.Code.String()
		}
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("type", errType)))
	}
}

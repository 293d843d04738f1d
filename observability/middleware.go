package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiclient/httpclient"
)

// Tracing returns a middleware that wraps each call in a client span and
// propagates the trace context in the request headers. A nil provider uses
// the global one.
func Tracing(tp trace.TracerProvider) httpclient.Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(instrumentationName)

	return func(next httpclient.Handler) httpclient.Handler {
		return func(ctx context.Context, req *httpclient.Request) (*httpclient.Envelope, error) {
			ctx, span := tracer.Start(ctx, SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String(AttrHTTPMethod, methodOf(req)),
					attribute.String(AttrURLPath, req.Path),
				),
			)
			defer span.End()

			if req.Headers == nil {
				req.Headers = make(http.Header)
			}
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Headers))

			env, err := next(ctx, req)
			if env != nil {
				span.SetAttributes(attribute.Int(AttrStatusCode, env.StatusCode))
			}
			if err != nil {
				if herr, ok := httpclient.AsError(err); ok {
					if herr.StatusCode > 0 {
						span.SetAttributes(attribute.Int(AttrStatusCode, herr.StatusCode))
					}
					span.SetAttributes(attribute.String(AttrErrorCode, herr.Code.String()))
				}
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return env, err
		}
	}
}

func methodOf(req *httpclient.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

// Package observability provides OpenTelemetry tracing and metrics for the
// request pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("apiclient"), log)
//	defer tp.Shutdown(ctx)
//
//	client, err := httpclient.New(cfg, httpclient.WithMiddleware(observability.Tracing(nil)))
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("apiclient"), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(mp.Meter("apiclient"))
//	client, err := httpclient.New(cfg,
//		httpclient.WithMiddleware(metrics.Middleware()),
//		httpclient.WithObserver(metrics.Observe),
//	)
//
// Health:
//
//	health := observability.NewServiceHealth("apiclient", version.Short())
//	health.AddComponent(observability.CheckTokenStore(ctx, store))
package observability

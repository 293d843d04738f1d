package cli

import (
	"context"
	stderrors "errors"
	"net/http"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/apiclient/connectivity"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/tokenstore"
)

// App holds the components built from an AppConfig.
type App struct {
	Config       *AppConfig
	Log          *logger.Logger
	Store        tokenstore.Store
	Connectivity connectivity.Checker
	Client       *httpclient.Client

	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// NewApp builds the token store, connectivity checker, telemetry and client.
// cfg must already have defaults applied and be valid.
func NewApp(ctx context.Context, cfg *AppConfig, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.New(&cfg.Logging, cfg.Name)
	}
	app := &App{Config: cfg, Log: log}

	store, err := tokenstore.New(cfg.TokenStore, log)
	if err != nil {
		return nil, err
	}
	app.Store = store

	checker, err := connectivity.New(cfg.Connectivity, log)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Connectivity = checker

	opts := []httpclient.Option{
		httpclient.WithLogger(log),
		httpclient.WithTokenStore(store),
		httpclient.WithConnectivity(checker),
		httpclient.WithStatusHook(http.StatusUnauthorized, statusHook(log, "login required")),
		httpclient.WithStatusHook(http.StatusForbidden, statusHook(log, "credential expired")),
		httpclient.WithStatusHook(http.StatusNotFound, statusHook(log, "resource not found")),
	}

	if cfg.Observability.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.Observability.Metrics, log)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.meter = mp
		metrics, err := observability.NewMetrics(mp.Meter(ServiceName))
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		opts = append(opts,
			httpclient.WithMiddleware(metrics.Middleware()),
			httpclient.WithObserver(metrics.Observe),
		)
	}
	if cfg.Observability.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Observability.Tracing, log)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.tracer = tp
		opts = append(opts, httpclient.WithMiddleware(observability.Tracing(tp)))
	}

	client, err := httpclient.New(cfg.HTTP, opts...)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Client = client
	return app, nil
}

// Close releases everything NewApp created, flushing telemetry.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Client != nil {
		errs = append(errs, a.Client.Close(ctx))
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if a.meter != nil {
		errs = append(errs, a.meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

// Health reports the token store and connectivity state.
func (a *App) Health(ctx context.Context) *observability.ServiceHealth {
	health := observability.NewServiceHealth(a.Config.Name, a.Config.Version)
	health.AddComponent(observability.CheckTokenStore(ctx, a.Store, a.Config.HTTP.TokenKey))
	health.AddComponent(observability.CheckConnectivity(ctx, a.Connectivity))
	return health
}

// statusHook logs a classified failure status. It takes no corrective action.
func statusHook(log *logger.Logger, reason string) httpclient.StatusHook {
	return func(_ context.Context, err *httpclient.Error) {
		log.Warn(reason, logger.Fields(logger.FieldStatus, err.StatusCode))
	}
}

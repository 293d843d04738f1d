package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/apiclient/logger"
)

// Observer is notified once per call after it settles.
type Observer func(ctx context.Context, req *Request, out Outcome, elapsed time.Duration)

// Client runs every call through the pipeline: middlewares (outermost
// first), token injection, transport, settle.
type Client struct {
	config      Config
	transport   Transport
	handler     Handler
	settler     *Settler
	observers   []Observer
	log         *logger.Logger
	middlewares []Middleware
	tokens      TokenStore
	online      ConnectivityChecker
	hooks       map[int]StatusHook
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTokenStore sets the store the Authorization token is read from.
// Without one, no token is attached.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// WithConnectivity sets the checker consulted when a call gets no reply.
func WithConnectivity(checker ConnectivityChecker) Option {
	return func(c *Client) { c.online = checker }
}

// WithMiddleware appends middlewares. They run outside token injection, in
// the order given.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Client) { c.middlewares = append(c.middlewares, mws...) }
}

// WithStatusHook registers the policy hook for a classified failure status.
func WithStatusHook(status int, hook StatusHook) Option {
	return func(c *Client) { c.hooks[status] = hook }
}

// WithRejectOnStatus rejects calls answered with a classified failure status
// instead of silently resolving them.
func WithRejectOnStatus(reject bool) Option {
	return func(c *Client) { c.config.RejectOnStatus = reject }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observers = append(c.observers, o) }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client. cfg is copied; later changes to the caller's value
// have no effect.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Headers = copyHeaders(cfg.Headers)

	c := &Client{
		config: cfg,
		log:    logger.Nop(),
		hooks:  make(map[int]StatusHook),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("httpclient")

	if c.transport == nil {
		t, err := NewHTTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}

	c.settler = NewSettler(c.online, c.config.RejectOnStatus, c.log)
	for status, hook := range c.hooks {
		c.settler.OnStatus(status, hook)
	}

	chain := append([]Middleware{}, c.middlewares...)
	if cfg.RequestIDHeader != "" {
		chain = append(chain, RequestID(cfg.RequestIDHeader))
	}
	if c.tokens != nil {
		chain = append(chain, TokenAuth(c.tokens, cfg.TokenKey, c.log))
	}
	c.handler = Chain(chain...)(c.transport.Send)

	return c, nil
}

// Do runs req through the pipeline and settles it. It blocks until the
// transport settles or ctx is done.
func (c *Client) Do(ctx context.Context, req Request) Outcome {
	call := req.clone()
	start := time.Now()

	env, err := c.handler(ctx, call)
	out := c.settler.Settle(ctx, env, err)

	elapsed := time.Since(start)
	fields := logger.CallFields(call.Method, call.Path, elapsed)
	fields[logger.FieldOutcome] = out.State.String()
	if out.StatusCode != 0 {
		fields[logger.FieldStatus] = out.StatusCode
	}
	if out.Err != nil {
		fields = logger.MergeWithError(fields, out.Err)
	}
	c.log.Debug("call settled", fields)

	for _, o := range c.observers {
		o(ctx, call, out, elapsed)
	}
	return out
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) Outcome {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a form-encoded body.
func (c *Client) Post(ctx context.Context, path string, body any) Outcome {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a form-encoded body.
func (c *Client) Put(ctx context.Context, path string, body any) Outcome {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) Outcome {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Headers = copyHeaders(c.config.Headers)
	return cfg
}

// Close releases idle connections held by the default transport.
func (c *Client) Close(_ context.Context) error {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Transport dispatches a fully prepared request.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Envelope, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, req *Request) (*Envelope, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Envelope, error) { return f(ctx, req) }

// HTTPTransport sends requests with net/http. Replies with a non-2xx status
// are returned as an *Error carrying the envelope.
type HTTPTransport struct {
	httpClient  *http.Client
	baseURL     string
	contentType string
	headers     map[string]string
}

// NewHTTPTransport creates the default transport for cfg. cfg must already
// have defaults applied.
func NewHTTPTransport(cfg Config) (*HTTPTransport, error) {
	base, err := absoluteBaseURL(cfg.ResolvedBaseURL(), cfg.Origin)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
		Timeout:   cfg.Timeout,
	}
	if cfg.WithCredentials {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &HTTPTransport{
		httpClient:  httpClient,
		baseURL:     base,
		contentType: cfg.ContentType,
		headers:     cfg.Headers,
	}, nil
}

// BaseURL returns the absolute base URL requests are resolved against.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Unwrap returns the underlying *http.Client.
func (t *HTTPTransport) Unwrap() *http.Client {
	return t.httpClient
}

// CloseIdleConnections releases pooled connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.httpClient.CloseIdleConnections()
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Envelope, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	env := &Envelope{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Data:       data,
	}
	if classErr := ClassifyStatusCode(env); classErr != nil {
		return nil, classErr
	}
	return env, nil
}

// buildRequest constructs an *http.Request from the transport defaults and req.
func (t *HTTPTransport) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := req.Path
	if !isAbsoluteURL(target) {
		target = strings.TrimRight(t.baseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	encoded, err := EncodeForm(req.Body)
	if err != nil {
		return nil, NewInvalidRequestError(err)
	}
	var body io.Reader
	if req.Body != nil {
		body = strings.NewReader(encoded)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	if t.contentType != "" {
		httpReq.Header.Set("Content-Type", t.contentType)
	}
	for k, vs := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return httpReq, nil
}

// absoluteBaseURL resolves a relative base URL such as "/api" against origin.
func absoluteBaseURL(base, origin string) (string, error) {
	if isAbsoluteURL(base) {
		return base, nil
	}
	o, err := url.Parse(origin)
	if err != nil || o.Host == "" {
		return "", fmt.Errorf("httpclient: invalid origin %q for relative base URL %q", origin, base)
	}
	return o.ResolveReference(&url.URL{Path: base}).String(), nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isTimeout(err error) bool {
	var ue *url.Error
	return stderrors.As(err, &ue) && ue.Timeout()
}

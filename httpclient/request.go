package httpclient

import (
	"net/http"
)

// Request describes an outbound call. Each call owns its Request; the
// Client clones headers and query before running middlewares.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the resolved base URL. An absolute http(s) URL is
	// used as-is.
	Path string
	// Headers are request-specific headers (override client defaults).
	Headers http.Header
	// Query are URL query parameters.
	Query map[string]string
	// Body is encoded with EncodeForm before dispatch.
	Body any
}

// SetHeader replaces any existing values of key with value.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(key, value)
}

// clone returns a copy whose header and query maps are independent of r.
func (r Request) clone() *Request {
	c := r
	c.Headers = r.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(http.Header)
	}
	if r.Query != nil {
		c.Query = make(map[string]string, len(r.Query))
		for k, v := range r.Query {
			c.Query[k] = v
		}
	}
	return &c
}

// Envelope is the transport-level result of a completed call.
type Envelope struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Data is the raw response payload.
	Data []byte
}

// IsSuccess returns true if the status code is 2xx.
func (e *Envelope) IsSuccess() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

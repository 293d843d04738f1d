package httpclient

import "context"

// Handler performs one call and returns the server reply or a failure.
type Handler func(ctx context.Context, req *Request) (*Envelope, error)

// Middleware wraps a Handler. A middleware may mutate the request before
// calling next, inspect the result after it, or return early without
// calling next at all.
type Middleware func(next Handler) Handler

// Chain composes middlewares into one. The first middleware is outermost
// (runs first on the way in, last on the way out).
//
// Chain(a, b, c)(h) is equivalent to a(b(c(h))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			inner = middlewares[i](inner)
		}
		return inner
	}
}

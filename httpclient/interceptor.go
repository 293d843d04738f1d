package httpclient

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/apiclient/logger"
)

// AuthorizationHeader carries the stored token.
const AuthorizationHeader = "Authorization"

// TokenStore is the persistent client-side storage the token is read from.
// Implementations live in package tokenstore.
type TokenStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
}

// TokenAuth returns a Middleware that copies the stored token into the
// Authorization header before dispatch. The raw value is used; no scheme
// prefix is added. An absent or empty token leaves the headers untouched.
// A store failure is returned unchanged and the call is never dispatched.
func TokenAuth(store TokenStore, key string, log *logger.Logger) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Envelope, error) {
			token, ok, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if ok && token != "" {
				req.SetHeader(AuthorizationHeader, token)
				log.Debug("token attached", logger.Fields(logger.FieldPath, req.Path))
			}
			return next(ctx, req)
		}
	}
}

// RequestID returns a Middleware that sets header to a fresh UUID when the
// request does not carry one.
func RequestID(header string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Envelope, error) {
			if req.Headers.Get(header) == "" {
				req.SetHeader(header, uuid.New().String())
			}
			return next(ctx, req)
		}
	}
}

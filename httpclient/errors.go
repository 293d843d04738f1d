package httpclient

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/apiclient/errors"
)

// ErrorCode classifies transport-level failures.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the call exceeded its deadline.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates no reply was received (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeUnauthorized indicates HTTP 401.
	ErrCodeUnauthorized
	// ErrCodeForbidden indicates HTTP 403, usually an expired credential.
	ErrCodeForbidden
	// ErrCodeNotFound indicates HTTP 404.
	ErrCodeNotFound
	// ErrCodeRateLimit indicates HTTP 429.
	ErrCodeRateLimit
	// ErrCodeClient indicates any other 4xx status.
	ErrCodeClient
	// ErrCodeServer indicates a 5xx status.
	ErrCodeServer
	// ErrCodeInvalidRequest indicates the request could not be built.
	ErrCodeInvalidRequest
	// ErrCodeUnexpectedStatus indicates a reply outside 2xx that is neither
	// a client nor a server error, such as an unfollowed redirect or 304.
	ErrCodeUnexpectedStatus
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeUnauthorized:
		return "unauthorized"
	case ErrCodeForbidden:
		return "forbidden"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	case ErrCodeUnexpectedStatus:
		return "unexpected_status"
	default:
		return "unknown"
	}
}

// Error is a transport-level failure. Envelope is set when the server replied
// with a failure status and nil when no reply was received.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Envelope is the server reply, if any.
	Envelope *Envelope
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// HasEnvelope reports whether the server replied.
func (e *Error) HasEnvelope() bool {
	return e.Envelope != nil
}

// AppError maps the failure onto the application error catalog.
func (e *Error) AppError() *errors.AppError {
	var appErr *errors.AppError
	switch e.Code {
	case ErrCodeTimeout:
		appErr = errors.Timeout(e.Message)
	case ErrCodeConnection:
		appErr = errors.ConnectionFailed(e.Message)
	case ErrCodeUnauthorized:
		appErr = errors.Unauthorized("")
	case ErrCodeForbidden:
		appErr = errors.Forbidden("")
	case ErrCodeNotFound:
		appErr = errors.NotFound("resource")
	case ErrCodeRateLimit:
		appErr = errors.RateLimited()
	case ErrCodeInvalidRequest:
		appErr = errors.Validation(e.Message)
	default:
		appErr = errors.ExternalServiceError(e.StatusCode, nil)
	}
	return appErr.WithCause(e)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewInvalidRequestError creates an error for a request that could not be built.
func NewInvalidRequestError(err error) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
}

// ClassifyStatusCode converts a reply into a typed error carrying it.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(env *Envelope) *Error {
	code, ok := statusErrorCode(env.StatusCode)
	if !ok {
		return nil
	}
	return &Error{
		StatusCode: env.StatusCode,
		Code:       code,
		Message:    http.StatusText(env.StatusCode),
		Envelope:   env,
	}
}

func statusErrorCode(status int) (ErrorCode, bool) {
	switch {
	case status >= 200 && status < 300:
		return 0, false
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized, true
	case status == http.StatusForbidden:
		return ErrCodeForbidden, true
	case status == http.StatusNotFound:
		return ErrCodeNotFound, true
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit, true
	case status >= 400 && status < 500:
		return ErrCodeClient, true
	case status >= 500:
		return ErrCodeServer, true
	default:
		return ErrCodeUnexpectedStatus, true
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsUnauthorized checks if an error is a 401 reply.
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }

// IsForbidden checks if an error is a 403 reply.
func IsForbidden(err error) bool { return hasCode(err, ErrCodeForbidden) }

// IsNotFound checks if an error is a 404 reply.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsServerError checks if an error is a 5xx reply.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

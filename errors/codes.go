package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connectivity errors (retryable)
const (
	// ErrCodeConnectionFailed indicates the server could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeOffline indicates the client reported no network connectivity.
	ErrCodeOffline ErrorCode = "OFFLINE"
	// ErrCodeRateLimited indicates the server throttled the client.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the server refused the request, usually
	// because the credential has expired.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected client-side error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeStore indicates the token store could not be read or written.
	ErrCodeStore ErrorCode = "STORE_ERROR"
	// ErrCodeExternalService indicates the remote API answered with a failure status.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeOffline:          true,
	ErrCodeRateLimited:      true,
	ErrCodeStore:            true,
	ErrCodeExternalService:  true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

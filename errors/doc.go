// Package errors provides the application-level error catalog used across
// apiclient. Pipeline failures, token store failures and configuration
// validation failures are all expressed as *AppError with a machine-readable
// code and a retryable hint.
package errors

// Package apperrors provides the application error type used across the
// service. It extends the standard error interface with error wrapping,
// HTTP status codes, and message derivation, so packages can declare
// sentinel errors and refine them at the point of failure.
package apperrors

// Error is the interface implemented by all application errors. Methods
// that produce a new message return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error  // fresh error using the current one as template
	Msg(msg string) Error  // new error with message, wraps the original
	Err(err ...error) Error // attaches additional errors to the current one
	SetStatusCode(int) Error
	StatusCode() int
	ErrorAll() string // full message including wrapped errors
}

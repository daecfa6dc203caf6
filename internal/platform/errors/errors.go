// Package errors provides error types and utilities for redrecon.
// It extends the standard errors package with wrapping, transport error
// classification and panic conversion.
package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Sentinel errors for transport-level failure kinds
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTLS indicates the TLS handshake or certificate validation failed
	ErrTLS = errors.New("tls failure")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrCanceled indicates the caller gave up waiting
	ErrCanceled = errors.New("operation canceled")

	// ErrPanic indicates a recovered panic
	ErrPanic = errors.New("panic")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func New(msg string) error {
	return errors.New(msg)
}

func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// classifiedError keeps the original error reachable while adding a kind.
type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.cause)
}

func (e *classifiedError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// Classify tags a transport error with one of the sentinel kinds so callers
// can log or count it without inspecting net internals. Unknown errors are
// tagged as ErrConnectionFailed. Returns nil for nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{kind: Kind(err), cause: err}
}

// Kind returns the sentinel that best describes err.
func Kind(err error) error {
	var (
		netErr   net.Error
		certErr  *tls.CertificateVerificationError
		unkAuth  x509.UnknownAuthorityError
		hostErr  x509.HostnameError
		recordEr tls.RecordHeaderError
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &certErr), errors.As(err, &unkAuth), errors.As(err, &hostErr), errors.As(err, &recordEr):
		return ErrTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrTimeout
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return ErrConnectionFailed
	default:
		return ErrConnectionFailed
	}
}

// Recovered converts a value obtained from recover() into an error that
// matches ErrPanic. Returns nil for nil.
func Recovered(v any) error {
	if v == nil {
		return nil
	}
	if err, ok := v.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrPanic, v)
}

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsConnectionFailed reports whether the error is a connection failed error
func IsConnectionFailed(err error) bool {
	return Is(err, ErrConnectionFailed)
}

// IsTLS reports whether the error is a TLS error
func IsTLS(err error) bool {
	return Is(err, ErrTLS)
}

// IsUnauthorized reports whether the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return Is(err, ErrUnauthorized)
}

// IsPanic reports whether the error came from a recovered panic
func IsPanic(err error) bool {
	return Is(err, ErrPanic)
}

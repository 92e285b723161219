// Package runanywhereerrors defines the error-kind union shared by the
// download engine, the inference service, and the voice pipeline so that
// callers can use errors.Is/errors.As regardless of which subsystem raised
// the failure.
package runanywhereerrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure from the §7 error taxonomy.
type Kind string

const (
	KindInvalidURL         Kind = "invalid-url"
	KindNetwork            Kind = "network"
	KindTimeout            Kind = "timeout"
	KindPartialDownload    Kind = "partial-download"
	KindChecksumMismatch   Kind = "checksum-mismatch"
	KindExtractionFailed   Kind = "extraction-failed"
	KindUnsupportedArchive Kind = "unsupported-archive"
	KindHTTP               Kind = "http"
	KindCancelled          Kind = "cancelled"
	KindInsufficientSpace  Kind = "insufficient-space"
	KindModelNotFound      Kind = "model-not-found"
	KindUnsupportedFormat  Kind = "unsupported-format"
	KindNotInitialized     Kind = "not-initialized"
	KindNoCompatibleBackend Kind = "no-compatible-backend"
	KindResourceExhausted  Kind = "resource-exhausted"
	KindInvalidResponse    Kind = "invalid-response"
	KindConnectionLost     Kind = "connection-lost"
	KindUnknown            Kind = "unknown"
)

// Error is the concrete error type carrying a Kind, an optional HTTP status
// code (only meaningful for KindHTTP), and the underlying cause.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, runanywhereerrors.New(KindX, "")) to match on Kind
// alone, ignoring Message/Cause/Code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// New creates an *Error with the given kind and message (no cause).
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an *Error with the given kind wrapping cause.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// HTTP creates an *Error for an HTTP status code failure.
func HTTP(code int) *Error {
	return &Error{Kind: KindHTTP, Code: code, Message: fmt.Sprintf("http status %d", code)}
}

// KindOf extracts the Kind from err, defaulting to KindUnknown if err does
// not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's kind equals kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether an error kind is retryable inside the download
// engine per spec §4.4: network timeouts, lost connection, disconnection,
// partial downloads, transport-level I/O.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout, KindConnectionLost, KindPartialDownload:
		return true
	case KindHTTP:
		var e *Error
		if errors.As(err, &e) {
			// 5xx is treated as transient; 4xx is not (§4.4 non-retryable).
			return e.Code >= 500
		}
	}
	return false
}

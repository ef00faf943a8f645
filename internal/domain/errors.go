// Package domain provides the canonical error model for glass.
//
// Every failure in the gateway is represented as a *domain.Error with a
// closed Kind tag. Retryability and backoff hints are derived from the
// error value alone, so the retry loop never consults external state.
package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorKind is the category of a gateway error.
type ErrorKind string

const (
	// KindConfig indicates missing or invalid configuration.
	KindConfig ErrorKind = "config"

	// KindTransport indicates the HTTP request failed in transit.
	KindTransport ErrorKind = "transport"

	// KindTransportInit indicates the HTTP client could not be built.
	KindTransportInit ErrorKind = "transport_init"

	// KindHTTPStatus indicates a non-success HTTP status with no more
	// specific classification.
	KindHTTPStatus ErrorKind = "http_status"

	// KindTimeout indicates the request exceeded its deadline.
	KindTimeout ErrorKind = "timeout"

	// KindRateLimited indicates the server returned HTTP 429.
	KindRateLimited ErrorKind = "rate_limited"

	// KindServiceUnavailable indicates HTTP 502, 503 or 504.
	KindServiceUnavailable ErrorKind = "service_unavailable"

	// KindRemote indicates the SDP envelope reported a failure code.
	KindRemote ErrorKind = "remote"

	// KindSerialization indicates JSON encoding or decoding failed.
	KindSerialization ErrorKind = "serialization"

	// KindNotFound indicates the requested resource does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindAuthentication indicates the API key was rejected.
	KindAuthentication ErrorKind = "authentication"

	// KindValidation indicates input failed local validation.
	KindValidation ErrorKind = "validation"

	// KindProbe indicates the startup connectivity probe failed.
	KindProbe ErrorKind = "probe"
)

// Fixed retry hints for the non-rate-limited retryable kinds.
const (
	serviceUnavailableDelay = 500 * time.Millisecond
	timeoutRetryDelay       = 100 * time.Millisecond
)

// RedactedPlaceholder replaces secret values in sanitized messages.
const RedactedPlaceholder = "[REDACTED]"

// Error is the unified error type for all glass operations. Each Kind
// carries exactly the context needed to render a message and to decide
// retry policy.
type Error struct {
	// Kind is the error category.
	Kind ErrorKind

	// Message is the human-readable detail for kinds that carry one.
	Message string

	// Status is the HTTP status code for KindHTTPStatus and
	// KindServiceUnavailable.
	Status int

	// Code is the SDP error code for KindRemote.
	Code int

	// ID is the missing resource identifier for KindNotFound.
	ID string

	// Operation labels the call that timed out (method + path).
	Operation string

	// Duration is how long we waited before KindTimeout fired.
	Duration time.Duration

	// RetryAfter is the server-suggested delay for KindRateLimited.
	// Zero means the server sent no hint.
	RetryAfter time.Duration

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		return "configuration error: " + e.Message
	case KindTransport:
		return fmt.Sprintf("HTTP request failed: %v", e.Err)
	case KindTransportInit:
		return fmt.Sprintf("HTTP client error: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case KindTimeout:
		return fmt.Sprintf("request timed out after %s - the server may be slow or unreachable", e.Duration)
	case KindRateLimited:
		return "rate limited by server - please wait before retrying"
	case KindServiceUnavailable:
		return fmt.Sprintf("service temporarily unavailable (%d) - will retry automatically", e.Status)
	case KindRemote:
		return fmt.Sprintf("SDP API error %d: %s", e.Code, e.Message)
	case KindSerialization:
		return fmt.Sprintf("JSON serialization error: %v", e.Err)
	case KindNotFound:
		return "request not found: " + e.ID
	case KindAuthentication:
		return "authentication failed - check SDP_API_KEY"
	case KindValidation:
		return "validation error: " + e.Message
	case KindProbe:
		return "connection test failed: " + e.Message
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the operation that produced this error is
// worth repeating. The retryable set is rate limiting, service
// unavailability, timeouts, transport-level timeout or connect
// failures, and raw HTTP 429/5xx statuses.
func (e *Error) IsRetryable() bool {
	switch e.Kind {
	case KindRateLimited, KindServiceUnavailable, KindTimeout:
		return true
	case KindTransport:
		return isTimeoutOrConnect(e.Err)
	case KindHTTPStatus:
		return e.Status == 429 || e.Status >= 500
	default:
		return false
	}
}

// IsRateLimit reports whether this error indicates rate limiting.
func (e *Error) IsRateLimit() bool {
	return e.Kind == KindRateLimited || (e.Kind == KindHTTPStatus && e.Status == 429)
}

// RetryDelay returns the suggested delay before the next attempt and
// whether a suggestion exists.
func (e *Error) RetryDelay() (time.Duration, bool) {
	switch e.Kind {
	case KindRateLimited:
		if e.RetryAfter > 0 {
			return e.RetryAfter, true
		}
		return 0, false
	case KindServiceUnavailable:
		return serviceUnavailableDelay, true
	case KindTimeout:
		return timeoutRetryDelay, true
	default:
		return 0, false
	}
}

func isTimeoutOrConnect(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

// Redact returns message with every occurrence of secret replaced by
// RedactedPlaceholder. An empty secret is a passthrough. Every
// component that logs or returns a string derived from a lower-level
// failure must route it through here first.
func Redact(message, secret string) string {
	if secret == "" {
		return message
	}
	return strings.ReplaceAll(message, secret, RedactedPlaceholder)
}

// Sanitized returns the error's display message with secret redacted.
func (e *Error) Sanitized(secret string) string {
	return Redact(e.Error(), secret)
}

// SanitizedError returns err's message with secret redacted, for errors
// that may not be *domain.Error.
func SanitizedError(err error, secret string) string {
	return Redact(err.Error(), secret)
}

// Convenience constructors.

// ErrConfig creates a configuration error.
func ErrConfig(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// ErrMissingEnv creates a configuration error for a missing variable.
func ErrMissingEnv(name string) *Error {
	return ErrConfig("missing required environment variable: " + name)
}

// ErrTransport wraps a failed HTTP round trip.
func ErrTransport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// ErrTransportInit wraps an HTTP client construction failure.
func ErrTransportInit(err error) *Error {
	return &Error{Kind: KindTransportInit, Err: err}
}

// ErrHTTPStatus creates an error for an unclassified non-2xx status.
// The body must already be sanitized and length-capped by the caller.
func ErrHTTPStatus(status int, body string) *Error {
	return &Error{Kind: KindHTTPStatus, Status: status, Message: body}
}

// ErrTimeout creates a timeout error for the labeled operation.
func ErrTimeout(duration time.Duration, operation string) *Error {
	return &Error{Kind: KindTimeout, Duration: duration, Operation: operation}
}

// ErrRateLimited creates a rate-limit error. retryAfter of zero means
// the server provided no hint.
func ErrRateLimited(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, RetryAfter: retryAfter}
}

// ErrServiceUnavailable creates an error for HTTP 502/503/504.
func ErrServiceUnavailable(status int) *Error {
	return &Error{Kind: KindServiceUnavailable, Status: status}
}

// ErrRemote creates an error for a failed SDP envelope.
func ErrRemote(code int, message string) *Error {
	return &Error{Kind: KindRemote, Code: code, Message: message}
}

// ErrSerialization wraps a JSON encode or decode failure.
func ErrSerialization(err error) *Error {
	return &Error{Kind: KindSerialization, Err: err}
}

// ErrNotFound creates a not-found error for the given resource id.
func ErrNotFound(id string) *Error {
	return &Error{Kind: KindNotFound, ID: id}
}

// ErrAuthentication creates an authentication failure.
func ErrAuthentication() *Error {
	return &Error{Kind: KindAuthentication}
}

// ErrValidation creates a validation error.
func ErrValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ErrProbe creates a connectivity probe failure.
func ErrProbe(message string) *Error {
	return &Error{Kind: KindProbe, Message: message}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{name: "rate limited", err: ErrRateLimited(0), want: true},
		{name: "service unavailable", err: ErrServiceUnavailable(503), want: true},
		{name: "timeout", err: ErrTimeout(30*time.Second, "GET /requests"), want: true},
		{name: "http 429", err: ErrHTTPStatus(429, "slow down"), want: true},
		{name: "http 500", err: ErrHTTPStatus(500, "boom"), want: true},
		{name: "http 503", err: ErrHTTPStatus(503, ""), want: true},
		{name: "http 400", err: ErrHTTPStatus(400, "bad"), want: false},
		{name: "http 404", err: ErrHTTPStatus(404, ""), want: false},
		{name: "authentication", err: ErrAuthentication(), want: false},
		{name: "not found", err: ErrNotFound("123"), want: false},
		{name: "validation", err: ErrValidation("bad id"), want: false},
		{name: "remote", err: ErrRemote(4000, "failure"), want: false},
		{name: "serialization", err: ErrSerialization(errors.New("bad json")), want: false},
		{name: "config", err: ErrConfig("missing"), want: false},
		{
			name: "transport generic",
			err:  ErrTransport(errors.New("connection reset")),
			want: false,
		},
		{
			name: "transport dial failure",
			err:  ErrTransport(&net.OpError{Op: "dial", Err: errors.New("refused")}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryableIsDeterministic(t *testing.T) {
	err := ErrHTTPStatus(503, "unavailable")
	first := err.IsRetryable()
	for i := 0; i < 10; i++ {
		if err.IsRetryable() != first {
			t.Fatal("IsRetryable() changed across calls on the same value")
		}
	}
}

func TestIsRateLimit(t *testing.T) {
	if !ErrRateLimited(0).IsRateLimit() {
		t.Error("ErrRateLimited should report rate limit")
	}
	if !ErrHTTPStatus(429, "").IsRateLimit() {
		t.Error("HTTP 429 should report rate limit")
	}
	if ErrHTTPStatus(500, "").IsRateLimit() {
		t.Error("HTTP 500 should not report rate limit")
	}
	if ErrServiceUnavailable(503).IsRateLimit() {
		t.Error("service unavailable should not report rate limit")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Run("rate limited with server hint", func(t *testing.T) {
		delay, ok := ErrRateLimited(5 * time.Second).RetryDelay()
		if !ok || delay != 5*time.Second {
			t.Errorf("RetryDelay() = %v, %v, want 5s, true", delay, ok)
		}
	})

	t.Run("rate limited without hint", func(t *testing.T) {
		_, ok := ErrRateLimited(0).RetryDelay()
		if ok {
			t.Error("RetryDelay() should report no suggestion without a hint")
		}
	})

	t.Run("service unavailable fixed delay", func(t *testing.T) {
		delay, ok := ErrServiceUnavailable(503).RetryDelay()
		if !ok || delay != 500*time.Millisecond {
			t.Errorf("RetryDelay() = %v, %v, want 500ms, true", delay, ok)
		}
	})

	t.Run("non-retryable has none", func(t *testing.T) {
		_, ok := ErrValidation("bad").RetryDelay()
		if ok {
			t.Error("RetryDelay() should report no suggestion for validation errors")
		}
	})
}

func TestRedact(t *testing.T) {
	const secret = "SECRET-KEY-123"

	tests := []struct {
		name    string
		message string
		secret  string
		want    string
	}{
		{
			name:    "secret replaced",
			message: "authtoken SECRET-KEY-123 rejected",
			secret:  secret,
			want:    "authtoken [REDACTED] rejected",
		},
		{
			name:    "multiple occurrences",
			message: "SECRET-KEY-123 and again SECRET-KEY-123",
			secret:  secret,
			want:    "[REDACTED] and again [REDACTED]",
		},
		{
			name:    "empty secret passthrough",
			message: "nothing to hide",
			secret:  "",
			want:    "nothing to hide",
		},
		{
			name:    "secret absent",
			message: "clean message",
			secret:  secret,
			want:    "clean message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.message, tt.secret); got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitized(t *testing.T) {
	const secret = "TOPSECRET"

	err := ErrHTTPStatus(500, "server said: TOPSECRET is invalid")
	got := err.Sanitized(secret)
	if strings.Contains(got, secret) {
		t.Errorf("Sanitized() leaked the secret: %q", got)
	}
	if !strings.Contains(got, RedactedPlaceholder) {
		t.Errorf("Sanitized() = %q, want placeholder present", got)
	}
}

func TestSanitizedErrorPlainError(t *testing.T) {
	const secret = "TOPSECRET"
	err := fmt.Errorf("wrapped: %s leaked", secret)
	if got := SanitizedError(err, secret); strings.Contains(got, secret) {
		t.Errorf("SanitizedError() leaked the secret: %q", got)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "not found includes id",
			err:  ErrNotFound("4521"),
			want: "request not found: 4521",
		},
		{
			name: "timeout includes duration",
			err:  ErrTimeout(30*time.Second, "GET /requests"),
			want: "request timed out after 30s - the server may be slow or unreachable",
		},
		{
			name: "remote includes code",
			err:  ErrRemote(4002, "no permission"),
			want: "SDP API error 4002: no permission",
		},
		{
			name: "authentication names the variable",
			err:  ErrAuthentication(),
			want: "authentication failed - check SDP_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := ErrTransport(cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrNotFound("7"))
	if !IsKind(err, KindNotFound) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, KindTimeout) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("IsKind matched a plain error")
	}
}

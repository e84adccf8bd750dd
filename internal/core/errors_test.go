package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected FailureKind
	}{
		{"nil error", nil, FailureUnknown},
		{"plain error", errors.New("something broke"), FailureUnknown},
		{"deadline exceeded", context.DeadlineExceeded, FailureTransientTimeout},
		{
			"wrapped deadline exceeded",
			fmt.Errorf("sending: %w", context.DeadlineExceeded),
			FailureTransientTimeout,
		},
		{
			"classified delivery error",
			NewDeliveryError(FailurePermanentNotFound, errors.New("chat not found")),
			FailurePermanentNotFound,
		},
		{
			"wrapped delivery error",
			fmt.Errorf("attempt 2: %w", NewDeliveryError(FailureTransientRateLimit, errors.New("429"))),
			FailureTransientRateLimit,
		},
		{
			"dns timeout",
			&net.DNSError{Err: "timeout", IsTimeout: true},
			FailureTransientTimeout,
		},
		{
			"network op error",
			&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			FailureFatalNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFailureKindPredicates(t *testing.T) {
	tests := []struct {
		kind      FailureKind
		transient bool
		permanent bool
		fatal     bool
	}{
		{FailureUnknown, true, false, false},
		{FailureTransientTimeout, true, false, false},
		{FailureTransientRateLimit, true, false, false},
		{FailurePermanentNotFound, false, true, false},
		{FailurePermanentUnauthorized, false, true, false},
		{FailurePermanentTooLarge, false, true, false},
		{FailureFatalNetwork, false, false, true},
		{FailureFatalAuth, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsTransient(); got != tt.transient {
				t.Errorf("IsTransient() = %v, want %v", got, tt.transient)
			}
			if got := tt.kind.IsPermanent(); got != tt.permanent {
				t.Errorf("IsPermanent() = %v, want %v", got, tt.permanent)
			}
			if got := tt.kind.IsFatal(); got != tt.fatal {
				t.Errorf("IsFatal() = %v, want %v", got, tt.fatal)
			}
		})
	}
}

func TestDeliveryErrorUnwrap(t *testing.T) {
	inner := errors.New("chat not found")
	de := NewDeliveryError(FailurePermanentNotFound, inner)

	if !errors.Is(de, inner) {
		t.Error("DeliveryError should unwrap to the inner error")
	}

	wrapped := fmt.Errorf("delivering: %w", de)
	var got *DeliveryError
	if !errors.As(wrapped, &got) {
		t.Fatal("errors.As should find the DeliveryError through wrapping")
	}
	if got.Kind != FailurePermanentNotFound {
		t.Errorf("Kind = %v, want %v", got.Kind, FailurePermanentNotFound)
	}
}

func TestRetryAfterHint(t *testing.T) {
	plain := errors.New("429 too many requests")
	if hint := RetryAfterHint(plain); hint != 0 {
		t.Errorf("RetryAfterHint(plain error) = %v, want 0", hint)
	}

	de := &DeliveryError{
		Kind:       FailureTransientRateLimit,
		RetryAfter: 90 * time.Second,
		Err:        plain,
	}
	if hint := RetryAfterHint(de); hint != 90*time.Second {
		t.Errorf("RetryAfterHint() = %v, want 90s", hint)
	}

	wrapped := fmt.Errorf("send: %w", de)
	if hint := RetryAfterHint(wrapped); hint != 90*time.Second {
		t.Errorf("RetryAfterHint(wrapped) = %v, want 90s", hint)
	}
}

package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

type FailureKind int

const (
	// FailureUnknown covers errors no classifier recognized; treated as a timeout
	FailureUnknown FailureKind = iota
	// FailureTransientTimeout represents a slow or timed-out attempt worth retrying
	FailureTransientTimeout
	// FailureTransientRateLimit represents provider-side flood control
	FailureTransientRateLimit
	// FailurePermanentNotFound represents a destination that does not exist
	FailurePermanentNotFound
	// FailurePermanentUnauthorized represents a destination the bot may not post to
	FailurePermanentUnauthorized
	// FailurePermanentTooLarge represents a payload over the provider's size limit
	FailurePermanentTooLarge
	// FailureFatalNetwork represents a dead network, aborting the whole cycle
	FailureFatalNetwork
	// FailureFatalAuth represents revoked credentials, aborting the whole cycle
	FailureFatalAuth
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransientTimeout:
		return "transient_timeout"
	case FailureTransientRateLimit:
		return "transient_rate_limit"
	case FailurePermanentNotFound:
		return "permanent_not_found"
	case FailurePermanentUnauthorized:
		return "permanent_unauthorized"
	case FailurePermanentTooLarge:
		return "permanent_too_large"
	case FailureFatalNetwork:
		return "fatal_network"
	case FailureFatalAuth:
		return "fatal_auth"
	default:
		return "unknown"
	}
}

func (k FailureKind) IsTransient() bool {
	return k == FailureTransientTimeout || k == FailureTransientRateLimit || k == FailureUnknown
}

func (k FailureKind) IsPermanent() bool {
	return k == FailurePermanentNotFound || k == FailurePermanentUnauthorized || k == FailurePermanentTooLarge
}

func (k FailureKind) IsFatal() bool {
	return k == FailureFatalNetwork || k == FailureFatalAuth
}

// DeliveryError carries a classified failure. RetryAfter is set when the
// provider announced its own cooldown.
type DeliveryError struct {
	Kind       FailureKind
	RetryAfter time.Duration
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func NewDeliveryError(kind FailureKind, err error) *DeliveryError {
	return &DeliveryError{Kind: kind, Err: err}
}

// Classifier maps an attempt error to a failure kind. Senders install their
// own provider-aware classifier; ClassifyError handles the generic cases.
type Classifier func(error) FailureKind

func ClassifyError(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransientTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTransientTimeout
		}
		return FailureFatalNetwork
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureFatalNetwork
	}

	return FailureUnknown
}

// RetryAfterHint extracts a provider-announced cooldown from the error, or 0.
func RetryAfterHint(err error) time.Duration {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.RetryAfter
	}
	return 0
}

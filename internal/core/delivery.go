package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type DeliveryOutcome int

const (
	// OutcomeDelivered indicates the attempt chain ended in a successful send
	OutcomeDelivered DeliveryOutcome = iota
	// OutcomeExhausted indicates every allowed attempt failed with a transient error
	OutcomeExhausted
	// OutcomePermanent indicates a permanent failure stopped the chain without retries
	OutcomePermanent
	// OutcomeFatal indicates a fatal failure that must abort the whole cycle
	OutcomeFatal
	// OutcomeCanceled indicates the context ended while waiting between attempts
	OutcomeCanceled
)

func (o DeliveryOutcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomePermanent:
		return "permanent"
	case OutcomeFatal:
		return "fatal"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type DeliveryConfig struct {
	MaxAttempts      int
	TimeoutBackoff   []time.Duration
	RateLimitBackoff []time.Duration
	SuccessPause     time.Duration
	FailurePause     time.Duration
}

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		MaxAttempts:      3,
		TimeoutBackoff:   []time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second},
		RateLimitBackoff: []time.Duration{60 * time.Second, 120 * time.Second, 180 * time.Second},
		SuccessPause:     3 * time.Second,
		FailurePause:     5 * time.Second,
	}
}

// DeliveryEngine runs a single track delivery through the bounded retry
// chain. Permanent and fatal failures short-circuit; transient failures
// wait out a class-specific backoff before the next attempt.
type DeliveryEngine struct {
	cfg      DeliveryConfig
	classify Classifier
	metrics  Metrics
	logger   *zap.Logger

	// wait is swapped out in tests to avoid real sleeps
	wait func(ctx context.Context, d time.Duration) error
}

func NewDeliveryEngine(cfg DeliveryConfig, classify Classifier, metrics Metrics, logger *zap.Logger) *DeliveryEngine {
	if classify == nil {
		classify = ClassifyError
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &DeliveryEngine{
		cfg:      cfg,
		classify: classify,
		metrics:  metrics,
		logger:   logger,
		wait:     waitFor,
	}
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Deliver invokes attempt up to MaxAttempts times. The returned error is the
// last attempt error unless the outcome is OutcomeDelivered.
func (e *DeliveryEngine) Deliver(ctx context.Context, desc string, attempt func(ctx context.Context) error) (DeliveryOutcome, error) {
	var lastErr error
	var lastDelay time.Duration

	for n := 1; n <= e.cfg.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return OutcomeCanceled, err
		}

		err := attempt(ctx)
		if err == nil {
			if n > 1 {
				e.logger.Info("delivery succeeded after retry",
					zap.String("item", desc),
					zap.Int("attempt", n))
			}
			return OutcomeDelivered, nil
		}
		lastErr = err

		kind := e.classify(err)
		if kind == FailureUnknown {
			kind = ClassifyError(err)
		}

		switch {
		case kind.IsPermanent():
			e.logger.Warn("permanent delivery failure, not retrying",
				zap.String("item", desc),
				zap.String("kind", kind.String()),
				zap.Error(err))
			return OutcomePermanent, &DeliveryError{Kind: kind, Err: err}

		case kind.IsFatal():
			e.logger.Error("fatal delivery failure, aborting cycle",
				zap.String("item", desc),
				zap.String("kind", kind.String()),
				zap.Error(err))
			return OutcomeFatal, &DeliveryError{Kind: kind, Err: err}
		}

		if n == e.cfg.MaxAttempts {
			break
		}

		delay := e.backoffFor(kind, n)
		if hint := RetryAfterHint(err); hint > delay {
			delay = hint
		}
		// backoff never shrinks within one delivery
		if delay < lastDelay {
			delay = lastDelay
		}
		lastDelay = delay

		e.metrics.RecordRetry(kind.String())
		e.logger.Warn("transient delivery failure, backing off",
			zap.String("item", desc),
			zap.String("kind", kind.String()),
			zap.Int("attempt", n),
			zap.Duration("backoff", delay),
			zap.Error(err))

		if err := e.wait(ctx, delay); err != nil {
			return OutcomeCanceled, err
		}
	}

	return OutcomeExhausted, fmt.Errorf("delivery failed after %d attempts: %w", e.cfg.MaxAttempts, lastErr)
}

// backoffFor returns the ladder entry for the failure at attempt n (1-based).
func (e *DeliveryEngine) backoffFor(kind FailureKind, n int) time.Duration {
	ladder := e.cfg.TimeoutBackoff
	if kind == FailureTransientRateLimit {
		ladder = e.cfg.RateLimitBackoff
	}

	if len(ladder) == 0 {
		return 0
	}
	idx := n - 1
	if idx >= len(ladder) {
		idx = len(ladder) - 1
	}
	return ladder[idx]
}

package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// recordingMetrics captures metric calls for assertions.
type recordingMetrics struct {
	NopMetrics
	retries []string
}

func (m *recordingMetrics) RecordRetry(kind string) {
	m.retries = append(m.retries, kind)
}

func newTestEngine(metrics Metrics) (*DeliveryEngine, *[]time.Duration) {
	engine := NewDeliveryEngine(DefaultDeliveryConfig(), ClassifyError, metrics, zap.NewNop())

	var waits []time.Duration
	engine.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return engine, &waits
}

func TestDeliverFirstAttemptSucceeds(t *testing.T) {
	engine, waits := newTestEngine(nil)

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		return nil
	})

	if outcome != OutcomeDelivered {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeDelivered)
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("attempt calls = %d, want 1", calls)
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none", *waits)
	}
}

func TestDeliverRetriesTimeoutsThenSucceeds(t *testing.T) {
	metrics := &recordingMetrics{}
	engine, waits := newTestEngine(metrics)

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		if calls < 3 {
			return NewDeliveryError(FailureTransientTimeout, errors.New("timed out"))
		}
		return nil
	})

	if outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeDelivered)
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("attempt calls = %d, want 3", calls)
	}

	expected := []time.Duration{5 * time.Second, 10 * time.Second}
	assertWaits(t, *waits, expected)

	if len(metrics.retries) != 2 {
		t.Errorf("recorded retries = %v, want 2 entries", metrics.retries)
	}
}

func TestDeliverExhaustsAttempts(t *testing.T) {
	engine, waits := newTestEngine(nil)

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		return NewDeliveryError(FailureTransientTimeout, errors.New("timed out"))
	})

	if outcome != OutcomeExhausted {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	if calls != 3 {
		t.Errorf("attempt calls = %d, want 3", calls)
	}
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want attempt count in message", err)
	}

	// no wait after the final attempt
	assertWaits(t, *waits, []time.Duration{5 * time.Second, 10 * time.Second})
}

func TestDeliverRateLimitLadder(t *testing.T) {
	engine, waits := newTestEngine(nil)

	outcome, _ := engine.Deliver(context.Background(), "track", func(context.Context) error {
		return NewDeliveryError(FailureTransientRateLimit, errors.New("429"))
	})

	if outcome != OutcomeExhausted {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	assertWaits(t, *waits, []time.Duration{60 * time.Second, 120 * time.Second})
}

func TestDeliverHonorsRetryAfterHint(t *testing.T) {
	engine, waits := newTestEngine(nil)

	calls := 0
	outcome, _ := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		if calls == 1 {
			return &DeliveryError{
				Kind:       FailureTransientRateLimit,
				RetryAfter: 300 * time.Second,
				Err:        errors.New("429"),
			}
		}
		return nil
	})

	if outcome != OutcomeDelivered {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeDelivered)
	}
	// provider cooldown beats the ladder entry
	assertWaits(t, *waits, []time.Duration{300 * time.Second})
}

func TestDeliverBackoffNeverShrinks(t *testing.T) {
	engine, waits := newTestEngine(nil)

	calls := 0
	outcome, _ := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		if calls == 1 {
			return NewDeliveryError(FailureTransientRateLimit, errors.New("429"))
		}
		return NewDeliveryError(FailureTransientTimeout, errors.New("timed out"))
	})

	if outcome != OutcomeExhausted {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	// second backoff would be 10s off the timeout ladder but must not drop
	// below the 60s already waited
	assertWaits(t, *waits, []time.Duration{60 * time.Second, 60 * time.Second})
}

func TestDeliverPermanentFailureStopsImmediately(t *testing.T) {
	engine, waits := newTestEngine(nil)

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		return NewDeliveryError(FailurePermanentNotFound, errors.New("chat not found"))
	})

	if outcome != OutcomePermanent {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomePermanent)
	}
	if calls != 1 {
		t.Errorf("attempt calls = %d, want 1", calls)
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none", *waits)
	}

	var de *DeliveryError
	if !errors.As(err, &de) || de.Kind != FailurePermanentNotFound {
		t.Errorf("error = %v, want permanent_not_found DeliveryError", err)
	}
}

func TestDeliverFatalFailureStopsImmediately(t *testing.T) {
	engine, _ := newTestEngine(nil)

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		return NewDeliveryError(FailureFatalAuth, errors.New("401"))
	})

	if outcome != OutcomeFatal {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeFatal)
	}
	if calls != 1 {
		t.Errorf("attempt calls = %d, want 1", calls)
	}

	var de *DeliveryError
	if !errors.As(err, &de) || de.Kind != FailureFatalAuth {
		t.Errorf("error = %v, want fatal_auth DeliveryError", err)
	}
}

func TestDeliverUnknownErrorRetriesAsTimeout(t *testing.T) {
	engine, waits := newTestEngine(nil)

	outcome, _ := engine.Deliver(context.Background(), "track", func(context.Context) error {
		return errors.New("something odd")
	})

	if outcome != OutcomeExhausted {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	assertWaits(t, *waits, []time.Duration{5 * time.Second, 10 * time.Second})
}

func TestDeliverCanceledDuringBackoff(t *testing.T) {
	engine := NewDeliveryEngine(DefaultDeliveryConfig(), ClassifyError, nil, zap.NewNop())
	engine.wait = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	calls := 0
	outcome, err := engine.Deliver(context.Background(), "track", func(context.Context) error {
		calls++
		return NewDeliveryError(FailureTransientTimeout, errors.New("timed out"))
	})

	if outcome != OutcomeCanceled {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeCanceled)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("attempt calls = %d, want 1", calls)
	}
}

func TestDeliverCanceledBeforeFirstAttempt(t *testing.T) {
	engine, _ := newTestEngine(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := engine.Deliver(ctx, "track", func(context.Context) error {
		t.Fatal("attempt should not run on a canceled context")
		return nil
	})

	if outcome != OutcomeCanceled {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeCanceled)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func assertWaits(t *testing.T, got, want []time.Duration) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("waits = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wait[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

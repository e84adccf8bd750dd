package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot"

	"tunedrop/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected core.FailureKind
	}{
		{"nil error", nil, core.FailureUnknown},
		{"plain error", errors.New("boom"), core.FailureUnknown},
		{"flood control sentinel", bot.ErrorTooManyRequests, core.FailureTransientRateLimit},
		{
			"flood control with retry after",
			&bot.TooManyRequestsError{Message: "retry later", RetryAfter: 42},
			core.FailureTransientRateLimit,
		},
		{"not found sentinel", bot.ErrorNotFound, core.FailurePermanentNotFound},
		{"forbidden sentinel", bot.ErrorForbidden, core.FailurePermanentUnauthorized},
		{"unauthorized sentinel", bot.ErrorUnauthorized, core.FailureFatalAuth},
		{
			"chat not found message",
			errors.New("telegram: Bad Request: chat not found"),
			core.FailurePermanentNotFound,
		},
		{
			"entity too large message",
			errors.New("telegram: Request Entity Too Large"),
			core.FailurePermanentTooLarge,
		},
		{
			"file too big message",
			errors.New("telegram: Bad Request: file is too big"),
			core.FailurePermanentTooLarge,
		},
		{
			"not enough rights message",
			errors.New("telegram: Bad Request: not enough rights to send audios"),
			core.FailurePermanentUnauthorized,
		},
		{
			"bot kicked message",
			errors.New("telegram: Forbidden: bot was kicked from the channel chat"),
			core.FailurePermanentUnauthorized,
		},
		{
			"wrapped sentinel",
			fmt.Errorf("sending audio: %w", bot.ErrorNotFound),
			core.FailurePermanentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.expected {
				t.Errorf("Classify() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWrapSendError(t *testing.T) {
	t.Run("unknown errors pass through untouched", func(t *testing.T) {
		plain := errors.New("boom")
		if got := wrapSendError(plain); got != plain {
			t.Errorf("wrapSendError() = %v, want the original error", got)
		}
	})

	t.Run("classified errors come back as delivery errors", func(t *testing.T) {
		wrapped := wrapSendError(bot.ErrorNotFound)

		var de *core.DeliveryError
		if !errors.As(wrapped, &de) {
			t.Fatalf("wrapSendError() = %T, want *core.DeliveryError", wrapped)
		}
		if de.Kind != core.FailurePermanentNotFound {
			t.Errorf("Kind = %v, want %v", de.Kind, core.FailurePermanentNotFound)
		}
		if !errors.Is(wrapped, bot.ErrorNotFound) {
			t.Error("wrapped error should unwrap to the original sentinel")
		}
	})

	t.Run("flood control carries the provider cooldown", func(t *testing.T) {
		wrapped := wrapSendError(&bot.TooManyRequestsError{Message: "retry later", RetryAfter: 42})

		var de *core.DeliveryError
		if !errors.As(wrapped, &de) {
			t.Fatalf("wrapSendError() = %T, want *core.DeliveryError", wrapped)
		}
		if de.Kind != core.FailureTransientRateLimit {
			t.Errorf("Kind = %v, want %v", de.Kind, core.FailureTransientRateLimit)
		}
		if de.RetryAfter != 42*time.Second {
			t.Errorf("RetryAfter = %v, want 42s", de.RetryAfter)
		}
	})
}

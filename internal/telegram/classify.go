package telegram

import (
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot"

	"tunedrop/internal/core"
)

// Classify maps a Bot API error to the failure taxonomy. Anything the Bot
// API does not explain stays unknown and falls through to the generic
// network classification.
func Classify(err error) core.FailureKind {
	if err == nil {
		return core.FailureUnknown
	}

	if bot.IsTooManyRequestsError(err) {
		return core.FailureTransientRateLimit
	}

	switch {
	case errors.Is(err, bot.ErrorTooManyRequests):
		return core.FailureTransientRateLimit
	case errors.Is(err, bot.ErrorNotFound):
		return core.FailurePermanentNotFound
	case errors.Is(err, bot.ErrorForbidden):
		return core.FailurePermanentUnauthorized
	case errors.Is(err, bot.ErrorUnauthorized):
		// an invalid token fails every send; stop the cycle
		return core.FailureFatalAuth
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "chat not found"):
		return core.FailurePermanentNotFound
	case strings.Contains(msg, "request entity too large"),
		strings.Contains(msg, "file is too big"):
		return core.FailurePermanentTooLarge
	case strings.Contains(msg, "not enough rights"),
		strings.Contains(msg, "bot was kicked"):
		return core.FailurePermanentUnauthorized
	}

	return core.ClassifyError(err)
}

// wrapSendError attaches the classification, and the provider's cooldown
// for flood control errors, so the delivery engine can act on them.
func wrapSendError(err error) error {
	kind := Classify(err)
	if kind == core.FailureUnknown {
		return err
	}

	de := &core.DeliveryError{Kind: kind, Err: err}

	var tmr *bot.TooManyRequestsError
	if errors.As(err, &tmr) && tmr.RetryAfter > 0 {
		de.RetryAfter = time.Duration(tmr.RetryAfter) * time.Second
	}
	return de
}

package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/logger"
)

// Notifier delivers a single availability event. Implementations may talk
// to a webhook, a message broker, or just the log.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// RetryPolicy controls redelivery of failed notifications. Delay doubles
// per attempt and is capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy retries three times starting at 200ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// notifyWithRetry delivers ev, retrying per policy. Returns the last error
// when all attempts fail or the context is cancelled.
func notifyWithRetry(ctx context.Context, n Notifier, policy RetryPolicy, ev Event) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(policy.delay(attempt - 1)):
			}
		}
		if lastErr = n.Notify(ctx, ev); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// LogNotifier writes availability events to the structured log. It is the
// default sink when no external notifier is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = logger.FromContext(context.Background())
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, ev Event) error {
	n.log.Info("availability changed",
		zap.String("referenceId", ev.Ref.String()),
		zap.String("name", ev.Name),
		zap.String("transition", string(ev.Transition)),
	)
	return nil
}

// Package alerts watches catalog snapshot swaps for availability flips on
// orderable entities and pushes an event per flip to a notifier. Events
// are queued on a bounded channel; when the queue is full new events are
// dropped and counted rather than blocking the catalog refresh.
package alerts

import (
	"context"

	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/logger"
	"github.com/localmart/khoj/internal/metrics"
)

const defaultQueueSize = 256

// Transition is the direction of an availability flip.
type Transition string

const (
	BackInStock Transition = "back_in_stock"
	OutOfStock  Transition = "out_of_stock"
)

// Event describes one availability flip between two snapshots.
type Event struct {
	Ref        entity.ReferenceID
	Name       string
	Transition Transition
}

// Monitor diffs consecutive snapshots and dispatches events. Wire Observe
// as the catalog service's swap hook and call Run once in a goroutine.
type Monitor struct {
	notifier Notifier
	policy   RetryPolicy
	queue    chan Event
}

func NewMonitor(notifier Notifier, policy RetryPolicy, queueSize int) *Monitor {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Monitor{
		notifier: notifier,
		policy:   policy,
		queue:    make(chan Event, queueSize),
	}
}

// Observe diffs old against new and enqueues one event per flip. old is
// nil on the first load; nothing to diff then.
func (m *Monitor) Observe(old, cur *entity.Snapshot) {
	if old == nil || cur == nil {
		return
	}
	for _, e := range cur.Entities() {
		if !e.Kind().Orderable() {
			continue
		}
		prev, ok := old.ByKindID(e.Kind(), e.ID())
		if !ok {
			continue
		}
		was, now := prev.Available(), e.Available()
		if was == now {
			continue
		}
		tr := OutOfStock
		if now {
			tr = BackInStock
		}
		m.enqueue(Event{Ref: e.Ref(), Name: e.Name(), Transition: tr})
	}
}

func (m *Monitor) enqueue(ev Event) {
	select {
	case m.queue <- ev:
	default:
		metrics.AlertsDroppedTotal.Inc()
	}
}

// Run consumes the queue until ctx is cancelled. Delivery failures after
// retries are logged and the event is discarded.
func (m *Monitor) Run(ctx context.Context) {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.queue:
			if err := notifyWithRetry(ctx, m.notifier, m.policy, ev); err != nil {
				log.Error("alert delivery failed",
					zap.String("referenceId", ev.Ref.String()),
					zap.Error(err),
				)
			}
		}
	}
}

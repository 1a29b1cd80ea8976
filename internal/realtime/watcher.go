// Package realtime reconciles server-pushed order mutations with the
// driver's view. The server is authoritative: pushed fields are merged
// unconditionally, statuses are canonicalized on arrival, and terminal
// pushes schedule the view's closing.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/ports"
)

// watcherBuffer bounds the outgoing event channel.
const watcherBuffer = 16

// EventKind classifies a reconciled view event.
type EventKind int

const (
	// Updated means pushed fields were merged; the view re-renders.
	Updated EventKind = iota
	// ClosingRejected means the mission was cancelled externally; the view
	// shows the notice and closes after CloseAfter.
	ClosingRejected
	// ClosingDelivered means the mission was completed externally; the view
	// shows the success notice and closes after CloseAfter.
	ClosingDelivered
)

// Event is one reconciled change delivered to the mission view.
type Event struct {
	OrderID kernel.UUID
	Kind    EventKind

	// Status is the canonicalized status after the merge.
	Status order.Status

	// Fields carries the merged raw columns for the view to re-render from.
	Fields map[string]any

	// CloseAfter is non-zero for closing events.
	CloseAfter time.Duration
}

// Watcher follows one order's change feed and reconciles pushed mutations
// into view events. Each opened mission view creates its own Watcher with a
// fresh feed subscription.
type Watcher struct {
	feed       ports.OrderFeed
	reconciler *Reconciler
	logger     *slog.Logger

	mu     sync.Mutex
	sub    ports.FeedSubscription
	closed bool

	events chan Event
}

// NewWatcher creates a watcher over the given feed.
func NewWatcher(feed ports.OrderFeed, logger *slog.Logger) *Watcher {
	return &Watcher{
		feed:       feed,
		reconciler: NewReconciler(),
		logger:     logger.With("component", "order_watcher"),
		events:     make(chan Event, watcherBuffer),
	}
}

// Watch opens a fresh subscription for the order and starts reconciling.
// The subscription identity is new on every call; stale subscriptions from
// an earlier view are never reused.
func (w *Watcher) Watch(ctx context.Context, orderID kernel.UUID) error {
	sub, err := w.feed.SubscribeOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("subscribe order %s: %w", orderID.String(), err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		sub.Close()
		return fmt.Errorf("watcher is closed")
	}
	w.sub = sub
	w.mu.Unlock()

	go w.run(ctx, sub)
	return nil
}

// Events returns the reconciled event stream. Closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// MarkLocalWrite records that this device just persisted the given
// transition. The matching pushed mutation arriving within the echo window
// is absorbed silently.
func (w *Watcher) MarkLocalWrite(orderID kernel.UUID, status order.Status) {
	w.reconciler.MarkLocalWrite(orderID, status)
}

// Close detaches from the feed and closes the event stream.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true

	if w.sub != nil {
		w.sub.Close()
	}
	close(w.events)
}

func (w *Watcher) run(ctx context.Context, sub ports.FeedSubscription) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case mutation, ok := <-sub.Events():
			if !ok {
				// The feed shut down underneath us; close the event stream
				// so the consuming view unblocks.
				w.Close()
				return
			}
			w.reconcile(ctx, mutation)
		}
	}
}

func (w *Watcher) reconcile(ctx context.Context, mutation ports.OrderMutation) {
	event, ok := w.reconciler.Reconcile(mutation)
	if !ok {
		w.logger.DebugContext(ctx, "Absorbed echo of local write",
			"order", mutation.OrderID.String())
		return
	}

	w.emit(ctx, event)
}

// emit sends under the lock so Close cannot close the channel between the
// closed check and the send.
func (w *Watcher) emit(ctx context.Context, event Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.events <- event:
	default:
		w.logger.WarnContext(ctx, "Dropping event for stalled view",
			"order", event.OrderID.String())
	}
}

package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"driverapp/internal/core/ports"
)

// listDebounce coalesces bursts of change notifications into one refetch.
// A multi-row dispatch assignment fires many notifications back to back;
// refetching once per burst is enough.
const listDebounce = 500 * time.Millisecond

// ListSync keeps the mission list fresh: it subscribes to the whole order
// change feed and invokes the refetch callback, debounced, whenever anything
// changes. The callback reloads the list through the query side; ListSync
// itself never interprets mutation contents.
type ListSync struct {
	feed    ports.OrderFeed
	refetch func(ctx context.Context)
	logger  *slog.Logger

	mu    sync.Mutex
	sub   ports.FeedSubscription
	timer *time.Timer
	done  bool
}

// NewListSync creates a list synchronizer. refetch is called from a
// background goroutine after each debounced burst.
func NewListSync(feed ports.OrderFeed, refetch func(ctx context.Context), logger *slog.Logger) *ListSync {
	return &ListSync{
		feed:    feed,
		refetch: refetch,
		logger:  logger.With("component", "list_sync"),
	}
}

// Start subscribes to the feed and begins debouncing. It returns once the
// subscription is established.
func (l *ListSync) Start(ctx context.Context) error {
	sub, err := l.feed.SubscribeAll(ctx)
	if err != nil {
		return fmt.Errorf("subscribe order feed: %w", err)
	}

	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		sub.Close()
		return fmt.Errorf("list sync is stopped")
	}
	l.sub = sub
	l.mu.Unlock()

	go l.run(ctx, sub)
	return nil
}

// Stop detaches from the feed and cancels any pending refetch.
func (l *ListSync) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return
	}
	l.done = true

	if l.timer != nil {
		l.timer.Stop()
	}
	if l.sub != nil {
		l.sub.Close()
	}
}

func (l *ListSync) run(ctx context.Context, sub ports.FeedSubscription) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
			l.schedule(ctx)
		}
	}
}

// schedule arms the debounce timer, extending it if one is already pending
// so the refetch fires once per quiet period.
func (l *ListSync) schedule(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return
	}

	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(listDebounce, func() {
		l.mu.Lock()
		done := l.done
		l.mu.Unlock()
		if done || ctx.Err() != nil {
			return
		}

		l.logger.DebugContext(ctx, "Refetching mission list after change burst")
		l.refetch(ctx)
	})
}

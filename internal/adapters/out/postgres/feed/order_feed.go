// Package feed implements the order change feed over Postgres LISTEN/NOTIFY.
// A trigger on the orders table is expected to NOTIFY the orders_changed
// channel with a JSON payload of the mutated row's id and changed columns.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/ports"

	"github.com/lib/pq"
)

// channelName is the NOTIFY channel carrying order mutations.
const channelName = "orders_changed"

const (
	minReconnectInterval = 2 * time.Second
	maxReconnectInterval = time.Minute

	// subscriberBuffer bounds each subscription channel. A subscriber that
	// stops draining loses events instead of blocking the dispatch loop.
	subscriberBuffer = 16
)

// notifyPayload is the JSON body of one orders_changed notification.
type notifyPayload struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// PqOrderFeed implements ports.OrderFeed on a dedicated pq listener
// connection. One listener serves all subscriptions; mutations fan out to
// every subscription whose filter matches.
type PqOrderFeed struct {
	dsn    string
	logger *slog.Logger

	mu       sync.Mutex
	listener *pq.Listener
	subs     map[kernel.UUID]*subscription
	closed   bool
}

// NewPqOrderFeed creates a feed for the given connection string.
// Call Start before subscribing.
func NewPqOrderFeed(dsn string, logger *slog.Logger) *PqOrderFeed {
	return &PqOrderFeed{
		dsn:    dsn,
		logger: logger.With("component", "order_feed"),
		subs:   make(map[kernel.UUID]*subscription),
	}
}

// Start opens the listener connection and begins dispatching notifications.
// The pq listener reconnects on its own; a dropped connection loses the
// events sent while down, which is why consumers refetch after resubscribe.
func (f *PqOrderFeed) Start(ctx context.Context) error {
	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				f.logger.WarnContext(ctx, "Listener event", "event", event, "error", err)
			}
		})

	if err := listener.Listen(channelName); err != nil {
		_ = listener.Close()
		return fmt.Errorf("listen on %s: %w", channelName, err)
	}

	f.mu.Lock()
	f.listener = listener
	f.mu.Unlock()

	go f.dispatch(ctx, listener)
	return nil
}

// Close shuts the listener down and closes every open subscription.
func (f *PqOrderFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	for _, sub := range f.subs {
		sub.closeLocked()
	}
	f.subs = make(map[kernel.UUID]*subscription)

	if f.listener != nil {
		return f.listener.Close()
	}
	return nil
}

// SubscribeOrder opens a feed filtered to a single order. Every call returns
// a subscription with a fresh identity; identities are never reused.
func (f *PqOrderFeed) SubscribeOrder(_ context.Context, orderID kernel.UUID) (ports.FeedSubscription, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return f.addSubscription(&orderID)
}

// SubscribeAll opens an unfiltered, whole-table feed.
func (f *PqOrderFeed) SubscribeAll(_ context.Context) (ports.FeedSubscription, error) {
	return f.addSubscription(nil)
}

func (f *PqOrderFeed) addSubscription(filter *kernel.UUID) (*subscription, error) {
	sub := &subscription{
		id:     kernel.NewUUID(),
		filter: filter,
		events: make(chan ports.OrderMutation, subscriberBuffer),
		feed:   f,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, fmt.Errorf("order feed is closed")
	}
	f.subs[sub.id] = sub
	return sub, nil
}

func (f *PqOrderFeed) removeSubscription(id kernel.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[id]; ok {
		delete(f.subs, id)
		sub.closeLocked()
	}
}

func (f *PqOrderFeed) dispatch(ctx context.Context, listener *pq.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// nil notification signals a reconnect.
				continue
			}
			f.deliver(ctx, n.Extra)
		}
	}
}

func (f *PqOrderFeed) deliver(ctx context.Context, raw string) {
	var payload notifyPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		f.logger.WarnContext(ctx, "Undecodable notification", "error", err)
		return
	}

	orderID, err := kernel.UUIDFromString(payload.ID)
	if err != nil {
		f.logger.WarnContext(ctx, "Notification with invalid order id", "id", payload.ID)
		return
	}

	rawStatus := ""
	if s, ok := payload.Fields["status"].(string); ok {
		rawStatus = s
	}

	mutation := ports.OrderMutation{
		OrderID:   orderID,
		Fields:    payload.Fields,
		RawStatus: rawStatus,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.filter != nil && !sub.filter.IsEqual(orderID) {
			continue
		}
		select {
		case sub.events <- mutation:
		default:
			f.logger.WarnContext(ctx, "Dropping event for slow subscriber", "subscription", sub.id.String())
		}
	}
}

// subscription is one open feed channel.
type subscription struct {
	id     kernel.UUID
	filter *kernel.UUID
	events chan ports.OrderMutation
	feed   *PqOrderFeed

	closeOnce sync.Once
}

// ID returns the unique identity of this subscription.
func (s *subscription) ID() kernel.UUID {
	return s.id
}

// Events returns the mutation channel.
func (s *subscription) Events() <-chan ports.OrderMutation {
	return s.events
}

// Close detaches the subscription from the feed. Safe to call repeatedly.
func (s *subscription) Close() {
	s.feed.removeSubscription(s.id)
}

// closeLocked closes the event channel. Caller holds the feed mutex.
func (s *subscription) closeLocked() {
	s.closeOnce.Do(func() {
		close(s.events)
	})
}

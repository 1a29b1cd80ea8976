package ports

import (
	"context"

	"driverapp/internal/core/domain/model/kernel"
)

// OrderMutation is one server-pushed change to an order record.
type OrderMutation struct {
	// OrderID identifies the mutated order.
	OrderID kernel.UUID

	// Fields carries the pushed column values keyed by column name.
	// The server is authoritative: consumers merge these unconditionally.
	Fields map[string]any

	// RawStatus is the pushed status string before canonicalization, empty
	// when the mutation did not touch the status column.
	RawStatus string
}

// FeedSubscription is one open change-feed channel. Each opened mission view
// gets a fresh subscription identity; subscriptions are never reused across
// sessions.
type FeedSubscription interface {
	// ID returns the unique identity of this subscription.
	ID() kernel.UUID

	// Events returns the mutation channel. It is closed on Close and no
	// buffered events are replayed afterwards.
	Events() <-chan OrderMutation

	// Close releases the channel. Safe to call more than once.
	Close()
}

// OrderFeed exposes the backing store's change notifications.
type OrderFeed interface {
	// SubscribeOrder opens a feed filtered to a single order id.
	SubscribeOrder(ctx context.Context, orderID kernel.UUID) (FeedSubscription, error)

	// SubscribeAll opens an unfiltered, whole-table feed powering list
	// views through debounced refetches.
	SubscribeAll(ctx context.Context) (FeedSubscription, error)
}

package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"driverapp/internal/core/ports"
	"driverapp/internal/realtime"
)

// Event types pushed to driver devices.
const (
	EventMissionUpdated   = "mission.updated"
	EventMissionRejected  = "mission.rejected"
	EventMissionDelivered = "mission.delivered"

	// EventMissionsRefresh tells the device to refetch its mission list.
	EventMissionsRefresh = "missions.refresh"
)

// missionPayload is the body of every mission event.
type missionPayload struct {
	OrderID string         `json:"orderId"`
	Status  string         `json:"status,omitempty"`
	Step    int            `json:"step,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`

	// CloseAfterMs is how long the device shows the closing notice before
	// navigating away. Set on rejected and delivered events only.
	CloseAfterMs int `json:"closeAfterMs,omitempty"`
}

// Pusher bridges the order change feed to the hub: every mutation on an
// assigned order is pushed to its driver's room. Mutations on unassigned
// orders are dropped; no driver is watching them. Echoes of transitions this
// process persisted are absorbed by the reconciler, since the device that
// caused them already holds the result.
type Pusher struct {
	feed       ports.OrderFeed
	orders     ports.OrderRepository
	hub        *Hub
	reconciler *realtime.Reconciler
	logger     *slog.Logger

	sub ports.FeedSubscription
}

// NewPusher creates a pusher over the given feed and hub. The repository is
// used to resolve which driver an order belongs to; the reconciler must be
// the same instance the write path marks local transitions on.
func NewPusher(
	feed ports.OrderFeed,
	orders ports.OrderRepository,
	hub *Hub,
	reconciler *realtime.Reconciler,
	logger *slog.Logger,
) *Pusher {
	return &Pusher{
		feed:       feed,
		orders:     orders,
		hub:        hub,
		reconciler: reconciler,
		logger:     logger.With("component", "ws_pusher"),
	}
}

// Start subscribes to the whole feed and begins pushing.
func (p *Pusher) Start(ctx context.Context) error {
	sub, err := p.feed.SubscribeAll(ctx)
	if err != nil {
		return fmt.Errorf("subscribe order feed: %w", err)
	}
	p.sub = sub

	go p.run(ctx, sub)
	return nil
}

// Stop detaches from the feed.
func (p *Pusher) Stop() {
	if p.sub != nil {
		p.sub.Close()
	}
}

func (p *Pusher) run(ctx context.Context, sub ports.FeedSubscription) {
	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case mutation, ok := <-sub.Events():
			if !ok {
				return
			}
			p.push(ctx, mutation)
		}
	}
}

func (p *Pusher) push(ctx context.Context, mutation ports.OrderMutation) {
	reconciled, ok := p.reconciler.Reconcile(mutation)
	if !ok {
		p.logger.DebugContext(ctx, "Absorbed echo of local write",
			"order", mutation.OrderID.String())
		return
	}

	mission, err := p.orders.Get(ctx, mutation.OrderID)
	if err != nil {
		p.logger.WarnContext(ctx, "Cannot resolve mutated order",
			"order", mutation.OrderID.String(), "error", err)
		return
	}

	driverID := mission.Driver()
	if driverID == nil {
		return
	}

	payload := missionPayload{
		OrderID: mutation.OrderID.String(),
		Fields:  reconciled.Fields,
	}
	if mutation.RawStatus != "" {
		payload.Status = reconciled.Status.WireLabel()
		payload.Step = reconciled.Status.Step()
	}

	eventType := EventMissionUpdated
	switch reconciled.Kind {
	case realtime.ClosingRejected:
		eventType = EventMissionRejected
		payload.CloseAfterMs = int(reconciled.CloseAfter / time.Millisecond)
	case realtime.ClosingDelivered:
		eventType = EventMissionDelivered
		payload.CloseAfterMs = int(reconciled.CloseAfter / time.Millisecond)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "Cannot encode mission event", "error", err)
		return
	}

	p.hub.BroadcastToDriver(*driverID, Event{Type: eventType, Payload: body})
}

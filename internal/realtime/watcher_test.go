package realtime_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/ports"
	"driverapp/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscription struct {
	id     kernel.UUID
	events chan ports.OrderMutation
	closed bool
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{id: kernel.NewUUID(), events: make(chan ports.OrderMutation, 8)}
}

func (s *fakeSubscription) ID() kernel.UUID                    { return s.id }
func (s *fakeSubscription) Events() <-chan ports.OrderMutation { return s.events }
func (s *fakeSubscription) Close()                             { s.closed = true }

type fakeFeed struct {
	sub        *fakeSubscription
	subscribed int
}

func (f *fakeFeed) SubscribeOrder(_ context.Context, _ kernel.UUID) (ports.FeedSubscription, error) {
	f.subscribed++
	return f.sub, nil
}

func (f *fakeFeed) SubscribeAll(_ context.Context) (ports.FeedSubscription, error) {
	f.subscribed++
	return f.sub, nil
}

func watchedOrder(t *testing.T) (*realtime.Watcher, *fakeSubscription, kernel.UUID) {
	t.Helper()
	sub := newFakeSubscription()
	feed := &fakeFeed{sub: sub}
	watcher := realtime.NewWatcher(feed, slog.Default())
	t.Cleanup(watcher.Close)

	orderID := kernel.NewUUID()
	require.NoError(t, watcher.Watch(context.Background(), orderID))
	return watcher, sub, orderID
}

func nextEvent(t *testing.T, watcher *realtime.Watcher) realtime.Event {
	t.Helper()
	select {
	case event := <-watcher.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return realtime.Event{}
	}
}

func TestWatcher_FieldUpdate(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	sub.events <- ports.OrderMutation{
		OrderID: orderID,
		Fields:  map[string]any{"note": "sonnez deux fois"},
	}

	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.Updated, event.Kind)
	assert.Equal(t, orderID, event.OrderID)
	assert.Equal(t, "sonnez deux fois", event.Fields["note"])
	assert.Zero(t, event.CloseAfter)
}

func TestWatcher_RejectionClosesView(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	sub.events <- ports.OrderMutation{
		OrderID:   orderID,
		RawStatus: "annulée",
	}

	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.ClosingRejected, event.Kind)
	assert.Equal(t, order.Rejected, event.Status)
	assert.Equal(t, 3*time.Second, event.CloseAfter)
}

func TestWatcher_ExternalDeliveryClosesView(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	sub.events <- ports.OrderMutation{
		OrderID:   orderID,
		RawStatus: "livrée",
	}

	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.ClosingDelivered, event.Kind)
	assert.Equal(t, order.Completed, event.Status)
	assert.Equal(t, 1500*time.Millisecond, event.CloseAfter)
}

func TestWatcher_LocalWriteEchoAbsorbed(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	// The device just persisted Completed itself; the push is an echo.
	watcher.MarkLocalWrite(orderID, order.Completed)
	sub.events <- ports.OrderMutation{OrderID: orderID, RawStatus: "COMPLETED"}

	// A later field-only mutation still comes through, proving the echo was
	// absorbed rather than the channel stuck.
	sub.events <- ports.OrderMutation{OrderID: orderID, Fields: map[string]any{"note": "x"}}

	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.Updated, event.Kind)
	assert.Equal(t, "x", event.Fields["note"])
}

func TestWatcher_EchoMarkIsConsumedOnce(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	watcher.MarkLocalWrite(orderID, order.Completed)
	sub.events <- ports.OrderMutation{OrderID: orderID, RawStatus: "COMPLETED"}
	sub.events <- ports.OrderMutation{OrderID: orderID, RawStatus: "COMPLETED"}

	// The second identical push is genuine and produces a closing event.
	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.ClosingDelivered, event.Kind)
}

func TestWatcher_StatusUpdateAdvancesStep(t *testing.T) {
	watcher, sub, orderID := watchedOrder(t)

	sub.events <- ports.OrderMutation{OrderID: orderID, RawStatus: "en_route"}

	event := nextEvent(t, watcher)
	assert.Equal(t, realtime.Updated, event.Kind)
	assert.Equal(t, order.Progression, event.Status)
	assert.Equal(t, 2, event.Status.Step())
}

func TestWatcher_FeedShutdownClosesEventStream(t *testing.T) {
	watcher, sub, _ := watchedOrder(t)

	// The feed closing its side must propagate; a consumer ranging over
	// Events must not block forever.
	close(sub.events)

	select {
	case _, open := <-watcher.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("event stream stayed open after the feed shut down")
	}
}

func TestWatcher_CloseDetachesSubscription(t *testing.T) {
	sub := newFakeSubscription()
	feed := &fakeFeed{sub: sub}
	watcher := realtime.NewWatcher(feed, slog.Default())
	require.NoError(t, watcher.Watch(context.Background(), kernel.NewUUID()))

	watcher.Close()

	assert.True(t, sub.closed)
	_, open := <-watcher.Events()
	assert.False(t, open)
}

package realtime

import (
	"sync"
	"time"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/ports"
)

const (
	// rejectedCloseDelay is how long the rejection notice stays on screen
	// before the view navigates away.
	rejectedCloseDelay = 3 * time.Second

	// deliveredCloseDelay applies when a completion arrives from outside,
	// typically the dispatcher marking the order delivered.
	deliveredCloseDelay = 1500 * time.Millisecond

	// localEchoWindow is how long a locally persisted transition suppresses
	// the matching pushed event. The push is the echo of our own write and
	// reacting to it would double-handle the transition.
	localEchoWindow = 5 * time.Second
)

// Reconciler canonicalizes pushed order mutations and absorbs the echoes of
// transitions this process persisted itself. The write path marks each
// persisted transition; the push path classifies incoming mutations against
// those marks.
type Reconciler struct {
	mu          sync.Mutex
	localWrites map[string]time.Time
}

// NewReconciler creates a reconciler with an empty echo ledger.
func NewReconciler() *Reconciler {
	return &Reconciler{localWrites: make(map[string]time.Time)}
}

// MarkLocalWrite records that this process just persisted the given
// transition. The matching pushed mutation arriving within the echo window
// is absorbed instead of re-delivered.
func (r *Reconciler) MarkLocalWrite(orderID kernel.UUID, status order.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localWrites[echoKey(orderID, status)] = time.Now()
}

// Reconcile classifies one pushed mutation into a view event. The second
// return value is false when the mutation is the echo of a local write and
// must be dropped.
func (r *Reconciler) Reconcile(mutation ports.OrderMutation) (Event, bool) {
	event := Event{
		OrderID: mutation.OrderID,
		Kind:    Updated,
		Fields:  mutation.Fields,
	}

	if mutation.RawStatus == "" {
		return event, true
	}

	status := order.ParseStatus(mutation.RawStatus)
	event.Status = status

	if r.consumeLocalEcho(mutation.OrderID, status) {
		return Event{}, false
	}

	switch {
	case status.IsRejectedClass():
		event.Kind = ClosingRejected
		event.CloseAfter = rejectedCloseDelay
	case status.IsSuccessTerminal():
		event.Kind = ClosingDelivered
		event.CloseAfter = deliveredCloseDelay
	}

	return event, true
}

// consumeLocalEcho checks and clears the echo mark for one transition. Each
// mark absorbs at most one push; a second identical push is genuine.
func (r *Reconciler) consumeLocalEcho(orderID kernel.UUID, status order.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := echoKey(orderID, status)
	marked, ok := r.localWrites[key]
	if !ok {
		return false
	}
	delete(r.localWrites, key)
	return time.Since(marked) <= localEchoWindow
}

func echoKey(orderID kernel.UUID, status order.Status) string {
	return orderID.String() + "|" + status.String()
}

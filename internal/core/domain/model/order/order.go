package order

import (
	"errors"
	"strings"
	"time"

	"driverapp/internal/core/domain/model/cart"
	"driverapp/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the RestoreOrder factory. Orders are created upstream;
	// the driver side only reconstructs them from persistence.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// confirmationTokenPrefix is the fixed grammar of the driver-scan token.
// The full token is this prefix followed by the order id, compared
// case-insensitively after trimming.
const confirmationTokenPrefix = "CONFIRM-ORDER-ID-"

// StatusEntry is one element of the append-only status history.
type StatusEntry struct {
	// Label is the driver-facing label recorded at transition time.
	Label string `json:"status"`

	// Time is the UTC instant the transition was recorded.
	Time time.Time `json:"time"`
}

// Order is the driver-side view of a delivery mission. It is the aggregate
// root that owns the authoritative status of a single order and validates
// every transition the driver can cause.
//
// Invariants:
//   - statusHistory is append-only, insertion order preserved
//   - at most one non-terminal status is active at a time
//   - orders are never created here, only restored from persistence and
//     transitioned
type Order struct {
	id kernel.UUID

	// category is the order type (pharmacy, gastronomy, shopping, errands).
	category string

	// storeName is the legacy single-store field, kept for orders that
	// predate structured cart payloads.
	storeName string

	clientName    string
	clientAddress string
	clientPhone   string

	// destination is the client drop-off point, when geocoded.
	destination *kernel.GeoPoint

	// distance is the upstream-computed distance estimate, free text.
	distance string

	totalPrice    decimal.Decimal
	deliveryFee   decimal.Decimal
	paymentMethod string
	note          string

	// items is the raw cart payload. Multi-store detection is recomputed
	// from it on every read, never persisted.
	items []cart.Item

	status   Status
	history  []StatusEntry
	archived bool

	// driverID is the assigned driver reference.
	driverID *kernel.UUID

	isConstructed bool
}

// Restore carries the persisted fields needed to reconstruct an Order.
type Restore struct {
	Category      string
	StoreName     string
	ClientName    string
	ClientAddress string
	ClientPhone   string
	Destination   *kernel.GeoPoint
	Distance      string
	TotalPrice    decimal.Decimal
	DeliveryFee   decimal.Decimal
	PaymentMethod string
	Note          string
	Items         []cart.Item
	Status        Status
	History       []StatusEntry
	Archived      bool
	DriverID      *kernel.UUID
}

// RestoreOrder reconstructs an Order aggregate from persistence.
// The id and status must be valid; everything else is taken as stored.
// History is copied so the aggregate alone controls appends.
func RestoreOrder(id kernel.UUID, r Restore) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := r.Status.Validate(); err != nil {
		return nil, err
	}

	history := make([]StatusEntry, len(r.History))
	copy(history, r.History)

	return &Order{
		id:            id,
		category:      r.Category,
		storeName:     r.StoreName,
		clientName:    r.ClientName,
		clientAddress: r.ClientAddress,
		clientPhone:   r.ClientPhone,
		destination:   r.Destination,
		distance:      r.Distance,
		totalPrice:    r.TotalPrice,
		deliveryFee:   r.DeliveryFee,
		paymentMethod: r.PaymentMethod,
		note:          r.Note,
		items:         append([]cart.Item(nil), r.Items...),
		status:        r.Status,
		history:       history,
		archived:      r.Archived,
		driverID:      r.DriverID,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was constructed through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Category returns the order type category.
func (o *Order) Category() string {
	return o.category
}

// StoreName returns the legacy single-store name field.
// Empty for orders carrying a structured cart payload.
func (o *Order) StoreName() string {
	return o.storeName
}

// ClientName returns the client identity.
func (o *Order) ClientName() string {
	return o.clientName
}

// ClientAddress returns the client address.
func (o *Order) ClientAddress() string {
	return o.clientAddress
}

// ClientPhone returns the client phone number.
func (o *Order) ClientPhone() string {
	return o.clientPhone
}

// Destination returns the client drop-off point, or nil when not geocoded.
func (o *Order) Destination() *kernel.GeoPoint {
	return o.destination
}

// Distance returns the upstream distance estimate.
func (o *Order) Distance() string {
	return o.distance
}

// TotalPrice returns the summed product price of the order.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.totalPrice
}

// DeliveryFee returns the delivery fee.
func (o *Order) DeliveryFee() decimal.Decimal {
	return o.deliveryFee
}

// PaymentMethod returns the payment method.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// Note returns the free-text order note.
func (o *Order) Note() string {
	return o.note
}

// Items returns a copy of the raw cart payload.
func (o *Order) Items() []cart.Item {
	return append([]cart.Item(nil), o.items...)
}

// Status returns the current canonical status.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history.
func (o *Order) History() []StatusEntry {
	return append([]StatusEntry(nil), o.history...)
}

// Archived reports the archival flag.
func (o *Order) Archived() bool {
	return o.archived
}

// Driver returns the assigned driver's ID, or nil when unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Step returns the on-screen step (1..3) derived from the canonical status.
func (o *Order) Step() int {
	return o.status.Step()
}

// IsTerminal reports whether the order is in a terminal state.
// A terminal order is never opened for editing.
func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// ConfirmationToken returns the deterministic driver-scan token for this
// order: "CONFIRM-ORDER-ID-<orderId>", uppercased.
func (o *Order) ConfirmationToken() string {
	return confirmationTokenPrefix + strings.ToUpper(o.id.String())
}

// MatchesConfirmation reports whether a scanned payload matches the
// confirmation token. Comparison trims whitespace and is case-insensitive.
func (o *Order) MatchesConfirmation(scanned string) bool {
	return strings.ToUpper(strings.TrimSpace(scanned)) == o.ConfirmationToken()
}

// Accept transitions the order from Pending to Treatment when the driver
// takes the mission, appending a history entry.
func (o *Order) Accept() error {
	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.applyTransition(newStatus)
	return nil
}

// Depart transitions the order from Treatment to Progression when the driver
// leaves the store(s), appending a history entry. No external confirmation
// is required for this transition.
func (o *Order) Depart() error {
	newStatus, err := o.status.Depart()
	if err != nil {
		return err
	}

	o.applyTransition(newStatus)
	return nil
}

// Complete transitions the order from Progression to Completed, appending a
// history entry. Callers must have passed the delivery confirmation protocol
// first; this method only enforces the state machine.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.applyTransition(newStatus)
	return nil
}

// Reject transitions the order to Rejected. Only externally-driven events
// (dispatcher cancellation, store unavailability) use it.
func (o *Order) Reject() error {
	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.applyTransition(newStatus)
	return nil
}

// applyTransition sets the new status and appends the matching history
// entry. History is append-only; entries are never rewritten.
func (o *Order) applyTransition(newStatus Status) {
	o.status = newStatus
	o.history = append(o.history, StatusEntry{
		Label: newStatus.HistoryLabel(),
		Time:  time.Now().UTC(),
	})
}

package queries

import (
	"errors"

	"driverapp/internal/core/domain/model/cart"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/domain/services"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetMissionQueryIsNotConstructed = errors.New(
	"GetMissionQuery must be created via NewGetMissionQuery constructor",
)

// GetMissionQuery retrieves the full mission view of a single order:
// canonical status, step, cart breakdown per store, route link, and the
// confirmation token the driver will match against the client's code.
type GetMissionQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetMissionQuery creates a query for one mission view.
func NewGetMissionQuery(orderID kernel.UUID) (GetMissionQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetMissionQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	return GetMissionQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the requested order identifier.
func (q GetMissionQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetMissionQuery) Validate() error {
	return q.guard.Validate(ErrGetMissionQueryIsNotConstructed)
}

// GetMissionQueryResponse is the assembled mission view.
type GetMissionQueryResponse struct {
	ID            kernel.UUID
	Category      string
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

	// Status is the canonical status; Step the on-screen step (1..3).
	Status order.Status
	Step   int

	History []order.StatusEntry

	// ConfirmationToken is the literal the scanned client code must match.
	ConfirmationToken string

	// Detection is the per-store cart analysis, enriched from the store
	// directory.
	Detection services.Detection

	// RouteURL is the composed multi-stop navigation link; HasRoute is false
	// when neither stores nor client carry coordinates.
	RouteURL string
	HasRoute bool

	// Terminal marks a mission no driver action can move further. Rejected
	// and Delivered split the terminal class for the caller: a rejected
	// mission is closed with an apology, a delivered one with a success
	// screen.
	Terminal  bool
	Rejected  bool
	Delivered bool
}

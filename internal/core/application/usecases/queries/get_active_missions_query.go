package queries

import (
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetActiveMissionsQueryIsNotConstructed = errors.New(
	"GetActiveMissionsQuery must be created via NewGetActiveMissionsQuery constructor",
)

// GetActiveMissionsQuery retrieves the driver's open workload: every
// non-terminal, non-archived mission assigned to them. Terminal and archived
// missions never appear here regardless of what the raw status column says.
type GetActiveMissionsQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveMissionsQuery creates a query for a driver's active missions.
func NewGetActiveMissionsQuery(driverID kernel.UUID) (GetActiveMissionsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetActiveMissionsQuery{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return GetActiveMissionsQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the driver whose missions are requested.
func (q GetActiveMissionsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// Validate ensures the query was created through the constructor.
func (q GetActiveMissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveMissionsQueryIsNotConstructed)
}

// GetActiveMissionsQueryResponse is one row of the driver's mission list.
// The list stays lightweight: per-store detection here runs without
// directory enrichment, which is deferred to the single mission view.
type GetActiveMissionsQueryResponse struct {
	ID            kernel.UUID
	Category      string
	ClientName    string
	ClientAddress string
	Distance      string
	TotalPrice    decimal.Decimal
	DeliveryFee   decimal.Decimal

	Status order.Status
	Step   int

	IsMultiStore bool
	StoreCount   int
	StoreNames   []string
}

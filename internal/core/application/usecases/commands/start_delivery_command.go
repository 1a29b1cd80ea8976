package commands

import (
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand moves a mission from treatment to progression when the
// driver leaves the store with the goods. No scan or confirmation is required
// for this transition.
type StartDeliveryCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand creates a command to start the delivery leg.
func NewStartDeliveryCommand(orderID, driverID kernel.UUID) (StartDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if err := driverID.Validate(); err != nil {
		return StartDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return StartDeliveryCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order identifier.
func (c StartDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the acting driver identifier.
func (c StartDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

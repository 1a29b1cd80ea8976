package commands

import (
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand finalizes a mission after the driver scanned the
// client's confirmation code. It carries the raw scanned payload; the match
// against the expected token happens in the handler against the loaded order.
type CompleteDeliveryCommand struct {
	orderID     kernel.UUID
	driverID    kernel.UUID
	scannedCode string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to confirm a delivery.
// The scanned code is kept verbatim; trimming and case folding are part of
// the match, not of command construction.
func NewCompleteDeliveryCommand(orderID, driverID kernel.UUID, scannedCode string) (CompleteDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if err := driverID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	if scannedCode == "" {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredError("scannedCode")
	}

	return CompleteDeliveryCommand{
		orderID:     orderID,
		driverID:    driverID,
		scannedCode: scannedCode,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order identifier.
func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the acting driver identifier.
func (c CompleteDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// ScannedCode returns the raw scanned payload.
func (c CompleteDeliveryCommand) ScannedCode() string {
	return c.scannedCode
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

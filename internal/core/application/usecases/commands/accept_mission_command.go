package commands

import (
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"
)

var ErrAcceptMissionCommandIsNotConstructed = errors.New(
	"AcceptMissionCommand must be created via NewAcceptMissionCommand constructor",
)

// AcceptMissionCommand moves an assigned mission into treatment when the
// driver takes it. This is the first driver-caused transition of the
// lifecycle; the order itself was created and assigned upstream.
//
// Example:
//
//	cmd, err := NewAcceptMissionCommand(orderID, driverID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type AcceptMissionCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptMissionCommand creates a command to accept a mission.
// Both identifiers must be valid UUIDs.
func NewAcceptMissionCommand(orderID, driverID kernel.UUID) (AcceptMissionCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptMissionCommand{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if err := driverID.Validate(); err != nil {
		return AcceptMissionCommand{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return AcceptMissionCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order identifier.
func (c AcceptMissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the acting driver identifier.
func (c AcceptMissionCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Validate ensures the command was created through the constructor.
func (c AcceptMissionCommand) Validate() error {
	return c.guard.Validate(ErrAcceptMissionCommandIsNotConstructed)
}

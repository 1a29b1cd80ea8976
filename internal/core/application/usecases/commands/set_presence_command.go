package commands

import (
	"errors"

	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/pkg/guard"
)

var ErrSetPresenceCommandIsNotConstructed = errors.New(
	"SetPresenceCommand must be created via NewSetPresenceCommand constructor",
)

// SetPresenceCommand flips a driver's availability state. The raw presence
// string is normalized at construction time; anything that is not an online
// marker maps to offline.
type SetPresenceCommand struct {
	driverID kernel.UUID
	presence driver.Presence

	guard guard.ConstructorGuard
}

// NewSetPresenceCommand creates a command to update driver availability.
func NewSetPresenceCommand(driverID kernel.UUID, rawPresence string) (SetPresenceCommand, error) {
	if err := driverID.Validate(); err != nil {
		return SetPresenceCommand{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return SetPresenceCommand{
		driverID: driverID,
		presence: driver.ParsePresence(rawPresence),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the target driver identifier.
func (c SetPresenceCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Presence returns the normalized availability state to persist.
func (c SetPresenceCommand) Presence() driver.Presence {
	return c.presence
}

// Validate ensures the command was created through the constructor.
func (c SetPresenceCommand) Validate() error {
	return c.guard.Validate(ErrSetPresenceCommandIsNotConstructed)
}

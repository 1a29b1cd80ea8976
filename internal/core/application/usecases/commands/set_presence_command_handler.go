package commands

import (
	"context"
)

// SetPresenceCommandHandler persists a driver's availability change.
// The driver record is loaded first so an unknown driver surfaces as a
// not-found error rather than a silent zero-row update.
type SetPresenceCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewSetPresenceCommandHandler creates a handler for presence updates.
func NewSetPresenceCommandHandler(uowFactory DriverUoWFactory) SetPresenceCommandHandler {
	return SetPresenceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the set presence command.
func (h SetPresenceCommandHandler) Handle(ctx context.Context, command SetPresenceCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driversRepo := uow.DriverRepository()

	d, err := driversRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	d.SetPresence(command.Presence())

	if err = driversRepo.UpdatePresence(ctx, d.ID(), command.Presence()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

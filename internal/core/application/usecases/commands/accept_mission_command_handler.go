package commands

import (
	"context"
)

// AcceptMissionCommandHandler orchestrates mission acceptance.
// Loads the order, checks the acting driver owns it, applies the Accept
// transition and persists the new status with its history entry.
type AcceptMissionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAcceptMissionCommandHandler creates a handler for mission acceptance.
func NewAcceptMissionCommandHandler(uowFactory OrderUoWFactory) AcceptMissionCommandHandler {
	return AcceptMissionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the accept mission command.
// Returns ErrMissionNotOwned when the order belongs to another driver and the
// status machine's error when the order is not in an acceptable state.
func (h AcceptMissionCommandHandler) Handle(
	ctx context.Context,
	command AcceptMissionCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	mission, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	if err = checkOwnership(mission, command.DriverID()); err != nil {
		return TransitionResult{}, err
	}

	if err = mission.Accept(); err != nil {
		return TransitionResult{}, err
	}

	degraded, err := persistStatus(ctx, ordersRepo, mission)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Status: mission.Status(), Degraded: degraded}, nil
}

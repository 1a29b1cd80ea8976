package commands

import (
	"context"
)

// StartDeliveryCommandHandler orchestrates the depart-from-store transition.
// The persisted write carries both the new status and the appended history
// entry; when the store lacks the history column the status still goes
// through and the result is flagged degraded.
type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStartDeliveryCommandHandler creates a handler for the depart transition.
func NewStartDeliveryCommandHandler(uowFactory OrderUoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start delivery command.
func (h StartDeliveryCommandHandler) Handle(
	ctx context.Context,
	command StartDeliveryCommand,
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

	if err = mission.Depart(); err != nil {
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

package commands

import (
	"context"

	"driverapp/internal/pkg/errs"
)

// CompleteDeliveryResult reports the outcome of a confirmed delivery.
type CompleteDeliveryResult struct {
	TransitionResult

	// DeliveryCount is the driver's cumulative counter after the atomic
	// increment.
	DeliveryCount int
}

// CompleteDeliveryCommandHandler finalizes a mission in one transaction:
// verifies the scanned confirmation code, applies the Complete transition,
// persists it, and atomically increments the driver's delivery counter.
// A mismatched scan aborts before any write; the driver can rescan without
// limit.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery confirmation.
// Requires the cross-aggregate UoWFactory since both the order and the driver
// record change together.
func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the complete delivery command.
// Returns a ValidationMismatchError carrying the expected token when the
// scanned payload does not match, and ErrMissionNotOwned when the order
// belongs to another driver.
func (h CompleteDeliveryCommandHandler) Handle(
	ctx context.Context,
	command CompleteDeliveryCommand,
) (CompleteDeliveryResult, error) {
	if err := command.Validate(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	driversRepo := uow.DriverRepository()

	mission, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = checkOwnership(mission, command.DriverID()); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if !mission.MatchesConfirmation(command.ScannedCode()) {
		return CompleteDeliveryResult{}, errs.NewValidationMismatchError(
			mission.ConfirmationToken(), command.ScannedCode(),
		)
	}

	if err = mission.Complete(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	degraded, err := persistStatus(ctx, ordersRepo, mission)
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	count, err := driversRepo.IncrementDeliveryCount(ctx, command.DriverID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	return CompleteDeliveryResult{
		TransitionResult: TransitionResult{Status: mission.Status(), Degraded: degraded},
		DeliveryCount:    count,
	}, nil
}

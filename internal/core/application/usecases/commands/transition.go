package commands

import (
	"context"
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/ports"
	"driverapp/internal/pkg/errs"
)

// ErrMissionNotOwned is returned when a driver operates on an order that is
// assigned to someone else.
var ErrMissionNotOwned = errors.New("mission is not assigned to this driver")

// TransitionResult reports the outcome of a persisted status transition.
type TransitionResult struct {
	// Status is the canonical status after the transition.
	Status order.Status

	// Degraded is true when the write succeeded through the status-only
	// fallback and the history entry for this transition was not recorded.
	Degraded bool
}

// persistStatus writes the order's status and history in one call, falling
// back to a status-only write exactly once when the store reports that the
// history column is missing. Any other failure, including a failure of the
// fallback itself, is returned as-is.
func persistStatus(ctx context.Context, repo ports.OrderRepository, o *order.Order) (bool, error) {
	err := repo.UpdateStatus(ctx, o.ID(), o.Status(), o.History())
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrSchemaMismatch) {
		return false, err
	}

	if err := repo.UpdateStatusOnly(ctx, o.ID(), o.Status()); err != nil {
		return true, err
	}
	return true, nil
}

// checkOwnership verifies the order is assigned to the acting driver.
// Unassigned orders are rejected the same way: a driver can only move
// missions dispatch gave them.
func checkOwnership(o *order.Order, driverID kernel.UUID) error {
	assigned := o.Driver()
	if assigned == nil || !assigned.IsEqual(driverID) {
		return ErrMissionNotOwned
	}
	return nil
}

package ports

import (
	"context"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for the driver-side view
// of orders. The core never creates orders; it reads them and writes status
// transitions back.
type OrderRepository interface {
	// Get retrieves an order by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveForDriver retrieves the non-terminal, non-archived orders
	// assigned to a driver. Used by the missions list and the radar.
	GetActiveForDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// UpdateStatus writes the status and the full status history in one
	// call. Implementations return errs.ErrSchemaMismatch when the store
	// rejects the combined write because of the history column, and
	// errs.ErrStaleState when zero rows were affected.
	UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status, history []order.StatusEntry) error

	// UpdateStatusOnly writes the status field alone. It is the explicit
	// degraded fallback used once after a schema-mismatch failure of
	// UpdateStatus; history is knowingly not recorded on this path.
	// Returns errs.ErrStaleState when zero rows were affected.
	UpdateStatusOnly(ctx context.Context, id kernel.UUID, status order.Status) error
}

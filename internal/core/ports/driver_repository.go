package ports

import (
	"context"

	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver records.
// Drivers are owned by the upstream system; the core reads them, flips
// presence, and increments the delivery counter.
type DriverRepository interface {
	// Get retrieves a driver by unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*driver.Driver, error)

	// UpdatePresence writes the driver's availability state.
	UpdatePresence(ctx context.Context, id kernel.UUID, presence driver.Presence) error

	// IncrementDeliveryCount atomically increments the cumulative delivery
	// counter at the data layer and returns the new value. A read-modify-
	// write here would lose increments under concurrent completions.
	IncrementDeliveryCount(ctx context.Context, id kernel.UUID) (int, error)
}

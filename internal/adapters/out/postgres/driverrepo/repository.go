package driverrepo

import (
	"context"
	"database/sql"
	"errors"

	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves a driver by ID.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPhone retrieves a driver by phone number.
func (r *GormDriverRepository) GetByPhone(ctx context.Context, phone string) (*driver.Driver, error) {
	if phone == "" {
		return nil, errs.NewValueIsRequiredError("phone")
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", phone)
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdatePresence writes the driver's availability state.
func (r *GormDriverRepository) UpdatePresence(ctx context.Context, id kernel.UUID, presence driver.Presence) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ?", id.Bytes()).
		Update("presence", presence.WireLabel())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", id.String())
	}

	return nil
}

// IncrementDeliveryCount bumps the cumulative delivery counter in a single
// statement and returns the new value. The increment happens in SQL so
// concurrent completions never lose an update.
func (r *GormDriverRepository) IncrementDeliveryCount(ctx context.Context, id kernel.UUID) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	var count int
	row := r.db.WithContext(ctx).Raw(`
		UPDATE drivers
		SET delivery_count = COALESCE(delivery_count, 0) + 1
		WHERE id = ?
		RETURNING delivery_count
	`, id.Bytes()).Row()
	if err := row.Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.NewObjectNotFoundError("driver", id.String())
		}
		return 0, err
	}

	return count, nil
}

// Add saves a new driver row. Only tests and seeding use it.
func (r *GormDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

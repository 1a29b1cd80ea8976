// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence. Driver records are owned by the upstream system; this
// side reads them, flips presence, and bumps the delivery counter.
package driverrepo

import (
	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for driver records.
type DriverDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	Phone         string `gorm:"index"`
	Presence      *string
	DeliveryCount int
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain entity to its database representation.
func fromDomain(d *driver.Driver) DriverDTO {
	presence := d.Presence().WireLabel()
	return DriverDTO{
		ID:            d.ID().Bytes(),
		Name:          d.Name(),
		Phone:         d.Phone(),
		Presence:      &presence,
		DeliveryCount: d.DeliveryCount(),
	}
}

// toDomain converts a database DTO to a driver domain entity.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	presence := driver.Offline
	if dto.Presence != nil {
		presence = driver.ParsePresence(*dto.Presence)
	}

	return driver.RestoreDriver(id, dto.Name, dto.Phone, presence, dto.DeliveryCount)
}

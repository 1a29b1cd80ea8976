// Package storedirectory implements the store directory lookup over the
// shared stores table. Lookup is by name, case-insensitively, because cart
// items reference stores by free-text name rather than by id.
package storedirectory

import (
	"context"
	"errors"
	"strings"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/services"
	"driverapp/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreDTO represents the database structure for store directory records.
type StoreDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"index"`
	Lat            *float64
	Lng            *float64
	MapsURL        *string
	Phone          *string
	AvgPrepMinutes *int
}

// TableName specifies the database table name for store entities.
func (StoreDTO) TableName() string {
	return "stores"
}

// GormStoreDirectory implements services.StoreDirectory using GORM.
type GormStoreDirectory struct {
	db *gorm.DB
}

// NewGormStoreDirectory creates a store directory over the given connection.
func NewGormStoreDirectory(db *gorm.DB) *GormStoreDirectory {
	return &GormStoreDirectory{db: db}
}

// FindByName looks a store up by display name. Matching trims and folds
// case; a store that is genuinely absent returns an ObjectNotFoundError.
func (d *GormStoreDirectory) FindByName(ctx context.Context, name string) (*services.StoreInfo, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	var dto StoreDTO
	err := d.db.WithContext(ctx).
		Where("LOWER(TRIM(name)) = LOWER(?)", trimmed).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("store", trimmed)
		}
		return nil, err
	}

	return toStoreInfo(dto)
}

func toStoreInfo(dto StoreDTO) (*services.StoreInfo, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	info := &services.StoreInfo{
		ID:   id,
		Name: dto.Name,
	}

	if dto.Lat != nil && dto.Lng != nil {
		if pt, geoErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng); geoErr == nil {
			info.Location = pt
		}
	}
	if dto.MapsURL != nil {
		info.MapsURL = *dto.MapsURL
	}
	if dto.Phone != nil {
		info.Phone = *dto.Phone
	}
	if dto.AvgPrepMinutes != nil {
		info.AvgPrepMinutes = *dto.AvgPrepMinutes
	}

	return info, nil
}

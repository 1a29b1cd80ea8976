// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The orders table is shared with the upstream dispatch
// system: every non-key column is nullable and the status column carries an
// accumulated vocabulary that is canonicalized on read and written back in
// the current spelling only.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"driverapp/internal/core/domain/model/cart"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JSONColumn stores raw JSON in a jsonb column. The pq driver would send a
// plain []byte as bytea, so the value is passed through as text.
type JSONColumn []byte

// Value implements driver.Valuer.
func (j JSONColumn) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return nil
}

// GormDataType tells GORM to migrate this column as jsonb.
func (JSONColumn) GormDataType() string {
	return "jsonb"
}

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category      *string
	StoreName     *string
	ClientName    *string
	ClientAddress *string
	ClientPhone   *string
	DestLat       *float64
	DestLng       *float64
	Distance      *string
	TotalPrice    decimal.NullDecimal `gorm:"type:numeric"`
	DeliveryFee   decimal.NullDecimal `gorm:"type:numeric"`
	PaymentMethod *string
	Note          *string
	Items         JSONColumn
	Status        *string `gorm:"index"`
	StatusHistory JSONColumn
	Archived      *bool
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// fromDomain converts an order domain aggregate to its database
// representation. The status is written in the current wire vocabulary; the
// legacy spellings only ever flow inward.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var items JSONColumn
	if len(aggregate.Items()) > 0 {
		raw, err := json.Marshal(aggregate.Items())
		if err != nil {
			return OrderDTO{}, err
		}
		items = raw
	}

	var history JSONColumn
	if len(aggregate.History()) > 0 {
		raw, err := json.Marshal(aggregate.History())
		if err != nil {
			return OrderDTO{}, err
		}
		history = raw
	}

	var destLat, destLng *float64
	if pt := aggregate.Destination(); pt != nil {
		lat, lng := pt.Lat(), pt.Lng()
		destLat, destLng = &lat, &lng
	}

	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	archived := aggregate.Archived()
	status := aggregate.Status().WireLabel()

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		Category:      strPtr(aggregate.Category()),
		StoreName:     strPtr(aggregate.StoreName()),
		ClientName:    strPtr(aggregate.ClientName()),
		ClientAddress: strPtr(aggregate.ClientAddress()),
		ClientPhone:   strPtr(aggregate.ClientPhone()),
		DestLat:       destLat,
		DestLng:       destLng,
		Distance:      strPtr(aggregate.Distance()),
		TotalPrice:    decimal.NullDecimal{Decimal: aggregate.TotalPrice(), Valid: true},
		DeliveryFee:   decimal.NullDecimal{Decimal: aggregate.DeliveryFee(), Valid: true},
		PaymentMethod: strPtr(aggregate.PaymentMethod()),
		Note:          strPtr(aggregate.Note()),
		Items:         items,
		Status:        &status,
		StatusHistory: history,
		Archived:      &archived,
		DriverID:      driverID,
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Malformed JSON payloads degrade to empty values so a damaged record stays
// readable.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var items []cart.Item
	if len(dto.Items) > 0 {
		if jsonErr := json.Unmarshal(dto.Items, &items); jsonErr != nil {
			items = nil
		}
	}

	var history []order.StatusEntry
	if len(dto.StatusHistory) > 0 {
		if jsonErr := json.Unmarshal(dto.StatusHistory, &history); jsonErr != nil {
			history = nil
		}
	}

	var destination *kernel.GeoPoint
	if dto.DestLat != nil && dto.DestLng != nil {
		if pt, geoErr := kernel.NewGeoPoint(*dto.DestLat, *dto.DestLng); geoErr == nil {
			destination = &pt
		}
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	archived := false
	if dto.Archived != nil {
		archived = *dto.Archived
	}

	return order.RestoreOrder(id, order.Restore{
		Category:      strOf(dto.Category),
		StoreName:     strOf(dto.StoreName),
		ClientName:    strOf(dto.ClientName),
		ClientAddress: strOf(dto.ClientAddress),
		ClientPhone:   strOf(dto.ClientPhone),
		Destination:   destination,
		Distance:      strOf(dto.Distance),
		TotalPrice:    dto.TotalPrice.Decimal,
		DeliveryFee:   dto.DeliveryFee.Decimal,
		PaymentMethod: strOf(dto.PaymentMethod),
		Note:          strOf(dto.Note),
		Items:         items,
		Status:        order.ParseStatus(strOf(dto.Status)),
		History:       history,
		Archived:      archived,
		DriverID:      driverID,
	})
}

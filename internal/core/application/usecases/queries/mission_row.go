// Package queries contains read-only operations of the CQRS split. Query
// handlers go straight to the database and rebuild domain aggregates from raw
// rows; the heterogeneous legacy columns are canonicalized here, at the read
// boundary.
package queries

import (
	"database/sql"
	"encoding/json"

	"driverapp/internal/core/domain/model/cart"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// missionColumns is the shared orders projection read by the mission queries.
const missionColumns = `
	id, category, store_name, client_name, client_address, client_phone,
	dest_lat, dest_lng, distance, total_price, delivery_fee,
	payment_method, note, items, status, status_history, archived, driver_id`

// missionRow holds one raw orders row. Every non-key column is nullable:
// the table accumulated years of partially filled records and a missing
// value must never fail a read.
type missionRow struct {
	id            uuid.UUID
	category      sql.NullString
	storeName     sql.NullString
	clientName    sql.NullString
	clientAddress sql.NullString
	clientPhone   sql.NullString
	destLat       sql.NullFloat64
	destLng       sql.NullFloat64
	distance      sql.NullString
	totalPrice    decimal.NullDecimal
	deliveryFee   decimal.NullDecimal
	paymentMethod sql.NullString
	note          sql.NullString
	items         []byte
	status        sql.NullString
	history       []byte
	archived      sql.NullBool
	driverID      uuid.NullUUID
}

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *missionRow) scan(s rowScanner) error {
	return s.Scan(
		&r.id,
		&r.category,
		&r.storeName,
		&r.clientName,
		&r.clientAddress,
		&r.clientPhone,
		&r.destLat,
		&r.destLng,
		&r.distance,
		&r.totalPrice,
		&r.deliveryFee,
		&r.paymentMethod,
		&r.note,
		&r.items,
		&r.status,
		&r.history,
		&r.archived,
		&r.driverID,
	)
}

// toOrder rebuilds the Order aggregate from the raw row. Malformed JSON
// payloads and unparseable coordinates degrade to empty values instead of
// failing the read.
func (r *missionRow) toOrder() (*order.Order, error) {
	orderID, err := kernel.UUIDFromBytes(r.id[:])
	if err != nil {
		return nil, err
	}

	var items []cart.Item
	if len(r.items) > 0 {
		if err := json.Unmarshal(r.items, &items); err != nil {
			items = nil
		}
	}

	var history []order.StatusEntry
	if len(r.history) > 0 {
		if err := json.Unmarshal(r.history, &history); err != nil {
			history = nil
		}
	}

	var destination *kernel.GeoPoint
	if r.destLat.Valid && r.destLng.Valid {
		if pt, err := kernel.NewGeoPoint(r.destLat.Float64, r.destLng.Float64); err == nil {
			destination = &pt
		}
	}

	var driverRef *kernel.UUID
	if r.driverID.Valid {
		if id, err := kernel.UUIDFromBytes(r.driverID.UUID[:]); err == nil {
			driverRef = &id
		}
	}

	return order.RestoreOrder(orderID, order.Restore{
		Category:      r.category.String,
		StoreName:     r.storeName.String,
		ClientName:    r.clientName.String,
		ClientAddress: r.clientAddress.String,
		ClientPhone:   r.clientPhone.String,
		Destination:   destination,
		Distance:      r.distance.String,
		TotalPrice:    r.totalPrice.Decimal,
		DeliveryFee:   r.deliveryFee.Decimal,
		PaymentMethod: r.paymentMethod.String,
		Note:          r.note.String,
		Items:         items,
		Status:        order.ParseStatus(r.status.String),
		History:       history,
		Archived:      r.archived.Bool,
		DriverID:      driverRef,
	})
}

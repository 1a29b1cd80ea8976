package queries

import (
	"context"

	"driverapp/internal/core/domain/services"

	"gorm.io/gorm"
)

// GetActiveMissionsQueryHandler retrieves the driver's open missions.
//
// The terminal filter runs in Go, not SQL: the status column holds an
// accumulated bilingual vocabulary and only ParseStatus knows all of it.
// Rows are filtered after canonicalization so a mission stored as "livrée"
// is just as excluded as one stored as "COMPLETED".
type GetActiveMissionsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveMissionsQueryHandler creates a handler for mission list queries.
func NewGetActiveMissionsQueryHandler(db *gorm.DB) GetActiveMissionsQueryHandler {
	return GetActiveMissionsQueryHandler{db: db}
}

// Handle executes the query. Returns the active missions sorted by id for
// consistent output; an empty workload yields an empty slice, not nil.
func (h GetActiveMissionsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveMissionsQuery,
) ([]GetActiveMissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	missions := make([]GetActiveMissionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+missionColumns+`
		FROM orders
		WHERE driver_id = ?
		  AND COALESCE(archived, FALSE) = FALSE
		ORDER BY id
	`, query.DriverID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r missionRow
		if err = r.scan(rows); err != nil {
			return nil, err
		}

		mission, orderErr := r.toOrder()
		if orderErr != nil {
			return nil, orderErr
		}

		if mission.IsTerminal() {
			continue
		}

		detection := services.Detect(mission.Items())

		missions = append(missions, GetActiveMissionsQueryResponse{
			ID:            mission.ID(),
			Category:      mission.Category(),
			ClientName:    mission.ClientName(),
			ClientAddress: mission.ClientAddress(),
			Distance:      mission.Distance(),
			TotalPrice:    mission.TotalPrice(),
			DeliveryFee:   mission.DeliveryFee(),
			Status:        mission.Status(),
			Step:          mission.Step(),
			IsMultiStore:  detection.IsMultiStore,
			StoreCount:    detection.StoreCount,
			StoreNames:    detection.StoreNames,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return missions, nil
}

package queries

import (
	"context"
	"database/sql"
	"errors"

	"driverapp/internal/core/domain/services"
	"driverapp/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetMissionQueryHandler assembles the mission view for one order.
// Reads the raw row, rebuilds the aggregate, then layers the derived data on
// top: multi-store detection with directory enrichment and the composed
// route link. None of the derived data is persisted; it is recomputed on
// every read.
type GetMissionQueryHandler struct {
	db       *gorm.DB
	detector *services.MultiStoreDetector
}

// NewGetMissionQueryHandler creates a handler for single mission views.
func NewGetMissionQueryHandler(db *gorm.DB, detector *services.MultiStoreDetector) GetMissionQueryHandler {
	return GetMissionQueryHandler{db: db, detector: detector}
}

// Handle executes the query. Returns an ObjectNotFoundError when the order
// does not exist.
func (h GetMissionQueryHandler) Handle(
	ctx context.Context,
	query GetMissionQuery,
) (GetMissionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetMissionQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT `+missionColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var r missionRow
	if err := r.scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetMissionQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetMissionQueryResponse{}, err
	}

	mission, err := r.toOrder()
	if err != nil {
		return GetMissionQueryResponse{}, err
	}

	detection := h.detector.Analyze(ctx, mission)
	routeURL, hasRoute := services.BuildRoute(detection.StoreGroups, mission.Destination())

	return GetMissionQueryResponse{
		ID:                mission.ID(),
		Category:          mission.Category(),
		ClientName:        mission.ClientName(),
		ClientAddress:     mission.ClientAddress(),
		ClientPhone:       mission.ClientPhone(),
		Destination:       mission.Destination(),
		Distance:          mission.Distance(),
		TotalPrice:        mission.TotalPrice(),
		DeliveryFee:       mission.DeliveryFee(),
		PaymentMethod:     mission.PaymentMethod(),
		Note:              mission.Note(),
		Items:             mission.Items(),
		Status:            mission.Status(),
		Step:              mission.Step(),
		History:           mission.History(),
		ConfirmationToken: mission.ConfirmationToken(),
		Detection:         detection,
		RouteURL:          routeURL,
		HasRoute:          hasRoute,
		Terminal:          mission.IsTerminal(),
		Rejected:          mission.Status().IsRejectedClass(),
		Delivered:         mission.Status().IsSuccessTerminal(),
	}, nil
}

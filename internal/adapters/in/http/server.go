// Package http is the inbound HTTP surface of the driver app. Handlers
// translate requests into commands and queries and map the error taxonomy
// onto status codes; they hold no business logic of their own.
package http

import (
	"errors"
	"net/http"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/application/usecases/queries"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/jobs"
	"driverapp/internal/pkg/errs"
	"driverapp/internal/realtime"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	acceptMissionHandler    commands.AcceptMissionCommandHandler
	startDeliveryHandler    commands.StartDeliveryCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	setPresenceHandler      commands.SetPresenceCommandHandler

	// Query handlers
	getMissionHandler        queries.GetMissionQueryHandler
	getActiveMissionsHandler queries.GetActiveMissionsQueryHandler

	jobManager *jobs.JobManager

	// reconciler is marked after every persisted transition so the push
	// side does not echo the driver's own write back to their devices.
	reconciler *realtime.Reconciler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	acceptMissionHandler commands.AcceptMissionCommandHandler,
	startDeliveryHandler commands.StartDeliveryCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	setPresenceHandler commands.SetPresenceCommandHandler,
	getMissionHandler queries.GetMissionQueryHandler,
	getActiveMissionsHandler queries.GetActiveMissionsQueryHandler,
	jobManager *jobs.JobManager,
	reconciler *realtime.Reconciler,
) *Server {
	return &Server{
		acceptMissionHandler:     acceptMissionHandler,
		startDeliveryHandler:     startDeliveryHandler,
		completeDeliveryHandler:  completeDeliveryHandler,
		setPresenceHandler:       setPresenceHandler,
		getMissionHandler:        getMissionHandler,
		getActiveMissionsHandler: getActiveMissionsHandler,
		jobManager:               jobManager,
		reconciler:               reconciler,
	}
}

// RegisterRoutes attaches all driver-facing routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/missions", s.GetMissions)
	api.GET("/missions/:id", s.GetMission)
	api.POST("/missions/:id/accept", s.AcceptMission)
	api.POST("/missions/:id/advance", s.AdvanceMission)
	api.POST("/missions/:id/confirm", s.ConfirmDelivery)
	api.PUT("/presence", s.SetPresence)

	e.GET("/health", s.Health)
}

// GetMissions handles GET /api/v1/missions - the driver's open workload.
func (s *Server) GetMissions(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.QueryParam("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driverId")
	}

	query, err := queries.NewGetActiveMissionsQuery(driverID)
	if err != nil {
		return badRequest(ctx, "Invalid driverId: "+err.Error())
	}

	missions, err := s.getActiveMissionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err, "Failed to retrieve missions")
	}

	response := make([]MissionSummary, len(missions))
	for i, mission := range missions {
		response[i] = newMissionSummary(mission)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetMission handles GET /api/v1/missions/:id - the full mission view.
func (s *Server) GetMission(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid mission id")
	}

	query, err := queries.NewGetMissionQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid mission id: "+err.Error())
	}

	view, err := s.getMissionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err, "Failed to retrieve mission")
	}

	return ctx.JSON(http.StatusOK, newMissionView(view))
}

// AcceptMission handles POST /api/v1/missions/:id/accept.
func (s *Server) AcceptMission(ctx echo.Context) error {
	orderID, driverID, err := s.missionIdentity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAcceptMissionCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid accept request: "+err.Error())
	}

	result, err := s.acceptMissionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err, "Failed to accept mission")
	}

	s.reconciler.MarkLocalWrite(orderID, result.Status)
	return ctx.JSON(http.StatusOK, newTransitionResponse(result.Status.WireLabel(), result.Status.Step(), result.Degraded))
}

// AdvanceMission handles POST /api/v1/missions/:id/advance - the driver
// leaves the store(s) toward the client.
func (s *Server) AdvanceMission(ctx echo.Context) error {
	orderID, driverID, err := s.missionIdentity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid advance request: "+err.Error())
	}

	result, err := s.startDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err, "Failed to advance mission")
	}

	s.reconciler.MarkLocalWrite(orderID, result.Status)
	return ctx.JSON(http.StatusOK, newTransitionResponse(result.Status.WireLabel(), result.Status.Step(), result.Degraded))
}

// ConfirmDelivery handles POST /api/v1/missions/:id/confirm - completes the
// mission when the scanned client code matches the confirmation token.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	orderID, driverID, err := s.missionIdentity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body ConfirmDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, driverID, body.ScannedCode)
	if err != nil {
		return badRequest(ctx, "Invalid confirm request: "+err.Error())
	}

	result, err := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err, "Failed to confirm delivery")
	}

	s.reconciler.MarkLocalWrite(orderID, result.Status)
	response := ConfirmDeliveryResponse{
		TransitionResponse: newTransitionResponse(result.Status.WireLabel(), result.Status.Step(), result.Degraded),
		DeliveryCount:      result.DeliveryCount,
	}
	return ctx.JSON(http.StatusOK, response)
}

// SetPresence handles PUT /api/v1/presence - toggles the driver's
// availability and keeps the heartbeat aligned with it.
func (s *Server) SetPresence(ctx echo.Context) error {
	var body SetPresenceRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(body.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driverId")
	}

	cmd, err := commands.NewSetPresenceCommand(driverID, body.Presence)
	if err != nil {
		return badRequest(ctx, "Invalid presence: "+err.Error())
	}

	if err := s.setPresenceHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err, "Failed to set presence")
	}

	if body.Heartbeat {
		if err := s.jobManager.EnableHeartbeat(driverID, body.Presence); err != nil {
			return mapError(ctx, err, "Failed to start heartbeat")
		}
	} else {
		s.jobManager.DisableHeartbeat()
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// missionIdentity extracts the order id from the path and the driver id from
// the request body common to all transition endpoints.
func (s *Server) missionIdentity(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid mission id")
	}

	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid request body")
	}

	driverID, err := kernel.UUIDFromString(body.DriverID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid driverId")
	}

	return orderID, driverID, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapError translates the application error taxonomy onto HTTP status codes.
func mapError(ctx echo.Context, err error, fallback string) error {
	var mismatch *errs.ValidationMismatchError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Mission not found",
		})
	case errors.Is(err, commands.ErrMissionNotOwned):
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: "Mission is assigned to another driver",
		})
	case errors.As(err, &mismatch):
		return ctx.JSON(http.StatusUnprocessableEntity, Error{
			Code:     http.StatusUnprocessableEntity,
			Message:  "Scanned code does not match",
			Expected: mismatch.Expected,
		})
	case errors.Is(err, errs.ErrStaleState):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Mission changed underneath; refetch and retry",
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}

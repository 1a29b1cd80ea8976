package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Progression, &driverID)
	cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), driverID, mission.ConfirmationToken())
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	driversRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		ordersRepo.On("UpdateStatus", ctx, mission.ID(), order.Completed, mock.Anything).Return(nil).Once(),
		driversRepo.On("IncrementDeliveryCount", ctx, driverID).Return(13, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, result.Status)
	assert.False(t, result.Degraded)
	assert.Equal(t, 13, result.DeliveryCount)
	ordersRepo.AssertExpectations(t)
	driversRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_SloppyScanStillMatches(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Progression, &driverID)
	// Scanners deliver surrounding whitespace and arbitrary case.
	scanned := "  " + strings.ToLower(mission.ConfirmationToken()) + "\n"
	cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), driverID, scanned)
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	driversRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		ordersRepo.On("UpdateStatus", ctx, mission.ID(), order.Completed, mock.Anything).Return(nil).Once(),
		driversRepo.On("IncrementDeliveryCount", ctx, driverID).Return(1, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, result.Status)
}

func TestCompleteDeliveryCommandHandler_Handle_ScanMismatch(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Progression, &driverID)
	cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), driverID, "CONFIRM-ORDER-ID-SOMETHING-ELSE")
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	driversRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValidationMismatch)

	// The expected token rides on the error for the driver-facing message.
	var mismatch *errs.ValidationMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, mission.ConfirmationToken(), mismatch.Expected)

	ordersRepo.AssertNotCalled(t, "UpdateStatus")
	driversRepo.AssertNotCalled(t, "IncrementDeliveryCount")
	uow.AssertNotCalled(t, "Commit")
}

func TestCompleteDeliveryCommandHandler_Handle_WrongState(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Treatment, &driverID)
	cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), driverID, mission.ConfirmationToken())
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	driversRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	driversRepo.AssertNotCalled(t, "IncrementDeliveryCount")
}

func TestCompleteDeliveryCommandHandler_Handle_IncrementError(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Progression, &driverID)
	cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), driverID, mission.ConfirmationToken())
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	driversRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		ordersRepo.On("UpdateStatus", ctx, mission.ID(), order.Completed, mock.Anything).Return(nil).Once(),
		driversRepo.On("IncrementDeliveryCount", ctx, driverID).Return(0, errors.New("database error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	// Both writes roll back together; the order must not complete while the
	// counter write failed.
	require.EqualError(t, err, "database error")
	uow.AssertNotCalled(t, "Commit")
}

package commands_test

import (
	"context"
	"errors"
	"testing"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptMissionCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Pending, &driverID)
	cmd, err := commands.NewAcceptMissionCommand(mission.ID(), driverID)
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		ordersRepo.On("UpdateStatus", ctx, mission.ID(), order.Treatment, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Treatment, result.Status)
	assert.False(t, result.Degraded)
	ordersRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptMissionCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := context.Background()
	var cmd commands.AcceptMissionCommand // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewAcceptMissionCommandHandler(factory)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrAcceptMissionCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAcceptMissionCommandHandler_Handle_NotOwned(t *testing.T) {
	ctx := context.Background()

	assignedTo := kernel.NewUUID()
	mission := restoreMission(t, order.Pending, &assignedTo)
	cmd, err := commands.NewAcceptMissionCommand(mission.ID(), kernel.NewUUID())
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrMissionNotOwned)
	ordersRepo.AssertNotCalled(t, "UpdateStatus")
	uow.AssertNotCalled(t, "Commit")
}

func TestAcceptMissionCommandHandler_Handle_WrongState(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Progression, &driverID)
	cmd, err := commands.NewAcceptMissionCommand(mission.ID(), driverID)
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	ordersRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestAcceptMissionCommandHandler_Handle_GetError(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewAcceptMissionCommand(orderID, driverID)
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		ordersRepo.On("Get", ctx, orderID).Return(nil, errors.New("database error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "database error")
}

func TestAcceptMissionCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	mission := restoreMission(t, order.Pending, &driverID)
	cmd, err := commands.NewAcceptMissionCommand(mission.ID(), driverID)
	require.NoError(t, err)

	ordersRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(ordersRepo).Once(),
		ordersRepo.On("Get", ctx, mission.ID()).Return(mission, nil).Once(),
		ordersRepo.On("UpdateStatus", ctx, mission.ID(), order.Treatment, mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
}

package commands_test

import (
	"context"
	"testing"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetPresenceCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	d, err := driver.RestoreDriver(driverID, "Yassine", "+212600000001", driver.Offline, 7)
	require.NoError(t, err)

	cmd, err := commands.NewSetPresenceCommand(driverID, "available")
	require.NoError(t, err)

	driversRepo := new(MockDriverRepository)
	uow := new(MockDriverUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		driversRepo.On("Get", ctx, driverID).Return(d, nil).Once(),
		driversRepo.On("UpdatePresence", ctx, driverID, driver.Available).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetPresenceCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Equal(t, driver.Available, d.Presence())
	driversRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSetPresenceCommandHandler_Handle_DriverNotFound(t *testing.T) {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	cmd, err := commands.NewSetPresenceCommand(driverID, "offline")
	require.NoError(t, err)

	driversRepo := new(MockDriverRepository)
	uow := new(MockDriverUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driversRepo).Once(),
		driversRepo.On("Get", ctx, driverID).
			Return(nil, errs.NewObjectNotFoundError("driver", driverID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetPresenceCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	driversRepo.AssertNotCalled(t, "UpdatePresence")
}

func TestSetPresenceCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := context.Background()
	var cmd commands.SetPresenceCommand

	factory := new(MockDriverUoWFactory)
	handler := commands.NewSetPresenceCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrSetPresenceCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

package commands_test

import (
	"testing"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptMissionCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	cmd, err := commands.NewAcceptMissionCommand(orderID, driverID)

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, driverID, cmd.DriverID())
	assert.NoError(t, cmd.Validate())
}

func TestNewAcceptMissionCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptMissionCommand(kernel.UUID{}, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewAcceptMissionCommand(kernel.NewUUID(), kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestAcceptMissionCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.AcceptMissionCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrAcceptMissionCommandIsNotConstructed)
}

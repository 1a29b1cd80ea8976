package commands_test

import (
	"testing"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleteDeliveryCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, driverID, "CONFIRM-ORDER-ID-ABC")

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, driverID, cmd.DriverID())
	assert.Equal(t, "CONFIRM-ORDER-ID-ABC", cmd.ScannedCode())
	assert.NoError(t, cmd.Validate())
}

func TestNewCompleteDeliveryCommand_MissingCode(t *testing.T) {
	_, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCompleteDeliveryCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.CompleteDeliveryCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrCompleteDeliveryCommandIsNotConstructed)
}

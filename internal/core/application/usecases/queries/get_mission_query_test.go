package queries_test

import (
	"testing"

	"driverapp/internal/core/application/usecases/queries"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetMissionQuery(t *testing.T) {
	orderID := kernel.NewUUID()

	query, err := queries.NewGetMissionQuery(orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, query.OrderID())
	assert.NoError(t, query.Validate())
}

func TestNewGetMissionQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetMissionQuery(kernel.UUID{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetMissionQuery_ValidateZeroValue(t *testing.T) {
	var query queries.GetMissionQuery

	err := query.Validate()

	require.ErrorIs(t, err, queries.ErrGetMissionQueryIsNotConstructed)
}

func TestNewGetActiveMissionsQuery(t *testing.T) {
	driverID := kernel.NewUUID()

	query, err := queries.NewGetActiveMissionsQuery(driverID)

	require.NoError(t, err)
	assert.Equal(t, driverID, query.DriverID())
	assert.NoError(t, query.Validate())
}

func TestGetActiveMissionsQuery_ValidateZeroValue(t *testing.T) {
	var query queries.GetActiveMissionsQuery

	err := query.Validate()

	require.ErrorIs(t, err, queries.ErrGetActiveMissionsQueryIsNotConstructed)
}

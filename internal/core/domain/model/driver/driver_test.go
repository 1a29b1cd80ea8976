package driver_test

import (
	"testing"

	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreDriver(t *testing.T) {
	t.Run("valid driver", func(t *testing.T) {
		d, err := driver.RestoreDriver(kernel.NewUUID(), "Yassine", "+212600000001", driver.Available, 12)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.Equal(t, "Yassine", d.Name())
		assert.Equal(t, driver.Available, d.Presence())
		assert.Equal(t, 12, d.DeliveryCount())
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "", "+212600000001", driver.Offline, 0)
		require.ErrorIs(t, err, driver.ErrNameIsRequired)
	})

	t.Run("missing phone", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Yassine", "", driver.Offline, 0)
		require.ErrorIs(t, err, driver.ErrPhoneIsRequired)
	})

	t.Run("negative delivery count", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Yassine", "+212600000001", driver.Offline, -1)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var d driver.Driver
		require.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	})
}

func TestParsePresence(t *testing.T) {
	assert.Equal(t, driver.Available, driver.ParsePresence("available"))
	assert.Equal(t, driver.Available, driver.ParsePresence(" ONLINE "))
	assert.Equal(t, driver.Offline, driver.ParsePresence("offline"))
	assert.Equal(t, driver.Offline, driver.ParsePresence(""))
	assert.Equal(t, driver.Offline, driver.ParsePresence("whatever"))
}

func TestPresence_WireLabel(t *testing.T) {
	assert.Equal(t, "available", driver.Available.WireLabel())
	assert.Equal(t, "offline", driver.Offline.WireLabel())
}

func TestNewSession(t *testing.T) {
	t.Run("valid session gets a fresh identity", func(t *testing.T) {
		id := kernel.NewUUID()

		s1, err := driver.NewSession(id, "Yassine", "+212600000001")
		require.NoError(t, err)
		s2, err := driver.NewSession(id, "Yassine", "+212600000001")
		require.NoError(t, err)

		require.NoError(t, s1.Validate())
		assert.True(t, s1.DriverID().IsEqual(id))
		assert.False(t, s1.SessionID().IsEqual(s2.SessionID()))
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var s driver.Session
		require.ErrorIs(t, s.Validate(), driver.ErrSessionIsNotConstructed)
	})
}

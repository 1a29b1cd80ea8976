package driver

import (
	"errors"
	"strings"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"
)

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when restoring a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when restoring a driver without a phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via RestoreDriver constructor")
)

// Presence is the driver's availability state as seen by dispatch.
type Presence int

const (
	// PresenceUnknown catches uninitialized values.
	PresenceUnknown Presence = iota
	// Offline means the driver is not receiving missions.
	Offline
	// Available means the driver is online and can receive missions.
	Available
)

// ParsePresence normalizes a raw presence string. Anything that is not an
// online marker maps to Offline.
func ParsePresence(raw string) Presence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "available", "online", "en_ligne":
		return Available
	default:
		return Offline
	}
}

// WireLabel returns the value persisted for this presence state.
func (p Presence) WireLabel() string {
	if p == Available {
		return "available"
	}
	return "offline"
}

// String implements fmt.Stringer.
func (p Presence) String() string {
	switch p {
	case Available:
		return "Available"
	case Offline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Driver is the external driver entity consumed (not owned) by the mission
// engine: identity, presence, and the cumulative delivery counter that the
// confirmation protocol increments on each completed delivery.
type Driver struct {
	id            kernel.UUID
	name          string
	phone         string
	presence      Presence
	deliveryCount int

	isConstructed bool
}

// RestoreDriver reconstructs a Driver from persistence.
func RestoreDriver(id kernel.UUID, name, phone string, presence Presence, deliveryCount int) (*Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if phone == "" {
		return nil, ErrPhoneIsRequired
	}
	if deliveryCount < 0 {
		return nil, errs.NewValueIsInvalidError("deliveryCount")
	}

	return &Driver{
		id:            id,
		name:          name,
		phone:         phone,
		presence:      presence,
		deliveryCount: deliveryCount,
		isConstructed: true,
	}, nil
}

// Validate ensures the Driver was constructed through RestoreDriver.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's phone number.
func (d *Driver) Phone() string {
	return d.phone
}

// Presence returns the driver's availability state.
func (d *Driver) Presence() Presence {
	return d.presence
}

// DeliveryCount returns the cumulative completed-delivery counter.
func (d *Driver) DeliveryCount() int {
	return d.deliveryCount
}

// SetPresence updates the availability state.
func (d *Driver) SetPresence(p Presence) {
	d.presence = p
}

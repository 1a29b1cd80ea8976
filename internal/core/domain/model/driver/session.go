package driver

import (
	"errors"

	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/guard"
)

// ErrSessionIsNotConstructed is returned when using a Session that was not
// created via NewSession.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

// Session is the explicit driver session passed into every component that
// needs the ambient driver identity. It is created at login and cleared at
// logout; no component reads driver identity from global state.
type Session struct {
	sessionID kernel.UUID
	driverID  kernel.UUID
	name      string
	phone     string

	guard guard.ConstructorGuard
}

// NewSession creates a session for a logged-in driver with a fresh session
// identity.
func NewSession(driverID kernel.UUID, name, phone string) (Session, error) {
	if err := driverID.Validate(); err != nil {
		return Session{}, err
	}
	if name == "" {
		return Session{}, ErrNameIsRequired
	}
	if phone == "" {
		return Session{}, ErrPhoneIsRequired
	}

	return Session{
		sessionID: kernel.NewUUID(),
		driverID:  driverID,
		name:      name,
		phone:     phone,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the session was created through NewSession.
func (s Session) Validate() error {
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

// SessionID returns the unique identity of this login session.
func (s Session) SessionID() kernel.UUID {
	return s.sessionID
}

// DriverID returns the logged-in driver's identifier.
func (s Session) DriverID() kernel.UUID {
	return s.driverID
}

// Name returns the logged-in driver's display name.
func (s Session) Name() string {
	return s.name
}

// Phone returns the logged-in driver's phone number.
func (s Session) Phone() string {
	return s.phone
}

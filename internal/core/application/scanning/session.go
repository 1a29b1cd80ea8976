// Package scanning drives the delivery confirmation protocol on the driver's
// device: a capture session reads code payloads from the camera and matches
// them against the mission's expected confirmation token.
package scanning

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/pkg/errs"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("scanning session is closed")

// ErrSessionNotScanning is returned when Confirm or ToggleCamera is called
// before the capture device is open.
var ErrSessionNotScanning = errors.New("scanning session is not capturing")

// CaptureDevice abstracts the camera. Open may fail with an
// errs.PermissionDeniedError when the platform refuses camera access; that
// failure is retryable and must release any partially acquired resources.
type CaptureDevice interface {
	// Open acquires the camera and starts decoding.
	Open(ctx context.Context) error

	// Payloads streams decoded code payloads until Close.
	Payloads() <-chan string

	// Switch toggles between the available cameras.
	Switch() error

	// Close releases the camera. Safe to call more than once.
	Close() error
}

// Finalize commits the mission's terminal transition once a scanned payload
// matches. The session calls it exactly once, after releasing the camera.
type Finalize func(ctx context.Context, scanned string) error

// SessionFactory builds a confirmation session for one mission, bound to the
// logged-in driver whose identity the terminal write is committed under.
type SessionFactory func(sess driver.Session, mission *order.Order, device CaptureDevice) (*Session, error)

// State is the lifecycle state of a scanning session.
type State int

const (
	// Idle means the session exists but the camera is not capturing.
	Idle State = iota
	// Scanning means the camera is open and payloads are flowing.
	Scanning
	// Closed means the session released the camera and is finished.
	Closed
)

// Session is one confirmation attempt against one mission. The driver may
// mismatch any number of times; only a matching payload confirms, and the
// camera is released on every exit path.
type Session struct {
	mission  *order.Order
	device   CaptureDevice
	finalize Finalize
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	attempts int
}

// NewSession creates a session for the given mission. finalize is invoked on
// the first matching payload and commits the terminal transition.
func NewSession(mission *order.Order, device CaptureDevice, finalize Finalize, logger *slog.Logger) (*Session, error) {
	if err := mission.Validate(); err != nil {
		return nil, err
	}
	if finalize == nil {
		return nil, errs.NewValueIsRequiredError("finalize")
	}

	return &Session{
		mission:  mission,
		device:   device,
		finalize: finalize,
		logger:   logger.With("component", "scanning_session", "order", mission.ID().String()),
	}, nil
}

// Start opens the capture device. A permission refusal leaves the session
// Idle so the driver can retry after granting access; it is never fatal.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Closed:
		return ErrSessionClosed
	case Scanning:
		return nil
	case Idle:
	}

	if err := s.device.Open(ctx); err != nil {
		_ = s.device.Close()
		if errors.Is(err, errs.ErrPermissionDenied) {
			s.logger.WarnContext(ctx, "Camera permission refused", "error", err)
			return err
		}
		return err
	}

	s.state = Scanning
	return nil
}

// Payloads exposes the device's decoded payload stream.
func (s *Session) Payloads() <-chan string {
	return s.device.Payloads()
}

// Confirm matches a scanned payload against the mission's confirmation
// token. A mismatch returns a ValidationMismatchError carrying the expected
// literal and leaves the session scanning; retries are unlimited. A match
// releases the capture device immediately and then commits the terminal
// transition through the finalize callback.
func (s *Session) Confirm(ctx context.Context, scanned string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Closed:
		return ErrSessionClosed
	case Idle:
		return ErrSessionNotScanning
	case Scanning:
	}

	s.attempts++
	if !s.mission.MatchesConfirmation(scanned) {
		return errs.NewValidationMismatchError(s.mission.ConfirmationToken(), scanned)
	}

	s.state = Closed
	if err := s.device.Close(); err != nil {
		s.logger.WarnContext(ctx, "Camera release failed after match", "error", err)
	}

	return s.finalize(ctx, scanned)
}

// ToggleCamera switches between the available cameras while scanning.
func (s *Session) ToggleCamera() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Closed:
		return ErrSessionClosed
	case Idle:
		return ErrSessionNotScanning
	case Scanning:
	}

	return s.device.Switch()
}

// Close releases the capture device. Safe to call repeatedly and from any
// state; after Close the session cannot be restarted.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return nil
	}
	s.state = Closed

	return s.device.Close()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns how many payloads have been checked so far.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

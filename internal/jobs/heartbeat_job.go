package jobs

import (
	"context"
	"log/slog"
	"sync"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// heartbeatSchedule re-asserts presence every 30 seconds. The dispatcher
// treats a driver silent for a few minutes as offline, so this cadence keeps
// a healthy margin without hammering the store.
const heartbeatSchedule = "*/30 * * * * *"

// HeartbeatJob periodically re-asserts the driver's chosen presence so the
// dispatcher keeps seeing the device as alive. The job is created once and
// re-targeted on login: Enable always stops the previous schedule before
// starting a new one, so at most one ticker exists per device.
type HeartbeatJob struct {
	handler commands.SetPresenceCommandHandler
	logger  *slog.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	driverID kernel.UUID
	presence string
	enabled  bool
}

// NewHeartbeatJob creates the heartbeat job. It starts disabled.
func NewHeartbeatJob(handler commands.SetPresenceCommandHandler, logger *slog.Logger) *HeartbeatJob {
	return &HeartbeatJob{
		handler: handler,
		logger:  logger.With("component", "heartbeat_job"),
	}
}

// Enable starts heartbeating for the given driver with the given presence
// value. Any schedule from a previous Enable is stopped first.
func (j *HeartbeatJob) Enable(driverID kernel.UUID, presence string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()

	j.driverID = driverID
	j.presence = presence

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(heartbeatSchedule, j.beat); err != nil {
		return err
	}
	c.Start()

	j.cron = c
	j.enabled = true
	j.logger.InfoContext(context.Background(), "Presence heartbeat started",
		"driver", driverID.String(), "presence", presence)
	return nil
}

// Disable stops heartbeating. Idempotent.
func (j *HeartbeatJob) Disable() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enabled {
		return
	}
	j.stopLocked()
	j.logger.InfoContext(context.Background(), "Presence heartbeat stopped")
}

// Enabled reports whether a heartbeat schedule is running.
func (j *HeartbeatJob) Enabled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enabled
}

func (j *HeartbeatJob) stopLocked() {
	if j.cron != nil {
		j.cron.Stop()
		j.cron = nil
	}
	j.enabled = false
}

func (j *HeartbeatJob) beat() {
	j.mu.Lock()
	driverID, presence, enabled := j.driverID, j.presence, j.enabled
	j.mu.Unlock()
	if !enabled {
		return
	}

	ctx := context.Background()
	cmd, err := commands.NewSetPresenceCommand(driverID, presence)
	if err != nil {
		j.logger.ErrorContext(ctx, "Heartbeat command rejected", "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Presence heartbeat failed", "error", err)
	}
}

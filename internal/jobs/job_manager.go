package jobs

import (
	"log/slog"

	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/domain/model/kernel"
)

// JobManager coordinates the scheduled jobs of the application.
// Provides a unified interface so the composition root and the presence
// endpoint never touch individual jobs directly.
type JobManager struct {
	heartbeatJob *HeartbeatJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	setPresenceHandler commands.SetPresenceCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		heartbeatJob: NewHeartbeatJob(setPresenceHandler, logger),
	}
}

// EnableHeartbeat starts (or re-targets) the presence heartbeat for a driver.
func (jm *JobManager) EnableHeartbeat(driverID kernel.UUID, presence string) error {
	return jm.heartbeatJob.Enable(driverID, presence)
}

// DisableHeartbeat stops the presence heartbeat.
func (jm *JobManager) DisableHeartbeat() {
	jm.heartbeatJob.Disable()
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.heartbeatJob.Disable()
}

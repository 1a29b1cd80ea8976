// Package jobs provides scheduled background tasks for the driver app.
//
// The single job today is HeartbeatJob, a cron-based ticker (using
// github.com/robfig/cron/v3) that re-asserts the driver's presence every 30
// seconds so the dispatcher keeps seeing the device as alive. The job holds a
// single-flight guard: Enable stops any previous schedule before starting a
// new one, so re-login or a presence change never leaks a second ticker.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(setPresenceHandler, logger)
//	jobManager.EnableHeartbeat(driverID, "available")
//	defer jobManager.StopAll()
package jobs

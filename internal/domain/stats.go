package domain

import "time"

// MonitorStats is a point-in-time view of the scheduler, used by /status.
type MonitorStats struct {
	StartedAt          time.Time
	Cycles             int
	SlotsFound         int
	ChecksSinceRestart int
	Restarts           int
	LastCheckAt        time.Time
	LastDuration       time.Duration
	LastOutcome        OutcomeKind
	LastReason         FailureReason
}

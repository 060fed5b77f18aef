// Package monitor runs the check cycle: it borrows the shared browser session,
// invokes the navigator once per cycle, classifies the outcome and paces the
// next attempt.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Checker performs one navigation attempt against a session.
type Checker interface {
	Check(ctx context.Context, session ports.BrowserSession) domain.CheckOutcome
}

// Operator-channel messages.
const (
	msgLaunchFailed   = "❌ FATAL ERROR: Cannot launch browser. Application halted."
	msgRestartFailed  = "❌ FATAL ERROR: Browser restart failed. Application halted."
	msgFatalOutcome   = "❌ FATAL ERROR during check (%s): %v\nMonitoring halted."
	msgUnexpected     = "❌ Unexpected Error during check (%s): %v\nRestarting cycle."
	msgSessionRestart = "⚠️ Browser session lost, relaunched."
)

// Scheduler is the outer loop. Only one cycle runs at a time.
type Scheduler struct {
	checker     Checker
	sessions    *SessionManager
	notifier    ports.NotificationGateway
	subscribers ports.SubscriberSet
	clock       ports.Clock
	logger      ports.Logger
	cfg         domain.Config

	// MaxCycles stops Run after that many cycles when positive.
	MaxCycles int

	mu    sync.RWMutex
	stats domain.MonitorStats
}

// NewScheduler wires a scheduler.
func NewScheduler(
	cfg domain.Config,
	checker Checker,
	sessions *SessionManager,
	notifier ports.NotificationGateway,
	subscribers ports.SubscriberSet,
	clock ports.Clock,
	log ports.Logger,
) *Scheduler {
	return &Scheduler{
		checker:     checker,
		sessions:    sessions,
		notifier:    notifier,
		subscribers: subscribers,
		clock:       clock,
		logger:      log,
		cfg:         cfg,
	}
}

// Run loops until ctx is cancelled, MaxCycles is reached or a fatal outcome
// occurs. Cancellation returns nil; a fatal outcome returns its error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.stats.StartedAt = s.clock.Now()
	s.mu.Unlock()

	s.logger.Info("monitoring started", map[string]interface{}{
		"url":           s.cfg.Target.EntryURL,
		"interval":      s.cfg.Schedule.Interval.String(),
		"restart_every": s.cfg.Schedule.RestartEvery,
	})

	for cycle := 1; ; cycle++ {
		if ctx.Err() != nil {
			s.logger.Info("monitoring stopped", map[string]interface{}{"cycles": cycle - 1})
			return nil
		}

		start := s.clock.Now()
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("monitoring stopped", map[string]interface{}{"cycles": cycle})
				return nil
			}
			return err
		}
		if s.MaxCycles > 0 && cycle >= s.MaxCycles {
			return nil
		}

		wait := s.cfg.Schedule.Interval - s.clock.Now().Sub(start)
		if wait <= 0 {
			continue
		}
		s.logger.Debug("waiting before next check", map[string]interface{}{"delay": wait.String()})
		if err := s.clock.Sleep(ctx, wait); err != nil {
			s.logger.Info("monitoring stopped", map[string]interface{}{"cycles": cycle})
			return nil
		}
	}
}

// RunCycle executes and classifies one cycle. The returned error is non-nil
// for fatal outcomes, which end the loop, and is ctx's error when the cycle
// was interrupted. An interrupted cycle is not counted, reported or followed
// by a restart.
func (s *Scheduler) RunCycle(ctx context.Context) (domain.CheckOutcome, error) {
	cycleID := uuid.NewString()
	start := s.clock.Now()

	session, err := s.sessions.Acquire(ctx)
	if ctx.Err() != nil {
		return s.interrupted(cycleID, domain.OutcomeFromError(ctx.Err()), ctx.Err())
	}
	if err != nil {
		s.logger.Error("failed to launch browser", err, map[string]interface{}{"cycle_id": cycleID})
		s.notifyOperator(ctx, msgLaunchFailed)
		outcome := domain.OutcomeFromError(err)
		s.record(start, outcome)
		return outcome, err
	}

	s.logger.Info("starting check", map[string]interface{}{
		"cycle_id": cycleID,
		"check":    s.sessions.ChecksSinceRestart() + 1,
	})
	outcome := s.checker.Check(ctx, session)
	if ctx.Err() != nil {
		return s.interrupted(cycleID, outcome, ctx.Err())
	}
	elapsed := s.clock.Now().Sub(start)
	s.record(start, outcome)

	fields := map[string]interface{}{
		"cycle_id": cycleID,
		"outcome":  outcome.Kind().String(),
		"duration": elapsed.Round(10 * time.Millisecond).String(),
	}

	switch outcome.Kind() {
	case domain.OutcomeAppointmentFound:
		s.logger.Info("appointment found, alerting subscribers", fields)
		s.alertSubscribers(ctx, outcome)
		if s.cfg.Schedule.CountFoundTowardRestart {
			s.sessions.CountCheck()
		}

	case domain.OutcomeNoSlotsAvailable:
		s.logger.Info("no slots available", fields)
		s.sessions.CountCheck()

	case domain.OutcomeRecoverableFailure:
		fields["reason"] = string(outcome.Reason())
		s.logger.Error("check failed", outcome.Failure(), fields)
		s.sessions.CountCheck()
		if !s.cfg.Schedule.IsQuiet(outcome.Reason()) {
			s.notifyOperator(ctx, fmt.Sprintf(msgUnexpected, outcome.Reason(), outcome.Failure().Err))
		}
		if outcome.Reason() == domain.ReasonSessionLost {
			if ctx.Err() != nil {
				return s.interrupted(cycleID, outcome, ctx.Err())
			}
			if err := s.sessions.Restart(ctx); err != nil {
				s.logger.Error("browser relaunch failed", err, fields)
				s.notifyOperator(ctx, msgRestartFailed)
				return domain.OutcomeFromError(err), err
			}
			s.notifyOperator(ctx, msgSessionRestart)
		}

	case domain.OutcomeFatalFailure:
		fields["reason"] = string(outcome.Reason())
		s.logger.Error("fatal check failure, halting", outcome.Failure(), fields)
		s.notifyOperator(ctx, fmt.Sprintf(msgFatalOutcome, outcome.Reason(), outcome.Failure().Err))
		return outcome, outcome.Failure()
	}

	if ctx.Err() != nil {
		return s.interrupted(cycleID, outcome, ctx.Err())
	}
	if _, err := s.sessions.MaybeRestart(ctx); err != nil {
		s.logger.Error("scheduled browser restart failed", err, fields)
		s.notifyOperator(ctx, msgRestartFailed)
		return domain.OutcomeFromError(err), err
	}
	return outcome, nil
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() domain.MonitorStats {
	s.mu.RLock()
	stats := s.stats
	s.mu.RUnlock()
	stats.ChecksSinceRestart = s.sessions.ChecksSinceRestart()
	stats.Restarts = s.sessions.Restarts()
	return stats
}

func (s *Scheduler) alertSubscribers(ctx context.Context, outcome domain.CheckOutcome) {
	recipients := s.subscribers.All()
	text := s.notifier.SendText(ctx, recipients, s.cfg.RenderFoundMessage(outcome.EntryURL()))

	fields := map[string]interface{}{
		"recipients":     len(recipients),
		"text_delivered": text.Delivered,
		"text_failed":    text.Failed,
	}
	if snapshot := outcome.Snapshot(); len(snapshot) > 0 {
		img := s.notifier.SendImage(ctx, recipients, snapshot, s.cfg.ImageCaption())
		fields["image_size"] = humanize.Bytes(uint64(len(snapshot)))
		fields["image_delivered"] = img.Delivered
		fields["image_skipped"] = img.Skipped
		fields["image_failed"] = img.Failed
	} else {
		s.logger.Warn("no screenshot captured, sending text alert only", nil)
	}
	s.logger.Info("alert sent", fields)
}

func (s *Scheduler) interrupted(cycleID string, outcome domain.CheckOutcome, err error) (domain.CheckOutcome, error) {
	s.logger.Info("check interrupted by shutdown", map[string]interface{}{"cycle_id": cycleID})
	return outcome, err
}

func (s *Scheduler) notifyOperator(ctx context.Context, message string) {
	op := s.cfg.Telegram.OperatorID
	if op == 0 {
		s.logger.Warn("no operator configured, dropping message", map[string]interface{}{"message": message})
		return
	}
	report := s.notifier.SendText(ctx, []domain.RecipientID{op}, message)
	if report.Delivered == 0 {
		s.logger.Warn("operator message not delivered", map[string]interface{}{"operator": op.String()})
	}
}

func (s *Scheduler) record(start time.Time, outcome domain.CheckOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Cycles++
	s.stats.LastCheckAt = start
	s.stats.LastDuration = s.clock.Now().Sub(start)
	s.stats.LastOutcome = outcome.Kind()
	s.stats.LastReason = outcome.Reason()
	if outcome.Kind() == domain.OutcomeAppointmentFound {
		s.stats.SlotsFound++
	}
}

package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/omar4-4mohsen/dates-monitor/internal/application/monitor"
	"github.com/omar4-4mohsen/dates-monitor/internal/application/navigation"
	"github.com/omar4-4mohsen/dates-monitor/internal/application/notify"
	"github.com/omar4-4mohsen/dates-monitor/internal/application/subscription"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/health"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/telegram"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// ErrNoToken is returned when the bot is required but no token is set.
var ErrNoToken = errors.New("telegram bot token not set")

// MonitorOptions selects what NewMonitor wires.
type MonitorOptions struct {
	// DryRun logs alerts instead of sending them and disables the bot.
	DryRun bool
	// Once builds only what a single cycle needs: no bot listener, no health server.
	Once bool
}

// Monitor is the long-running process: scheduler, bot listener and health
// endpoint sharing one lifetime.
type Monitor struct {
	Scheduler *monitor.Scheduler
	Sessions  *monitor.SessionManager
	Registry  *subscription.Registry
	// Poller and Health are nil when not wired.
	Poller *telegram.Poller
	Health *health.Server

	logger ports.Logger
}

// NewMonitor wires the runtime graph on top of the container's adapters.
func (c *Container) NewMonitor(opts MonitorOptions) (*Monitor, error) {
	cfg := c.Config
	log := c.Logger

	var messenger ports.Messenger
	switch {
	case opts.DryRun:
		messenger = notify.LogMessenger{Logger: log}
	case c.Telegram != nil:
		messenger = c.Telegram
	case opts.Once:
		log.Warn("no bot token, alerts will only be logged", map[string]interface{}{"env": cfg.Telegram.TokenEnv})
		messenger = notify.LogMessenger{Logger: log}
	default:
		return nil, ErrNoToken
	}

	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	registry := subscription.NewRegistry(store, cfg.Telegram.OperatorID, log)

	sessions := monitor.NewSessionManager(c.Launcher, cfg.Schedule.RestartEvery, log)
	scheduler := monitor.NewScheduler(
		cfg,
		navigation.New(cfg, c.Clock, log),
		sessions,
		notify.NewFanout(messenger, cfg.Notify.MaxImageBytes, log),
		registry,
		c.Clock,
		log,
	)

	m := &Monitor{
		Scheduler: scheduler,
		Sessions:  sessions,
		Registry:  registry,
		logger:    log,
	}
	if opts.Once {
		scheduler.MaxCycles = 1
		return m, nil
	}
	if c.Telegram != nil && !opts.DryRun {
		m.Poller = &telegram.Poller{
			Source:  c.Telegram,
			Handler: subscription.NewHandler(cfg, registry, messenger, scheduler, c.Clock, log),
			Timeout: cfg.Telegram.PollTimeout,
			Backoff: cfg.Telegram.PollBackoff,
			Clock:   c.Clock,
			Logger:  log,
		}
	}
	if cfg.Health.Enabled {
		m.Health = health.NewServer(cfg.Health, log)
	}
	return m, nil
}

// Run loads subscribers and runs every wired component until ctx is
// cancelled or the scheduler stops. The scheduler's fatal error is returned.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Registry.Load(ctx); err != nil {
		return err
	}
	defer m.closeSessions()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return m.Scheduler.Run(gctx)
	})
	if m.Poller != nil {
		g.Go(func() error { return m.Poller.Run(gctx) })
	}
	if m.Health != nil {
		g.Go(func() error { return m.Health.Run(gctx) })
	}

	m.logger.Info("monitor started", map[string]interface{}{
		"subscribers": m.Registry.Count(),
		"bot":         m.Poller != nil,
		"health":      m.Health != nil,
	})
	err := g.Wait()
	m.logger.Info("monitor stopped", nil)
	return err
}

// RunOnce performs a single cycle and returns its outcome.
func (m *Monitor) RunOnce(ctx context.Context) (domain.CheckOutcome, error) {
	if err := m.Registry.Load(ctx); err != nil {
		return domain.CheckOutcome{}, err
	}
	defer m.closeSessions()
	return m.Scheduler.RunCycle(ctx)
}

func (m *Monitor) closeSessions() {
	if err := m.Sessions.Close(); err != nil {
		m.logger.Warn("failed to close browser", map[string]interface{}{"error": err.Error()})
	}
}

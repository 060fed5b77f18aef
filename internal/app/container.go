package app

import (
	"context"
	"sync"

	"github.com/omar4-4mohsen/dates-monitor/internal/application/doctor"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/browser"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/subscribers"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/telegram"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/clock"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/logger"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Options are process-level switches that precede the config file.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
// Cheap adapters are built eagerly; the subscriber store is opened on first
// use so config-only commands never touch it.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.SlogLogger
	Clock          ports.Clock
	Launcher       ports.BrowserLauncher
	// Telegram is nil when no bot token is configured.
	Telegram *telegram.Client

	storeOnce sync.Once
	store     subscribers.Store
	storeErr  error
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: opts.Verbose,
	})

	launcher, err := browser.New(cfg.Browser, log)
	if err != nil {
		return nil, err
	}

	var bot *telegram.Client
	if token := config.TelegramToken(cfg); token != "" {
		bot = telegram.NewClient(cfg.Telegram.APIBase, token, cfg.Telegram.PollTimeout)
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Clock:          clock.New(),
		Launcher:       launcher,
		Telegram:       bot,
	}, nil
}

// Store opens the configured subscriber backend once.
func (c *Container) Store() (subscribers.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = subscribers.New(c.Config.Subscribers)
	})
	return c.store, c.storeErr
}

// Doctor assembles the diagnostics service.
func (c *Container) Doctor() *doctor.Service {
	svc := &doctor.Service{
		ConfigProvider: c.ConfigProvider,
		Launcher:       c.Launcher,
		TokenPresent:   c.Telegram != nil,
	}
	if c.Telegram != nil {
		svc.Bot = c.Telegram
	}
	store, err := c.Store()
	if err != nil {
		svc.StoreErr = err
	} else {
		svc.Store = store
	}
	return svc
}

// Close releases the subscriber store if it was opened.
func (c *Container) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

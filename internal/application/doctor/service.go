package doctor

import (
	"context"
	"fmt"

	appconfig "github.com/omar4-4mohsen/dates-monitor/internal/application/config"
	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.SubscriberStore
	Launcher       ports.BrowserLauncher
	Bot            ports.BotIdentity

	// StoreErr is the error from opening Store, if any.
	StoreErr error
	// TokenPresent reports whether the bot token env var is set.
	TokenPresent bool
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded version %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
	} else {
		checks = append(checks, ok("Config validation", fmt.Sprintf("watching %s", cfg.Target.EntryURL)))
	}

	if s.StoreErr != nil {
		checks = append(checks, fail("Subscriber store", fmt.Sprintf("%s backend: %v", cfg.Subscribers.Backend, s.StoreErr)))
	} else if s.Store != nil {
		checks = append(checks, s.storeCheck(ctx, cfg))
	}

	if cfg.Telegram.OperatorID == 0 {
		checks = append(checks, warn("Operator", "telegram.operator_id not set; failures will only be logged"))
	} else {
		checks = append(checks, ok("Operator", cfg.Telegram.OperatorID.String()))
	}

	checks = append(checks, s.botCheck(ctx, cfg))

	if s.Launcher != nil {
		checks = append(checks, s.browserCheck(ctx, cfg))
	} else {
		checks = append(checks, warn("Browser", "launch check skipped"))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) storeCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	backend := cfg.Subscribers.Backend
	if p, isRemote := s.Store.(ports.Pinger); isRemote {
		if err := p.Ping(ctx); err != nil {
			return fail("Subscriber store", fmt.Sprintf("%s backend at %s unreachable: %v", backend, cfg.Subscribers.RedisAddr, err))
		}
	}
	ids, err := s.Store.Load(ctx)
	if err != nil {
		return fail("Subscriber store", err.Error())
	}
	return ok("Subscriber store", fmt.Sprintf("%s backend, %d subscribers", backend, len(ids)))
}

func (s *Service) botCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !s.TokenPresent {
		return fail("Telegram", fmt.Sprintf("%s missing", cfg.Telegram.TokenEnv))
	}
	if s.Bot == nil {
		return warn("Telegram", "token present, not verified")
	}
	name, err := s.Bot.Identity(ctx)
	if err != nil {
		return fail("Telegram", err.Error())
	}
	return ok("Telegram", "@"+name)
}

func (s *Service) browserCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	session, err := s.Launcher.Launch(ctx)
	if err != nil {
		return fail("Browser", fmt.Sprintf("%s launch failed: %v", cfg.Browser.Driver, err))
	}
	if err := session.Close(); err != nil {
		return warn("Browser", fmt.Sprintf("%s launched but close failed: %v", cfg.Browser.Driver, err))
	}
	return ok("Browser", fmt.Sprintf("%s launched", cfg.Browser.Driver))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateTarget(cfg.Target); err != nil {
		return err
	}
	if err := validateNavigation(cfg.Navigation); err != nil {
		return err
	}
	if err := validateMatching(cfg); err != nil {
		return err
	}
	if err := validateSchedule(cfg.Schedule); err != nil {
		return err
	}
	if err := validateBrowser(cfg.Browser); err != nil {
		return err
	}
	if err := validateTelegram(cfg.Telegram); err != nil {
		return err
	}
	if cfg.Notify.MaxImageBytes < 1 {
		return errors.New("notify.max_image_bytes must be > 0")
	}
	if err := validateSubscribers(cfg.Subscribers); err != nil {
		return err
	}
	if cfg.Health.Enabled && !strings.HasPrefix(cfg.Health.Path, "/") {
		return fmt.Errorf("health.path must start with /, got %q", cfg.Health.Path)
	}
	return nil
}

func validateTarget(t domain.TargetSettings) error {
	if t.EntryURL == "" {
		return errors.New("target.entry_url must be set")
	}
	u, err := url.Parse(t.EntryURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.entry_url must be an absolute URL, got %q", t.EntryURL)
	}
	if strings.TrimSpace(t.ServiceKeyword) == "" {
		return errors.New("target.service_keyword must be set")
	}
	if t.Steps < 1 {
		return errors.New("target.steps must be > 0")
	}
	return nil
}

func validateNavigation(n domain.NavigationSettings) error {
	if n.Timeout <= 0 {
		return errors.New("navigation.timeout must be > 0")
	}
	if n.WaitRetries < 1 {
		return errors.New("navigation.wait_retries must be > 0")
	}
	if n.RetryDelay < 0 {
		return errors.New("navigation.retry_delay must be >= 0")
	}
	if n.RecoveryLimit < 1 {
		return errors.New("navigation.recovery_limit must be >= 1")
	}
	if n.ForwardStepsAfterBack < 0 {
		return errors.New("navigation.forward_steps_after_back must be >= 0")
	}
	return nil
}

func validateMatching(cfg domain.Config) error {
	if !hasNonBlank(cfg.Labels.Next) {
		return errors.New("labels.next must contain at least one label")
	}
	if !hasNonBlank(cfg.Labels.Back) {
		return errors.New("labels.back must contain at least one label")
	}
	if !hasNonBlank(cfg.ErrorMarkers) {
		return errors.New("error_markers must contain at least one marker")
	}
	for name, sel := range map[string]string{
		"selectors.service": cfg.Selectors.Service,
		"selectors.choices": cfg.Selectors.Choices,
		"selectors.submit":  cfg.Selectors.Submit,
	} {
		if strings.TrimSpace(sel) == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	return nil
}

func validateSchedule(s domain.ScheduleSettings) error {
	if s.Interval <= 0 {
		return errors.New("schedule.interval must be > 0")
	}
	if s.RestartEvery < 0 {
		return errors.New("schedule.restart_every must be >= 0")
	}
	return nil
}

func validateBrowser(b domain.BrowserSettings) error {
	switch b.Driver {
	case domain.DriverChromedp, domain.DriverPlaywright:
		return nil
	default:
		return fmt.Errorf("browser.driver must be %s|%s, got %q", domain.DriverChromedp, domain.DriverPlaywright, b.Driver)
	}
}

func validateTelegram(t domain.TelegramSettings) error {
	if t.TokenEnv == "" {
		return errors.New("telegram.token_env must be set")
	}
	if t.PollTimeout < 0 || t.PollBackoff < 0 {
		return errors.New("telegram poll durations must be >= 0")
	}
	return nil
}

func validateSubscribers(s domain.SubscriberSettings) error {
	switch s.Backend {
	case domain.BackendFile, domain.BackendSQLite:
		if s.Path == "" {
			return fmt.Errorf("subscribers.path must be set for backend %s", s.Backend)
		}
	case domain.BackendRedis:
		if s.RedisAddr == "" || s.RedisKey == "" {
			return errors.New("subscribers.redis_addr and subscribers.redis_key must be set")
		}
	default:
		return fmt.Errorf("subscribers.backend must be file|sqlite|redis, got %q", s.Backend)
	}
	return nil
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

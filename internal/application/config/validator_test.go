package config

import (
	"strings"
	"testing"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Target: domain.TargetSettings{
			EntryURL:       domain.DefaultEntryURL,
			ServiceKeyword: "master",
			Steps:          3,
		},
		Navigation: domain.NavigationSettings{
			Timeout:               10 * time.Second,
			WaitRetries:           3,
			RetryDelay:            time.Second,
			RecoveryLimit:         5,
			ForwardStepsAfterBack: 2,
		},
		Labels:       domain.LabelSettings{Next: []string{"Next"}, Back: []string{"Back"}},
		ErrorMarkers: []string{"unfortunately"},
		Selectors: domain.SelectorSettings{
			Service: domain.DefaultServiceSelector,
			Choices: domain.DefaultChoiceSelector,
			Submit:  domain.DefaultSubmitSelector,
		},
		Schedule:    domain.ScheduleSettings{Interval: 3 * time.Second, RestartEvery: 500000},
		Browser:     domain.BrowserSettings{Driver: domain.DriverChromedp},
		Telegram:    domain.TelegramSettings{TokenEnv: domain.DefaultTokenEnv},
		Notify:      domain.NotifySettings{MaxImageBytes: domain.DefaultMaxImageBytes},
		Subscribers: domain.SubscriberSettings{Backend: domain.BackendFile, Path: "/tmp/chat_ids.json"},
		Health:      domain.HealthSettings{Enabled: true, Path: "/health"},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{"empty url", func(c *domain.Config) { c.Target.EntryURL = "" }, "target.entry_url"},
		{"relative url", func(c *domain.Config) { c.Target.EntryURL = "appointment/?Office=Kairo" }, "absolute URL"},
		{"zero steps", func(c *domain.Config) { c.Target.Steps = 0 }, "target.steps"},
		{"zero timeout", func(c *domain.Config) { c.Navigation.Timeout = 0 }, "navigation.timeout"},
		{"zero retries", func(c *domain.Config) { c.Navigation.WaitRetries = 0 }, "navigation.wait_retries"},
		{"recovery cap", func(c *domain.Config) { c.Navigation.RecoveryLimit = 0 }, "navigation.recovery_limit"},
		{"no next labels", func(c *domain.Config) { c.Labels.Next = []string{" "} }, "labels.next"},
		{"no back labels", func(c *domain.Config) { c.Labels.Back = nil }, "labels.back"},
		{"no markers", func(c *domain.Config) { c.ErrorMarkers = nil }, "error_markers"},
		{"empty selector", func(c *domain.Config) { c.Selectors.Choices = "" }, "selectors.choices"},
		{"zero interval", func(c *domain.Config) { c.Schedule.Interval = 0 }, "schedule.interval"},
		{"unknown driver", func(c *domain.Config) { c.Browser.Driver = "rod" }, "browser.driver"},
		{"unknown backend", func(c *domain.Config) { c.Subscribers.Backend = "postgres" }, "subscribers.backend"},
		{"redis without key", func(c *domain.Config) {
			c.Subscribers.Backend = domain.BackendRedis
			c.Subscribers.RedisAddr = "localhost:6379"
		}, "redis_key"},
		{"image cap", func(c *domain.Config) { c.Notify.MaxImageBytes = 0 }, "notify.max_image_bytes"},
		{"health path", func(c *domain.Config) { c.Health.Path = "health" }, "health.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

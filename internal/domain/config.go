package domain

import "time"

// Config mirrors ~/.datesmon/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Target              TargetSettings     `yaml:"target"`
	Navigation          NavigationSettings `yaml:"navigation"`
	Labels              LabelSettings      `yaml:"labels"`
	ErrorMarkers        []string           `yaml:"error_markers"`
	Selectors           SelectorSettings   `yaml:"selectors"`
	Schedule            ScheduleSettings   `yaml:"schedule"`
	Browser             BrowserSettings    `yaml:"browser"`
	Telegram            TelegramSettings   `yaml:"telegram"`
	Notify              NotifySettings     `yaml:"notify"`
	Subscribers         SubscriberSettings `yaml:"subscribers"`
	Health              HealthSettings     `yaml:"health"`
	Logging             LoggingSettings    `yaml:"logging"`
}

// TargetSettings describes the form being watched.
type TargetSettings struct {
	EntryURL       string `yaml:"entry_url"`
	ServiceKeyword string `yaml:"service_keyword"`
	Steps          int    `yaml:"steps"`
}

// NavigationSettings tunes waits, retries and error recovery.
type NavigationSettings struct {
	Timeout               time.Duration `yaml:"timeout"`
	WaitRetries           int           `yaml:"wait_retries"`
	RetryDelay            time.Duration `yaml:"retry_delay"`
	RecoveryLimit         int           `yaml:"recovery_limit"`
	ForwardStepsAfterBack int           `yaml:"forward_steps_after_back"`
}

// LabelSettings holds the locale-aware captions of the submit controls.
type LabelSettings struct {
	Next []string `yaml:"next"`
	Back []string `yaml:"back"`
}

// SelectorSettings are CSS selectors for the controls the flow touches.
type SelectorSettings struct {
	Service string `yaml:"service"`
	Choices string `yaml:"choices"`
	Submit  string `yaml:"submit"`
}

// ScheduleSettings controls pacing and session hygiene.
type ScheduleSettings struct {
	Interval                time.Duration   `yaml:"interval"`
	RestartEvery            int             `yaml:"restart_every"`
	CountFoundTowardRestart bool            `yaml:"count_found_toward_restart"`
	QuietReasons            []FailureReason `yaml:"quiet_reasons"`
}

// BrowserSettings selects and configures the automation driver.
type BrowserSettings struct {
	Driver   string   `yaml:"driver"`
	Headless bool     `yaml:"headless"`
	Args     []string `yaml:"args"`

	// ExecutablePath pins the Chrome/Chromium binary. Empty means auto-detect.
	ExecutablePath string `yaml:"executable_path"`
}

// TelegramSettings configures the bot transport. The token itself is read
// from the environment variable named by TokenEnv.
type TelegramSettings struct {
	APIBase     string        `yaml:"api_base"`
	TokenEnv    string        `yaml:"token_env"`
	OperatorID  RecipientID   `yaml:"operator_id"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
	PollBackoff time.Duration `yaml:"poll_backoff"`
}

// NotifySettings holds alert templates and payload limits.
type NotifySettings struct {
	MaxImageBytes int    `yaml:"max_image_bytes"`
	FoundMessage  string `yaml:"found_message"`
	ImageCaption  string `yaml:"image_caption"`
}

// SubscriberSettings picks the persistence backend for recipients.
type SubscriberSettings struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`
}

// HealthSettings configures the liveness endpoint.
type HealthSettings struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
	Body    string `yaml:"body"`
}

// LoggingSettings configures the process logger.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IsQuiet reports whether a recoverable failure should stay off the operator channel.
func (s ScheduleSettings) IsQuiet(reason FailureReason) bool {
	for _, r := range s.QuietReasons {
		if r == reason {
			return true
		}
	}
	return false
}

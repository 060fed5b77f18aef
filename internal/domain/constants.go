package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Navigation defaults. The embedded config.yaml carries the full set.
const (
	DefaultEntryURL      = "https://appointment.bmeia.gv.at/?Office=Kairo"
	DefaultWaitRetries   = 3
	DefaultRecoveryLimit = 5
)

// Selector defaults
const (
	DefaultServiceSelector = "tbody tr:nth-child(2) td select"
	DefaultChoiceSelector  = `input[type="radio"]`
	DefaultSubmitSelector  = `input[type="submit"]`
)

// Notification defaults
const (
	// DefaultMaxImageBytes caps screenshot uploads (50 MiB)
	DefaultMaxImageBytes = 50 * 1024 * 1024
	DefaultTokenEnv      = "DATESMON_TELEGRAM_TOKEN"
)

// Browser drivers
const (
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
)

// Subscriber backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	DefaultSubscriberFile = "chat_ids.json"
	DefaultSubscriberDB   = "subscribers.db"
)

// Config file defaults
const (
	ConfigFormatVersion = "1"
	ConfigFileName      = "config.yaml"
)

// Environment variables
const (
	EnvConfigPath = "DATESMON_CONFIG"
	EnvOperatorID = "DATESMON_OPERATOR_ID"
	EnvDebug      = "DATESMON_DEBUG"
)

// DefaultNextLabels and friends are vars because Go has no slice constants.
var (
	DefaultNextLabels   = []string{"Next", "التالى"}
	DefaultErrorMarkers = []string{
		"unfortunately",
		"allocated",
		"vergeben",
		"relocate",
		"alocate",
		"no appointment",
		"kein termin",
	}
	DefaultQuietReasons = []FailureReason{
		ReasonTimeout,
		ReasonElementNotFound,
		ReasonNavigationFailed,
	}
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)

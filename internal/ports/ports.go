// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the check-cycle engine and
// external adapters (infrastructure). The engine only sees capability-level
// browser, messaging and storage abstractions; chromedp, playwright, Telegram,
// SQLite and Redis live behind these interfaces.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Page, Messenger, SubscriberStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.datesmon/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// BrowserLauncher starts a new automation session (a browser process).
type BrowserLauncher interface {
	Launch(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is a long-lived browser shared by consecutive cycles.
type BrowserSession interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single tab. Every call is bounded by the timeout passed in or by ctx.
type Page interface {
	// Goto navigates and waits until the network is idle.
	Goto(ctx context.Context, url string, timeout time.Duration) error
	// WaitForSelector blocks until at least one element matches.
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	// QueryAll returns the matching elements in document order without waiting.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Text returns the visible text of the document body.
	Text(ctx context.Context) (string, error)
	// Options lists the options of a single-select control.
	Options(ctx context.Context, selector string) ([]SelectOption, error)
	// Select picks the option with the given value and fires change events.
	Select(ctx context.Context, selector, value string) error
	// Screenshot captures the full page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	URL() string
	Close() error
}

// Element is a handle to a form control on a Page.
type Element interface {
	// Value returns the control's current value property.
	Value(ctx context.Context) (string, error)
	// ClickAndWait triggers the control and waits for the resulting
	// navigation to settle (network idle) within timeout.
	ClickAndWait(ctx context.Context, timeout time.Duration) error
}

// SelectOption is one entry of a single-select control.
type SelectOption struct {
	Label string
	Value string
}

// Messenger delivers to a single recipient. Fan-out lives in the application layer.
type Messenger interface {
	SendText(ctx context.Context, to domain.RecipientID, text string) error
	SendImage(ctx context.Context, to domain.RecipientID, image []byte, caption string) error
}

// BotIdentity verifies messenger credentials.
type BotIdentity interface {
	// Identity returns the bot's username.
	Identity(ctx context.Context) (string, error)
}

// NotificationGateway fans alerts out to a recipient set.
type NotificationGateway interface {
	SendText(ctx context.Context, recipients []domain.RecipientID, message string) domain.DeliveryReport
	SendImage(ctx context.Context, recipients []domain.RecipientID, image []byte, caption string) domain.DeliveryReport
}

// SubscriberStore persists recipient ids. Add must be idempotent.
type SubscriberStore interface {
	Load(ctx context.Context) ([]domain.RecipientID, error)
	Add(ctx context.Context, id domain.RecipientID) (added bool, err error)
}

// Pinger is implemented by stores that sit behind a network server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SubscriberSet is the read/register view the engine and bot use.
type SubscriberSet interface {
	Add(ctx context.Context, id domain.RecipientID) (added bool, err error)
	All() []domain.RecipientID
}

// MessageHandler reacts to inbound bot messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg domain.InboundMessage) error
}

// StatsProvider exposes scheduler statistics.
type StatsProvider interface {
	Stats() domain.MonitorStats
}

// Clock abstracts time so pacing and backoff can be tested.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

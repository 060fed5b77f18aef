package commands

import (
	"context"

	"github.com/omar4-4mohsen/dates-monitor/internal/app"
)

// ContainerFunc returns the process container, building it on first call.
// Commands call it from RunE so persistent flags are already parsed.
type ContainerFunc func(ctx context.Context) (*app.Container, error)

// Config editing
const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// Error messages
const (
	ErrConfigLoaderUnavailable = "config loader unavailable"
	ErrKeyRequired             = "--key is required"
	ErrInvalidSubscriberID     = "subscriber id must be a non-zero integer chat id"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoSubscribers            = "No subscribers yet."

	msgCheckInterrupted = "Check interrupted."
)

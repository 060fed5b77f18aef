// Package browser adapts real browser drivers to the ports.BrowserLauncher
// family. Two drivers are available: chromedp (DevTools protocol, needs only a
// local Chrome) and playwright (needs the Playwright driver installed).
package browser

import (
	"fmt"
	"strings"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// New returns the launcher for settings.Driver.
func New(settings domain.BrowserSettings, log ports.Logger) (ports.BrowserLauncher, error) {
	switch settings.Driver {
	case "", domain.DriverChromedp:
		return &ChromedpLauncher{
			Headless: settings.Headless,
			Args:     settings.Args,
			ExecPath: settings.ExecutablePath,
			Logger:   log,
		}, nil
	case domain.DriverPlaywright:
		return &PlaywrightLauncher{
			Headless:       settings.Headless,
			Args:           settings.Args,
			ExecutablePath: settings.ExecutablePath,
			Logger:         log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", settings.Driver)
	}
}

// parseArgs turns command-line switches into chromedp flags.
// "--foo" becomes foo=true, "--foo=bar" becomes foo="bar".
func parseArgs(args []string) map[string]interface{} {
	flags := make(map[string]interface{}, len(args))
	for _, arg := range args {
		arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
		if arg == "" {
			continue
		}
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			flags[name] = true
			continue
		}
		flags[name] = value
	}
	return flags
}

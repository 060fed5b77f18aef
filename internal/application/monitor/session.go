package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// SessionManager owns the shared browser session and its restart cadence.
// It is the only holder of the session handle; the scheduler borrows it per
// cycle through Acquire.
type SessionManager struct {
	launcher     ports.BrowserLauncher
	restartEvery int
	logger       ports.Logger

	mu       sync.Mutex
	session  ports.BrowserSession
	checks   int
	restarts int
}

// NewSessionManager creates a manager that recycles the session after
// restartEvery counted checks. A non-positive value disables recycling.
func NewSessionManager(launcher ports.BrowserLauncher, restartEvery int, log ports.Logger) *SessionManager {
	return &SessionManager{
		launcher:     launcher,
		restartEvery: restartEvery,
		logger:       log,
	}
}

// Acquire returns the current session, launching one on first use.
// A launch failure is fatal.
func (m *SessionManager) Acquire(ctx context.Context) (ports.BrowserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return m.session, nil
	}
	if err := m.launchLocked(ctx); err != nil {
		return nil, err
	}
	return m.session, nil
}

// CountCheck records one counted cycle and returns the new total.
func (m *SessionManager) CountCheck() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	return m.checks
}

// ChecksSinceRestart returns the counted cycles since the last (re)launch.
func (m *SessionManager) ChecksSinceRestart() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks
}

// Restarts returns how many times the session has been recycled.
func (m *SessionManager) Restarts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restarts
}

// MaybeRestart recycles the session once the counter reaches the cadence.
// It reports whether a restart happened.
func (m *SessionManager) MaybeRestart(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restartEvery <= 0 || m.checks == 0 || m.checks%m.restartEvery != 0 {
		return false, nil
	}
	m.logger.Info("restart cadence reached, recycling browser", map[string]interface{}{
		"checks": m.checks,
	})
	if err := m.relaunchLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Restart closes the current session and launches a replacement
// immediately. Used after a session-level fault.
func (m *SessionManager) Restart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Warn("relaunching browser after session fault", nil)
	return m.relaunchLocked(ctx)
}

// Close releases the session, if any.
func (m *SessionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *SessionManager) relaunchLocked(ctx context.Context) error {
	if err := m.closeLocked(); err != nil {
		m.logger.Warn("failed to close browser before relaunch", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := m.launchLocked(ctx); err != nil {
		return err
	}
	m.checks = 0
	m.restarts++
	return nil
}

func (m *SessionManager) launchLocked(ctx context.Context) error {
	session, err := m.launcher.Launch(ctx)
	if err != nil {
		return domain.Fatal(domain.ReasonLaunchFailed, fmt.Errorf("launch browser: %w", err))
	}
	m.session = session
	m.logger.Info("browser launched", nil)
	return nil
}

func (m *SessionManager) closeLocked() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Close()
	m.session = nil
	return err
}

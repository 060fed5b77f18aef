package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/infrastructure/browser"
)

func buildTestContainer(t *testing.T, token string) *Container {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(domain.EnvConfigPath, "")
	t.Setenv(domain.EnvOperatorID, "")
	t.Setenv(domain.DefaultTokenEnv, token)

	c, err := BuildContainer(context.Background(), Options{ConfigPath: filepath.Join(home, "cfg", "config.yaml")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBuildContainerUsesDefaults(t *testing.T) {
	c := buildTestContainer(t, "")

	require.Equal(t, domain.DefaultEntryURL, c.Config.Target.EntryURL)
	require.IsType(t, &browser.ChromedpLauncher{}, c.Launcher)
	require.Nil(t, c.Telegram)
	require.FileExists(t, c.ConfigLoader.Path())
}

func TestNewMonitorRequiresToken(t *testing.T) {
	c := buildTestContainer(t, "")

	_, err := c.NewMonitor(MonitorOptions{})
	require.True(t, errors.Is(err, ErrNoToken), "got %v", err)
}

func TestNewMonitorOnceWithoutToken(t *testing.T) {
	c := buildTestContainer(t, "")

	m, err := c.NewMonitor(MonitorOptions{Once: true})
	require.NoError(t, err)
	require.Equal(t, 1, m.Scheduler.MaxCycles)
	require.Nil(t, m.Poller)
	require.Nil(t, m.Health)
}

func TestNewMonitorWiresBotAndHealth(t *testing.T) {
	c := buildTestContainer(t, "123:ABC")
	require.NotNil(t, c.Telegram)

	m, err := c.NewMonitor(MonitorOptions{})
	require.NoError(t, err)
	require.NotNil(t, m.Poller)
	require.NotNil(t, m.Health)

	dry, err := c.NewMonitor(MonitorOptions{DryRun: true})
	require.NoError(t, err)
	require.Nil(t, dry.Poller, "dry runs never answer the bot")
}

func TestDoctorReportsTokenAndStore(t *testing.T) {
	c := buildTestContainer(t, "")

	svc := c.Doctor()
	require.False(t, svc.TokenPresent)
	require.Nil(t, svc.Bot)
	require.NoError(t, svc.StoreErr)
	require.NotNil(t, svc.Store)
}

package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/logger"
)

func TestNewSelectsDriver(t *testing.T) {
	settings := domain.BrowserSettings{
		Driver:         domain.DriverChromedp,
		Headless:       true,
		Args:           []string{"--no-sandbox"},
		ExecutablePath: "/usr/bin/chromium",
	}

	launcher, err := New(settings, logger.Nop())
	require.NoError(t, err)
	cd, ok := launcher.(*ChromedpLauncher)
	require.True(t, ok, "got %T", launcher)
	require.True(t, cd.Headless)
	require.Equal(t, "/usr/bin/chromium", cd.ExecPath)

	settings.Driver = domain.DriverPlaywright
	launcher, err = New(settings, logger.Nop())
	require.NoError(t, err)
	require.IsType(t, &PlaywrightLauncher{}, launcher)

	_, err = New(domain.BrowserSettings{Driver: "rod"}, logger.Nop())
	require.ErrorContains(t, err, "rod")
}

func TestParseArgs(t *testing.T) {
	got := parseArgs([]string{"--no-sandbox", "--window-size=1280,900", " ", "--lang=de"})
	require.Equal(t, map[string]interface{}{
		"no-sandbox":  true,
		"window-size": "1280,900",
		"lang":        "de",
	}, got)
}

func TestLaunchHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&ChromedpLauncher{Logger: logger.Nop()}).Launch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = (&PlaywrightLauncher{Logger: logger.Nop()}).Launch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBindFollowsCallerContext(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	defer cancelParent()
	caller, cancelCaller := context.WithCancel(context.Background())

	bounded, release := bind(caller, parent, time.Minute)
	defer release()
	cancelCaller()

	select {
	case <-bounded.Done():
	case <-time.After(time.Second):
		t.Fatal("bounded context not cancelled with caller")
	}
	require.NoError(t, parent.Err())
}

func TestDeadlineNormalizesTimeouts(t *testing.T) {
	bounded, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-bounded.Done()

	err := deadline(context.Background(), bounded, context.Canceled)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

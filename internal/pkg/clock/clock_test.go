package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSleepReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := New().Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("Sleep did not return promptly on cancelled context")
	}
}

func TestSleepZeroDuration(t *testing.T) {
	if err := New().Sleep(context.Background(), 0); err != nil {
		t.Fatalf("Sleep(0) error = %v", err)
	}
}

func TestSleepElapses(t *testing.T) {
	start := time.Now()
	if err := New().Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep error = %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("Sleep returned early")
	}
}

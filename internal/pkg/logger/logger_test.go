package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestJSONLoggerWritesFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Writer: &buf})

	log.Error("cycle failed", errors.New("boom"), map[string]interface{}{"cycle": 7, "reason": "timeout"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["msg"] != "cycle failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["reason"] != "timeout" {
		t.Errorf("reason = %v", entry["reason"])
	}
	if entry["err"] != "boom" {
		t.Errorf("err = %v", entry["err"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "json", Writer: &buf})
	log.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}

	verbose := New(Options{Level: "info", Format: "json", Writer: &buf, Verbose: true})
	verbose.Debug("shown", nil)
	if buf.Len() == 0 {
		t.Fatal("expected verbose logger to emit debug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

package domain

import (
	"context"
	"errors"
	"fmt"
)

// FailureReason classifies why a check cycle did not complete.
type FailureReason string

const (
	ReasonTimeout            FailureReason = "timeout"
	ReasonElementNotFound    FailureReason = "element_not_found"
	ReasonNavigationFailed   FailureReason = "navigation_failed"
	ReasonOptionNotFound     FailureReason = "option_not_found"
	ReasonNextControlMissing FailureReason = "next_control_missing"
	ReasonBackControlMissing FailureReason = "back_control_missing"
	ReasonRecoveryExhausted  FailureReason = "recovery_exhausted"
	ReasonSessionLost        FailureReason = "session_lost"
	ReasonLaunchFailed       FailureReason = "launch_failed"
	ReasonUnexpected         FailureReason = "unexpected"
)

// Severity tells the scheduler whether the affected loop may continue.
type Severity int

const (
	SeverityRecoverable Severity = iota
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "recoverable"
}

// CheckError is the typed failure raised inside a cycle. It never leaves the
// navigation layer; the orchestrator folds it into a CheckOutcome.
type CheckError struct {
	Reason   FailureReason
	Severity Severity
	Selector string
	Attempts int
	Err      error
}

func (e *CheckError) Error() string {
	msg := string(e.Reason)
	if e.Selector != "" {
		msg += fmt.Sprintf(" (selector %q", e.Selector)
		if e.Attempts > 0 {
			msg += fmt.Sprintf(", %d attempts", e.Attempts)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error halts the affected loop.
func (e *CheckError) Fatal() bool {
	return e.Severity == SeverityFatal
}

// Recoverable builds a retryable CheckError.
func Recoverable(reason FailureReason, err error) *CheckError {
	return &CheckError{Reason: reason, Severity: SeverityRecoverable, Err: err}
}

// Fatal builds a CheckError that halts the scheduler.
func Fatal(reason FailureReason, err error) *CheckError {
	return &CheckError{Reason: reason, Severity: SeverityFatal, Err: err}
}

// ElementNotFound is raised by the element waiter after exhausting its retries.
func ElementNotFound(selector string, attempts int, err error) *CheckError {
	return &CheckError{
		Reason:   ReasonElementNotFound,
		Severity: SeverityRecoverable,
		Selector: selector,
		Attempts: attempts,
		Err:      err,
	}
}

// AsCheckError extracts a CheckError from err. Deadline errors become timeouts
// and anything untyped becomes an unexpected recoverable failure.
func AsCheckError(err error) *CheckError {
	if err == nil {
		return nil
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Recoverable(ReasonTimeout, err)
	}
	return Recoverable(ReasonUnexpected, err)
}

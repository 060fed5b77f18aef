package domain

import "fmt"

// OutcomeKind tags the variant held by a CheckOutcome.
type OutcomeKind int

const (
	OutcomeAppointmentFound OutcomeKind = iota + 1
	OutcomeNoSlotsAvailable
	OutcomeRecoverableFailure
	OutcomeFatalFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAppointmentFound:
		return "appointment_found"
	case OutcomeNoSlotsAvailable:
		return "no_slots"
	case OutcomeRecoverableFailure:
		return "recoverable_failure"
	case OutcomeFatalFailure:
		return "fatal_failure"
	default:
		return "unknown"
	}
}

// CheckOutcome is the result of one navigation attempt. Fields are unexported
// so an outcome cannot change after construction.
type CheckOutcome struct {
	kind     OutcomeKind
	snapshot []byte
	entryURL string
	failure  *CheckError
}

// AppointmentFound carries the captured page image and the entry URL.
func AppointmentFound(snapshot []byte, entryURL string) CheckOutcome {
	img := make([]byte, len(snapshot))
	copy(img, snapshot)
	return CheckOutcome{kind: OutcomeAppointmentFound, snapshot: img, entryURL: entryURL}
}

// NoSlotsAvailable is the expected negative result.
func NoSlotsAvailable() CheckOutcome {
	return CheckOutcome{kind: OutcomeNoSlotsAvailable}
}

// OutcomeFromError folds a failure into the matching outcome variant.
func OutcomeFromError(err error) CheckOutcome {
	ce := AsCheckError(err)
	if ce == nil {
		ce = Recoverable(ReasonUnexpected, nil)
	}
	if ce.Fatal() {
		return CheckOutcome{kind: OutcomeFatalFailure, failure: ce}
	}
	return CheckOutcome{kind: OutcomeRecoverableFailure, failure: ce}
}

func (o CheckOutcome) Kind() OutcomeKind { return o.kind }

// Snapshot returns a copy of the captured image; nil unless an appointment was found.
func (o CheckOutcome) Snapshot() []byte {
	if o.snapshot == nil {
		return nil
	}
	img := make([]byte, len(o.snapshot))
	copy(img, o.snapshot)
	return img
}

func (o CheckOutcome) EntryURL() string { return o.entryURL }

// Failure returns the failure for the two failure variants and nil otherwise.
func (o CheckOutcome) Failure() *CheckError { return o.failure }

// Reason is a shortcut for Failure().Reason; empty for non-failures.
func (o CheckOutcome) Reason() FailureReason {
	if o.failure == nil {
		return ""
	}
	return o.failure.Reason
}

func (o CheckOutcome) String() string {
	switch o.kind {
	case OutcomeAppointmentFound:
		return fmt.Sprintf("%s (%d byte snapshot)", o.kind, len(o.snapshot))
	case OutcomeRecoverableFailure, OutcomeFatalFailure:
		return fmt.Sprintf("%s: %v", o.kind, o.failure)
	default:
		return o.kind.String()
	}
}

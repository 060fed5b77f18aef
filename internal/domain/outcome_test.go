package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

func TestContainsMarker(t *testing.T) {
	markers := []string{"unfortunately", "vergeben", "kein termin"}
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "exact", text: "unfortunately", want: true},
		{name: "mixed case substring", text: "We are UnFortunately full today", want: true},
		{name: "german phrase", text: "Es gibt KEIN TERMIN mehr", want: true},
		{name: "substring inside word", text: "alle Termine sind vergeben.", want: true},
		{name: "absent", text: "Please choose a slot", want: false},
		{name: "empty text", text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.ContainsMarker(tt.text, markers); got != tt.want {
				t.Errorf("ContainsMarker(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestContainsMarkerIgnoresBlankMarkers(t *testing.T) {
	if domain.ContainsMarker("anything", []string{"", "   "}) {
		t.Fatal("blank markers must never match")
	}
}

func TestMatchesLabel(t *testing.T) {
	labels := []string{"Next", "التالى"}
	if !domain.MatchesLabel(" Next ", labels) {
		t.Error("expected trimmed Next to match")
	}
	if !domain.MatchesLabel("التالى", labels) {
		t.Error("expected arabic label to match")
	}
	if domain.MatchesLabel("Back", labels) {
		t.Error("Back must not match Next labels")
	}
}

func TestOutcomeFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   domain.OutcomeKind
		wantReason domain.FailureReason
	}{
		{
			name:       "wrapped element not found",
			err:        fmt.Errorf("step 2: %w", domain.ElementNotFound("select", 3, nil)),
			wantKind:   domain.OutcomeRecoverableFailure,
			wantReason: domain.ReasonElementNotFound,
		},
		{
			name:       "fatal recovery exhausted",
			err:        domain.Fatal(domain.ReasonRecoveryExhausted, nil),
			wantKind:   domain.OutcomeFatalFailure,
			wantReason: domain.ReasonRecoveryExhausted,
		},
		{
			name:       "deadline becomes timeout",
			err:        fmt.Errorf("goto: %w", context.DeadlineExceeded),
			wantKind:   domain.OutcomeRecoverableFailure,
			wantReason: domain.ReasonTimeout,
		},
		{
			name:       "untyped error",
			err:        errors.New("boom"),
			wantKind:   domain.OutcomeRecoverableFailure,
			wantReason: domain.ReasonUnexpected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := domain.OutcomeFromError(tt.err)
			if out.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", out.Kind(), tt.wantKind)
			}
			if out.Reason() != tt.wantReason {
				t.Errorf("reason = %v, want %v", out.Reason(), tt.wantReason)
			}
		})
	}
}

func TestAppointmentFoundSnapshotIsCopied(t *testing.T) {
	img := []byte{1, 2, 3}
	out := domain.AppointmentFound(img, "https://example.test")
	img[0] = 9

	got := out.Snapshot()
	if got[0] != 1 {
		t.Fatalf("outcome snapshot changed with caller buffer: %v", got)
	}
	got[1] = 9
	if out.Snapshot()[1] != 2 {
		t.Fatal("outcome snapshot changed through accessor")
	}
	if out.EntryURL() != "https://example.test" {
		t.Errorf("entry url = %q", out.EntryURL())
	}
	if out.Failure() != nil {
		t.Error("found outcome must not carry a failure")
	}
}

func TestCheckErrorMessage(t *testing.T) {
	err := domain.ElementNotFound(`input[type="radio"]`, 3, errors.New("deadline"))
	want := `element_not_found (selector "input[type=\"radio\"]", 3 attempts): deadline`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUniqueRecipients(t *testing.T) {
	got := domain.UniqueRecipients(5, 1, 5, 0, 3, 1)
	want := []domain.RecipientID{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

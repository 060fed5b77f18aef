package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseYAMLValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"5", 5},
		{"true", true},
		{"[Next, Weiter]", []interface{}{"Next", "Weiter"}},
		{"10s", "10s"},
		{"", ""},
		{"key: [", "key: ["},
	}
	for _, tt := range tests {
		got, err := ParseYAMLValue(tt.in)
		if err != nil {
			t.Fatalf("ParseYAMLValue(%q) error: %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseYAMLValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseRecipientArg(t *testing.T) {
	if id, err := ParseRecipientArg(" -1001234 "); err != nil || id != -1001234 {
		t.Errorf("got %v, %v", id, err)
	}
	for _, bad := range []string{"0", "abc", ""} {
		if _, err := ParseRecipientArg(bad); err == nil {
			t.Errorf("ParseRecipientArg(%q) expected error", bad)
		}
	}
}

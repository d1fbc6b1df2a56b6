package mintreg

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// Edition id tests
// ---------------------------------------------------------------------------

func TestEditionID(t *testing.T) {
	if got := EditionID("42", 7); got != "42:7" {
		t.Errorf("EditionID: got %q, want %q", got, "42:7")
	}
}

func TestEditionTitle(t *testing.T) {
	if got := EditionTitle("Tsundere land", 2); got != "Tsundere land #2" {
		t.Errorf("EditionTitle: got %q, want %q", got, "Tsundere land #2")
	}
}

func TestParseEditionID(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSeries string
		wantNumber uint64
		wantErr    bool
	}{
		{"simple", "1:1", "1", 1, false},
		{"large number", "42:18446744073709551615", "42", 18446744073709551615, false},
		{"missing delimiter", "42", "", 0, true},
		{"empty series", ":1", "", 0, true},
		{"zero number", "42:0", "", 0, true},
		{"non-numeric number", "42:abc", "", 0, true},
		{"empty string", "", "", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seriesID, number, err := ParseEditionID(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("ParseEditionID(%q): got err %v, want ErrInvalidInput", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEditionID(%q): %v", tc.input, err)
			}
			if seriesID != tc.wantSeries || number != tc.wantNumber {
				t.Errorf("ParseEditionID(%q): got (%q, %d), want (%q, %d)",
					tc.input, seriesID, number, tc.wantSeries, tc.wantNumber)
			}
		})
	}
}

func TestParseEditionID_RoundTrip(t *testing.T) {
	id := EditionID("7", 123)
	seriesID, number, err := ParseEditionID(id)
	if err != nil {
		t.Fatalf("ParseEditionID: %v", err)
	}
	if seriesID != "7" || number != 123 {
		t.Errorf("round trip: got (%q, %d)", seriesID, number)
	}
}

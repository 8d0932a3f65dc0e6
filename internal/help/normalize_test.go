package help

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting\tstarted"},
		{"install", "install"},
		{"INSTALL", "install"},
		{"multi  space", "multi\t\tspace"},
		{"Straße", "strasse"},
		{"already\tnormal", "already\tnormal"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestFold_KeepsSpaces(t *testing.T) {
	t.Parallel()
	if got := Fold("Guide File.TXT"); got != "guide file.txt" {
		t.Errorf("got %q", got)
	}
}

package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Greetings - Pozdravi", "Greetings - Pozdravi"},
		{"a/b\\c:d*e", "a-b-c-d-e"},
		{"what?\"<>|", "what"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSectionFileName(t *testing.T) {
	if got := SectionFileName(3, "Greetings - Pozdravi", "simple", "mp3"); got != "03_Greetings - Pozdravi.mp3" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := SectionFileName(0, "", "simple", ".wav"); got != "00_simple.wav" {
		t.Fatalf("unexpected fallback name: %q", got)
	}
	if got := SectionFileName(12, "??", "", ""); got != "12_section.mp3" {
		t.Fatalf("unexpected default name: %q", got)
	}
}

package tts

import (
	"slices"
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"short", "Jó napot", 200, []string{"Jó napot"}},
		{"empty", "   ", 10, nil},
		{"collapses whitespace", "a   b\tc", 200, []string{"a b c"}},
		{"sentence boundary", "Hello there. General Kenobi", 12, []string{"Hello there.", "General", "Kenobi"}},
		{"word boundary", "one two three four", 9, []string{"one two", "three", "four"}},
		{"long word cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"runes not bytes", "čćžšđ čćžšđ", 5, []string{"čćžšđ", "čćžšđ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.limit)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("SplitText(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
			for _, chunk := range got {
				if n := len([]rune(chunk)); n > tt.limit {
					t.Fatalf("chunk %q exceeds limit (%d runes)", chunk, n)
				}
				if strings.TrimSpace(chunk) != chunk {
					t.Fatalf("chunk %q not trimmed", chunk)
				}
			}
		})
	}
}

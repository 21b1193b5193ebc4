package textutil

import "testing"

func TestNormalizeSeparators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain hyphen", "Hello - Zdravo", "Hello - Zdravo"},
		{"en dash", "Hello – Zdravo", "Hello - Zdravo"},
		{"em dash no spaces", "Hello—Zdravo", "Hello - Zdravo"},
		{"minus sign", "igen − da", "igen - da"},
		{"equals", "köszönöm = hvala", "köszönöm - hvala"},
		{"compound word kept", "team-mate - csapattárs", "team-mate - csapattárs"},
		{"run collapses", "a -- b", "a - b"},
		{"mixed run collapses", "a = – b", "a - b"},
		{"whitespace collapsed", "  a    b  -   c  ", "a b - c"},
		{"hyphen before word", "a -b", "a - b"},
		{"trailing hyphen", "word-", "word -"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSeparators(tt.in); got != tt.want {
				t.Fatalf("NormalizeSeparators(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSeparatorsIdempotent(t *testing.T) {
	inputs := []string{
		"Hello – Zdravo",
		"team-mate - csapattárs",
		"a -- b == c",
		"- leading",
		"trailing -",
		"x-y-z — a",
		"  many   spaces\tand\ttabs  ",
		"%%A1,P,E%% Hello - Zdravo",
		"-",
		"",
	}
	for _, in := range inputs {
		once := NormalizeSeparators(in)
		twice := NormalizeSeparators(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSplitPair(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantLeft  string
		wantRight string
		wantOK    bool
	}{
		{"simple", "Hello - Zdravo", "Hello", "Zdravo", true},
		{"last separator wins", "a - b - c", "a - b", "c", true},
		{"compound word", "team-mate - csapattárs", "team-mate", "csapattárs", true},
		{"no separator", "Goodbye", "Goodbye", "", false},
		{"equals separator", "igen = da", "igen", "da", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right, ok := SplitPair(tt.in)
			if left != tt.wantLeft || right != tt.wantRight || ok != tt.wantOK {
				t.Fatalf("SplitPair(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, left, right, ok, tt.wantLeft, tt.wantRight, tt.wantOK)
			}
		})
	}
}

func TestJoinPair(t *testing.T) {
	if got := JoinPair("Greetings", "Pozdravi"); got != "Greetings - Pozdravi" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := JoinPair("Greetings", ""); got != "Greetings" {
		t.Fatalf("unexpected join with empty native: %q", got)
	}
	if got := JoinPair("", "Pozdravi"); got != "Pozdravi" {
		t.Fatalf("unexpected join with empty learn: %q", got)
	}
}

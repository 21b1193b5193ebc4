package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Separator is the canonical phrase separator token.
const Separator = " - "

// NormalizeSeparators rewrites every run of separator-like characters (en
// dash, em dash, minus sign, equals sign and hyphens that are not embedded
// between two word characters) into a single canonical " - " token, collapses
// interior whitespace and trims the result. The operation is idempotent.
func NormalizeSeparators(text string) string {
	runes := []rune(norm.NFC.String(strings.TrimSpace(text)))
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(runes) + 8)
	for i := 0; i < len(runes); {
		if !isSeparatorAt(runes, i) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && (isSeparatorAt(runes, j) || unicode.IsSpace(runes[j])) {
			j++
		}
		b.WriteString(Separator)
		i = j
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitPair normalizes text and splits it on the last separator occurrence.
// When no separator is present ok is false and left holds the normalized text.
func SplitPair(text string) (left, right string, ok bool) {
	normalized := NormalizeSeparators(text)
	idx := strings.LastIndex(normalized, Separator)
	if idx < 0 {
		return normalized, "", false
	}
	left = strings.TrimSpace(normalized[:idx])
	right = strings.TrimSpace(normalized[idx+len(Separator):])
	return left, right, true
}

// JoinPair is the inverse of SplitPair for display purposes. Empty sides are
// omitted together with the separator.
func JoinPair(left, right string) string {
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + Separator + right
	}
}

func isSeparatorAt(runes []rune, i int) bool {
	switch runes[i] {
	case '–', '—', '−', '=':
		return true
	case '-':
		return !(i > 0 && isWordRune(runes[i-1]) && i+1 < len(runes) && isWordRune(runes[i+1]))
	default:
		return false
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

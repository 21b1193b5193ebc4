package textutil

import (
	"regexp"
	"strings"
)

var (
	boldPattern        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern      = regexp.MustCompile(`\*(.*?)\*`)
	leadingDashPattern = regexp.MustCompile(`^\s*-\s*`)
)

// HeadingMarker opens a section in the phrase Markdown dialect.
const HeadingMarker = "###"

// StripEmphasis removes Markdown bold (**x**) and italic (*x*) markers.
func StripEmphasis(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	return italicPattern.ReplaceAllString(text, "$1")
}

// StripLeadingDash removes a leading list dash together with surrounding
// whitespace.
func StripLeadingDash(text string) string {
	return leadingDashPattern.ReplaceAllString(text, "")
}

// IsHeading reports whether the trimmed line opens a section.
func IsHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), HeadingMarker)
}

// HeadingTitle extracts the title from a heading line: the first bold span
// when present, otherwise the text with the leading '#' characters removed.
func HeadingTitle(line string) string {
	line = strings.TrimSpace(line)
	if m := boldPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// Bold wraps text in Markdown bold markers.
func Bold(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return "**" + text + "**"
}

package textutil

import (
	"fmt"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"%", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SectionFileName builds the "NN_Title.ext" name used for per-section output.
// An empty title falls back to the provided default stem.
func SectionFileName(index int, title, fallback, ext string) string {
	stem := SanitizeFileName(title)
	if stem == "" {
		stem = SanitizeFileName(fallback)
	}
	if stem == "" {
		stem = "section"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("%02d_%s.%s", index, stem, ext)
}

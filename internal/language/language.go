package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // English name
	native  string   // Endonym
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"sr", "srp", "scc", "Serbian", "srpski", []string{"serbian"}},
	{"hu", "hun", "", "Hungarian", "magyar", []string{"hungarian"}},
	{"hr", "hrv", "scr", "Croatian", "hrvatski", []string{"croatian"}},
	{"bs", "bos", "", "Bosnian", "bosanski", []string{"bosnian"}},
	{"en", "eng", "", "English", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", "español", []string{"spanish"}},
	{"fr", "fra", "fre", "French", "français", []string{"french"}},
	{"de", "deu", "ger", "German", "Deutsch", []string{"german"}},
	{"it", "ita", "", "Italian", "italiano", []string{"italian"}},
	{"pt", "por", "", "Portuguese", "português", []string{"portuguese"}},
	{"ru", "rus", "", "Russian", "русский", []string{"russian"}},
	{"nl", "nld", "dut", "Dutch", "Nederlands", []string{"dutch"}},
	{"pl", "pol", "", "Polish", "polski", []string{"polish"}},
	{"ro", "ron", "rum", "Romanian", "română", []string{"romanian"}},
	{"sk", "slk", "slo", "Slovak", "slovenčina", []string{"slovak"}},
	{"sl", "slv", "", "Slovenian", "slovenščina", []string{"slovenian", "slovene"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Canonical reduces code to its two-letter base language. Known words and
// ISO 639-2 codes resolve through the local table; anything else must parse
// as a BCP 47 tag with a two-letter base.
func Canonical(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", fmt.Errorf("language code is empty")
	}
	if e := lookup(trimmed); e != nil {
		return e.code2, nil
	}
	tag, err := xlanguage.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("language code %q: %w", trimmed, err)
	}
	base, _ := tag.Base()
	if e := lookup(base.String()); e != nil {
		return e.code2, nil
	}
	if base.String() == "und" || len(base.String()) != 2 {
		return "", fmt.Errorf("language code %q has no two-letter base", trimmed)
	}
	return base.String(), nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts any recognized language code to ISO 639-2 (3-letter).
// Returns "und" for unrecognized 2-letter codes, passes through 3-letter codes.
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns the English name for code. Codes outside the local
// table fall back to the CLDR names shipped with x/text.
// Returns "Unknown" for empty input, or the uppercased code when nothing matches.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if tag, err := xlanguage.Parse(trimmed); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// NativeName returns the endonym for code, or DisplayName when unknown.
func NativeName(code string) string {
	if e := lookup(code); e != nil {
		return e.native
	}
	return DisplayName(code)
}

// NormalizeList deduplicates and normalizes a list of language codes to ISO 639-1.
// Entries that cannot be resolved are kept lowercased.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(code))
		if trimmed == "" {
			continue
		}
		if canonical, err := Canonical(trimmed); err == nil {
			trimmed = canonical
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

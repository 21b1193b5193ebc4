package phrase

import (
	"maps"
	"strings"
)

// RowKind discriminates category rows from phrase rows in tabular layouts.
type RowKind string

const (
	RowCategory RowKind = "category"
	RowPhrase   RowKind = "phrase"
)

// ParseRowKind converts a cell value into a RowKind.
func ParseRowKind(value string) (RowKind, bool) {
	switch RowKind(strings.ToLower(strings.TrimSpace(value))) {
	case RowCategory:
		return RowCategory, true
	case RowPhrase:
		return RowPhrase, true
	default:
		return "", false
	}
}

// Phrase is one bilingual (or learn-only) line item within a Section.
type Phrase struct {
	Flags     FlagSet
	Text      map[string]string
	OnlyLearn bool
}

// NewPair builds a bilingual phrase for the given learn/native languages.
func NewPair(flags FlagSet, langs Languages, learn, native string) Phrase {
	return Phrase{
		Flags: flags,
		Text: map[string]string{
			langs.Learn:  strings.TrimSpace(learn),
			langs.Native: strings.TrimSpace(native),
		},
	}
}

// NewLearnOnly builds a recognition-only phrase with no counterpart.
func NewLearnOnly(langs Languages, learn string) Phrase {
	return Phrase{
		Flags: DefaultFlags(),
		Text: map[string]string{
			langs.Learn:  strings.TrimSpace(learn),
			langs.Native: "",
		},
		OnlyLearn: true,
	}
}

// TextFor returns the trimmed text stored for lang.
func (p Phrase) TextFor(lang string) string {
	return strings.TrimSpace(p.Text[lang])
}

// Emittable reports whether the phrase may reach the audio or spreadsheet
// emission paths: learn text is always required, and bilingual phrases also
// need native text.
func (p Phrase) Emittable(langs Languages) bool {
	if p.TextFor(langs.Learn) == "" {
		return false
	}
	if p.OnlyLearn {
		return true
	}
	return p.TextFor(langs.Native) != ""
}

// Clone returns a deep copy of the phrase.
func (p Phrase) Clone() Phrase {
	p.Text = maps.Clone(p.Text)
	if p.Text == nil {
		p.Text = map[string]string{}
	}
	return p
}

// Section is a titled group of phrases; the unit in which audio is generated.
type Section struct {
	Title    string
	Category map[string]string
	Phrases  []Phrase
}

// CategoryFor returns the per-language title for lang. Titles parsed from
// Markdown carry no category map, so the "Learn - Native" title pair is split
// on demand.
func (s Section) CategoryFor(langs Languages, lang string) string {
	if value := strings.TrimSpace(s.Category[lang]); value != "" {
		return value
	}
	learn, native := splitTitle(s.Title)
	switch lang {
	case langs.Learn:
		return learn
	case langs.Native:
		return native
	default:
		return ""
	}
}

// EmittablePhrases returns the phrases that pass Phrase.Emittable, in order.
func (s Section) EmittablePhrases(langs Languages) []Phrase {
	out := make([]Phrase, 0, len(s.Phrases))
	for _, p := range s.Phrases {
		if p.Emittable(langs) {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	s.Category = maps.Clone(s.Category)
	if len(s.Phrases) > 0 {
		phrases := make([]Phrase, len(s.Phrases))
		for i, p := range s.Phrases {
			phrases[i] = p.Clone()
		}
		s.Phrases = phrases
	}
	return s
}

// Document is the ordered list of sections produced by a parser or reader.
type Document struct {
	Sections []Section
}

// Clone returns a deep copy so a document can be handed to another stage
// without aliasing.
func (d Document) Clone() Document {
	if len(d.Sections) == 0 {
		return Document{}
	}
	sections := make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		sections[i] = s.Clone()
	}
	return Document{Sections: sections}
}

// PhraseCount returns the total number of phrases across all sections.
func (d Document) PhraseCount() int {
	total := 0
	for _, s := range d.Sections {
		total += len(s.Phrases)
	}
	return total
}

// Empty reports whether the document holds no phrases at all.
func (d Document) Empty() bool {
	return d.PhraseCount() == 0
}

package mdparse

import (
	"strings"

	"kslingo/internal/phrase"
	"kslingo/internal/textutil"
)

const fenceMarker = "```"

// scanState is the parser's finite state, threaded by value through a fold
// over the input lines.
type scanState struct {
	insideCode bool
	current    *phrase.Section
	sections   []phrase.Section
	warnings   []Warning
	lineNo     int
}

func (s scanState) step(raw string, langs phrase.Languages) scanState {
	s.lineNo++
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, fenceMarker) {
		s.insideCode = !s.insideCode
		return s
	}
	if s.insideCode || trimmed == "" {
		return s
	}

	cleaned := strings.TrimSpace(textutil.StripLeadingDash(textutil.StripEmphasis(trimmed)))
	switch {
	case textutil.IsHeading(trimmed):
		return s.openSection(headingTitle(trimmed))
	case textutil.IsHeading(cleaned):
		return s.openSection(headingTitle(cleaned))
	}
	return s.phraseLine(textutil.NormalizeSeparators(cleaned), raw, langs)
}

func (s scanState) openSection(title string) scanState {
	if s.current != nil {
		s.sections = append(s.sections, *s.current)
	}
	s.current = &phrase.Section{Title: title}
	return s
}

func (s scanState) phraseLine(content, raw string, langs phrase.Languages) scanState {
	if content == "" {
		return s
	}

	if strings.Contains(content, textutil.Separator) {
		flags, decoded := phrase.DecodeFlags(content)
		rest, found := phrase.StripFlagBlock(content)
		if left, right, ok := textutil.SplitPair(rest); ok {
			if s.current == nil {
				return s.warn(WarnOrphanLine, raw)
			}
			if found && !decoded {
				s = s.warn(WarnMalformedFlags, raw)
			}
			if !decoded {
				flags = phrase.DefaultFlags()
			}
			if left == "" || right == "" {
				s = s.warn(WarnIncompletePair, raw)
			}
			return s.appendPhrase(phrase.NewPair(flags, langs, left, right))
		}
		content = rest
	}

	if phrase.ContainsFlagMarker(content) {
		return s.warn(WarnDroppedMarker, raw)
	}
	if s.current == nil {
		return s.warn(WarnOrphanLine, raw)
	}
	return s.appendPhrase(phrase.NewLearnOnly(langs, content))
}

func (s scanState) appendPhrase(p phrase.Phrase) scanState {
	next := *s.current
	next.Phrases = append(next.Phrases, p)
	s.current = &next
	return s
}

func (s scanState) warn(kind WarningKind, raw string) scanState {
	s.warnings = append(s.warnings, Warning{
		Line: s.lineNo,
		Kind: kind,
		Text: strings.TrimSpace(raw),
	})
	return s
}

// finish closes the open section unconditionally, even when it is empty.
func (s scanState) finish() (phrase.Document, []Warning) {
	if s.insideCode {
		s = s.warn(WarnUnclosedFence, "")
	}
	sections := s.sections
	if s.current != nil {
		sections = append(sections, *s.current)
	}
	return phrase.Document{Sections: sections}, s.warnings
}

func headingTitle(line string) string {
	title := textutil.HeadingTitle(line)
	title, _ = phrase.StripFlagBlock(title)
	return textutil.NormalizeSeparators(textutil.StripEmphasis(title))
}

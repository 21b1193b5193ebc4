package mdparse

import "fmt"

// WarningKind classifies a recoverable problem found while scanning.
type WarningKind string

const (
	// WarnMalformedFlags marks a flag block that did not decode; defaults were
	// applied and the phrase was kept.
	WarnMalformedFlags WarningKind = "malformed_flags"
	// WarnDroppedMarker marks a line without separator that still carried a
	// %% marker; the line was dropped.
	WarnDroppedMarker WarningKind = "dropped_marker"
	// WarnOrphanLine marks a phrase line before the first heading.
	WarnOrphanLine WarningKind = "orphan_line"
	// WarnIncompletePair marks a bilingual line with an empty side. The phrase
	// is kept but will not be emitted.
	WarnIncompletePair WarningKind = "incomplete_pair"
	// WarnNoSeparator marks a plain text line that held no separator.
	WarnNoSeparator WarningKind = "no_separator"
	// WarnUnclosedFence marks input that ended inside a code block.
	WarnUnclosedFence WarningKind = "unclosed_fence"
)

// Warning is a per-line diagnostic. Line is 1-based and counts body lines
// after any front matter.
type Warning struct {
	Line int
	Kind WarningKind
	Text string
}

func (w Warning) String() string {
	if w.Line <= 0 {
		return fmt.Sprintf("%s: %s", w.Kind, w.Text)
	}
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Text)
}

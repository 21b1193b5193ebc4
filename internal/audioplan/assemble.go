package audioplan

import (
	"kslingo/internal/phrase"
	"kslingo/internal/textutil"
)

// SkipReason explains why a section produced no plan.
type SkipReason string

const (
	SkipNoPhrases SkipReason = "no emittable phrases"
)

// Skip is the diagnostic emitted for a section without a plan.
type Skip struct {
	Index  int        `json:"index"`
	Title  string     `json:"title"`
	Reason SkipReason `json:"reason"`
}

// AssembleSections builds one plan per section, each with its own lead-in.
// Sections without emittable phrases are reported in the skip list.
func AssembleSections(doc phrase.Document, langs phrase.Languages, timing Timing) ([]Plan, []Skip) {
	var plans []Plan
	var skips []Skip
	for idx, section := range doc.Sections {
		phrases := section.EmittablePhrases(langs)
		if len(phrases) == 0 {
			skips = append(skips, Skip{Index: idx, Title: section.Title, Reason: SkipNoPhrases})
			continue
		}
		b := newBuilder(langs, timing)
		b.leadIn()
		b.title(section.Title)
		for _, p := range phrases {
			b.phrase(p)
		}
		plans = append(plans, Plan{
			Index:        idx,
			Title:        section.Title,
			Phrases:      b.phrases,
			Instructions: b.out,
		})
	}
	return plans, skips
}

// Assemble builds a single plan covering the whole document with one
// lead-in. Skipped sections contribute nothing, including their title.
func Assemble(doc phrase.Document, langs phrase.Languages, timing Timing) (Plan, []Skip) {
	var skips []Skip
	b := newBuilder(langs, timing)
	b.leadIn()
	for idx, section := range doc.Sections {
		phrases := section.EmittablePhrases(langs)
		if len(phrases) == 0 {
			skips = append(skips, Skip{Index: idx, Title: section.Title, Reason: SkipNoPhrases})
			continue
		}
		b.title(section.Title)
		for _, p := range phrases {
			b.phrase(p)
		}
	}
	plan := Plan{Phrases: b.phrases, Instructions: b.out}
	if len(doc.Sections) == 1 {
		plan.Title = doc.Sections[0].Title
	}
	if b.phrases == 0 {
		plan.Instructions = nil
	}
	return plan, skips
}

type builder struct {
	langs   phrase.Languages
	timing  Timing
	out     []Instruction
	phrases int
}

func newBuilder(langs phrase.Languages, timing Timing) *builder {
	return &builder{langs: langs, timing: timing}
}

func (b *builder) leadIn() {
	b.out = append(b.out, Silence(b.timing.LeadIn))
}

// title speaks the section title as phrase zero. A title without separator is
// learn-only; an empty title emits nothing.
func (b *builder) title(title string) {
	learn, native, _ := textutil.SplitPair(title)
	b.emit(learn, native)
}

func (b *builder) phrase(p phrase.Phrase) {
	native := ""
	if !p.OnlyLearn {
		native = p.TextFor(b.langs.Native)
	}
	b.emit(p.TextFor(b.langs.Learn), native)
}

func (b *builder) emit(learn, native string) {
	if learn == "" {
		return
	}
	b.phrases++
	b.out = append(b.out,
		Speak(learn, b.langs.Learn),
		Silence(b.timing.Pause),
	)
	if native == "" {
		return
	}
	b.out = append(b.out,
		Speak(native, b.langs.Native),
		Silence(b.timing.Pause),
		Speak(learn, b.langs.Learn),
		Silence(b.timing.Pause),
		FixedClip(b.timing.EndMarker, b.timing.EndMarkerGainDB),
		Silence(b.timing.Gap),
	)
}

package audioplan

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the instruction variant.
type Kind string

const (
	KindSpeak     Kind = "speak"
	KindSilence   Kind = "silence"
	KindFixedClip Kind = "fixed_clip"
)

// Instruction is one step of a plan. Only the fields relevant to Kind are set.
type Instruction struct {
	Kind     Kind
	Text     string
	Language string
	Duration time.Duration
	ClipID   string
	GainDB   float64
}

type instructionJSON struct {
	Kind       Kind    `json:"kind"`
	Text       string  `json:"text,omitempty"`
	Language   string  `json:"language,omitempty"`
	DurationMS int64   `json:"duration_ms,omitempty"`
	ClipID     string  `json:"clip_id,omitempty"`
	GainDB     float64 `json:"gain_db,omitempty"`
}

// MarshalJSON renders durations in milliseconds.
func (i Instruction) MarshalJSON() ([]byte, error) {
	return json.Marshal(instructionJSON{
		Kind:       i.Kind,
		Text:       i.Text,
		Language:   i.Language,
		DurationMS: i.Duration.Milliseconds(),
		ClipID:     i.ClipID,
		GainDB:     i.GainDB,
	})
}

// UnmarshalJSON reads the millisecond form produced by MarshalJSON.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var raw instructionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Instruction{
		Kind:     raw.Kind,
		Text:     raw.Text,
		Language: raw.Language,
		Duration: time.Duration(raw.DurationMS) * time.Millisecond,
		ClipID:   raw.ClipID,
		GainDB:   raw.GainDB,
	}
	return nil
}

// Speak synthesizes text in lang.
func Speak(text, lang string) Instruction {
	return Instruction{Kind: KindSpeak, Text: text, Language: lang}
}

// Silence inserts d of silence.
func Silence(d time.Duration) Instruction {
	return Instruction{Kind: KindSilence, Duration: d}
}

// FixedClip inserts a prerecorded clip with gain applied.
func FixedClip(id string, gainDB float64) Instruction {
	return Instruction{Kind: KindFixedClip, ClipID: id, GainDB: gainDB}
}

func (i Instruction) String() string {
	switch i.Kind {
	case KindSpeak:
		return fmt.Sprintf("Speak(%q, %s)", i.Text, i.Language)
	case KindSilence:
		return fmt.Sprintf("Silence(%dms)", i.Duration.Milliseconds())
	case KindFixedClip:
		return fmt.Sprintf("FixedClip(%s, %gdB)", i.ClipID, i.GainDB)
	default:
		return fmt.Sprintf("Unknown(%s)", i.Kind)
	}
}

// Plan is the ordered instruction list for one output file.
type Plan struct {
	// Index is the zero-based section position in the source document, or 0
	// for a whole-document plan.
	Index        int           `json:"index"`
	Title        string        `json:"title"`
	Phrases      int           `json:"phrases"`
	Instructions []Instruction `json:"instructions"`
}

// Stats summarizes a plan for display.
type Stats struct {
	Speak    int
	Fixed    int
	Silence  time.Duration
	Segments int
}

// Stats counts instruction kinds and the total silence.
func (p Plan) Stats() Stats {
	st := Stats{Segments: len(p.Instructions)}
	for _, ins := range p.Instructions {
		switch ins.Kind {
		case KindSpeak:
			st.Speak++
		case KindSilence:
			st.Silence += ins.Duration
		case KindFixedClip:
			st.Fixed++
		}
	}
	return st
}

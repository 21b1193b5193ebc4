package audioplan

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultLeadIn          = 1000 * time.Millisecond
	DefaultPause           = 800 * time.Millisecond
	DefaultGap             = 1200 * time.Millisecond
	DefaultEndMarker       = "end"
	DefaultEndMarkerGainDB = -10.0
)

// Timing holds the pedagogical pacing of a plan.
type Timing struct {
	LeadIn          time.Duration
	Pause           time.Duration
	Gap             time.Duration
	EndMarker       string
	EndMarkerGainDB float64
}

// DefaultTiming returns the standard pacing: 1s lead-in, 800ms pauses, 1.2s
// gap after the end marker, marker attenuated by 10dB.
func DefaultTiming() Timing {
	return Timing{
		LeadIn:          DefaultLeadIn,
		Pause:           DefaultPause,
		Gap:             DefaultGap,
		EndMarker:       DefaultEndMarker,
		EndMarkerGainDB: DefaultEndMarkerGainDB,
	}
}

// Validate checks that durations are non-negative and a marker is named.
func (t Timing) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.LeadIn, validation.Min(time.Duration(0))),
		validation.Field(&t.Pause, validation.Min(time.Duration(0))),
		validation.Field(&t.Gap, validation.Min(time.Duration(0))),
		validation.Field(&t.EndMarker, validation.Required),
		validation.Field(&t.EndMarkerGainDB, validation.Min(-60.0), validation.Max(20.0)),
	)
}

package audioplan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"kslingo/internal/services"
)

// Clip is a handle to an audio file produced by a collaborator.
type Clip struct {
	Path string
}

// Synthesizer converts text into speech. Implementations must not retry on
// their own behalf when the caller expects failures to surface.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (Clip, error)
}

// Mixer provides the audio primitives a plan needs. Export concatenates the
// clips in the given order and encodes them to dest.
type Mixer interface {
	Silence(ctx context.Context, d time.Duration) (Clip, error)
	LoadClip(ctx context.Context, id string, gainDB float64) (Clip, error)
	Export(ctx context.Context, clips []Clip, dest, format string) error
}

// Render executes plan in order and exports the result to dest. The output
// format is taken from the destination extension. A synthesis failure aborts
// the plan without retry.
func Render(ctx context.Context, plan Plan, synth Synthesizer, mix Mixer, dest string) error {
	if len(plan.Instructions) == 0 {
		return services.Wrap(services.ErrEmptyResult, "render", "plan", fmt.Sprintf("plan %q has no instructions", plan.Title), nil)
	}

	r := renderer{
		synth:  synth,
		mix:    mix,
		speech: make(map[speechKey]Clip),
		silent: make(map[time.Duration]Clip),
		fixed:  make(map[fixedKey]Clip),
	}
	clips := make([]Clip, 0, len(plan.Instructions))
	for idx, ins := range plan.Instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		clip, err := r.resolve(ctx, ins)
		if err != nil {
			return fmt.Errorf("instruction %d %s: %w", idx, ins, err)
		}
		clips = append(clips, clip)
	}

	if err := mix.Export(ctx, clips, dest, FormatFromPath(dest)); err != nil {
		return classify(err, "export", dest)
	}
	return nil
}

// FormatFromPath returns the lower-cased extension of path without the dot,
// defaulting to mp3.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "mp3"
	}
	return ext
}

type speechKey struct {
	text string
	lang string
}

type fixedKey struct {
	id   string
	gain float64
}

// renderer reuses clips within one plan so the repeated learn utterance is
// synthesized once.
type renderer struct {
	synth  Synthesizer
	mix    Mixer
	speech map[speechKey]Clip
	silent map[time.Duration]Clip
	fixed  map[fixedKey]Clip
}

func (r *renderer) resolve(ctx context.Context, ins Instruction) (Clip, error) {
	switch ins.Kind {
	case KindSpeak:
		key := speechKey{text: ins.Text, lang: ins.Language}
		if clip, ok := r.speech[key]; ok {
			return clip, nil
		}
		clip, err := r.synth.Synthesize(ctx, ins.Text, ins.Language)
		if err != nil {
			return Clip{}, services.Wrap(services.ErrSynthesis, "render", "synthesize", ins.Language, err)
		}
		r.speech[key] = clip
		return clip, nil
	case KindSilence:
		if clip, ok := r.silent[ins.Duration]; ok {
			return clip, nil
		}
		clip, err := r.mix.Silence(ctx, ins.Duration)
		if err != nil {
			return Clip{}, classify(err, "silence", ins.Duration.String())
		}
		r.silent[ins.Duration] = clip
		return clip, nil
	case KindFixedClip:
		key := fixedKey{id: ins.ClipID, gain: ins.GainDB}
		if clip, ok := r.fixed[key]; ok {
			return clip, nil
		}
		clip, err := r.mix.LoadClip(ctx, ins.ClipID, ins.GainDB)
		if err != nil {
			return Clip{}, classify(err, "load clip", ins.ClipID)
		}
		r.fixed[key] = clip
		return clip, nil
	default:
		return Clip{}, services.Wrap(services.ErrInvalidFormat, "render", "instruction", fmt.Sprintf("unknown kind %q", ins.Kind), nil)
	}
}

func classify(err error, operation, detail string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, marker := range []error{services.ErrExternalTool, services.ErrNotFound, services.ErrInvalidFormat} {
		if errors.Is(err, marker) {
			return err
		}
	}
	return services.Wrap(services.ErrExternalTool, "render", operation, detail, err)
}

package audioplan

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"kslingo/internal/services"
)

type fakeSynth struct {
	calls []string
	fail  string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, lang string) (Clip, error) {
	f.calls = append(f.calls, lang+":"+text)
	if text == f.fail {
		return Clip{}, errors.New("quota exceeded")
	}
	return Clip{Path: "tts/" + lang + "/" + text}, nil
}

type fakeMixer struct {
	silences []time.Duration
	loads    []string
	exported []Clip
	dest     string
	format   string
}

func (m *fakeMixer) Silence(_ context.Context, d time.Duration) (Clip, error) {
	m.silences = append(m.silences, d)
	return Clip{Path: fmt.Sprintf("silence/%d", d.Milliseconds())}, nil
}

func (m *fakeMixer) LoadClip(_ context.Context, id string, gainDB float64) (Clip, error) {
	m.loads = append(m.loads, id)
	return Clip{Path: fmt.Sprintf("clip/%s@%g", id, gainDB)}, nil
}

func (m *fakeMixer) Export(_ context.Context, clips []Clip, dest, format string) error {
	m.exported = clips
	m.dest = dest
	m.format = format
	return nil
}

func TestRenderPreservesOrderAndReusesClips(t *testing.T) {
	doc := parseDoc(t, "### Greetings - Pozdravi\n- Hello - Zdravo\n")
	plans, _ := AssembleSections(doc, testLanguages(), DefaultTiming())

	synth := &fakeSynth{}
	mix := &fakeMixer{}
	if err := Render(context.Background(), plans[0], synth, mix, "/out/00_Greetings.MP3"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantCalls := []string{"en:Greetings", "sr:Pozdravi", "en:Hello", "sr:Zdravo"}
	if !slices.Equal(synth.calls, wantCalls) {
		t.Fatalf("synth calls = %v, want %v", synth.calls, wantCalls)
	}
	if len(mix.loads) != 1 || len(mix.silences) != 3 {
		t.Fatalf("loads = %v, silences = %v", mix.loads, mix.silences)
	}
	if len(mix.exported) != len(plans[0].Instructions) {
		t.Fatalf("exported %d clips, want %d", len(mix.exported), len(plans[0].Instructions))
	}
	wantHead := []Clip{
		{Path: "silence/1000"},
		{Path: "tts/en/Greetings"},
		{Path: "silence/800"},
		{Path: "tts/sr/Pozdravi"},
		{Path: "silence/800"},
		{Path: "tts/en/Greetings"},
		{Path: "silence/800"},
		{Path: "clip/end@-10"},
		{Path: "silence/1200"},
	}
	if !slices.Equal(mix.exported[:len(wantHead)], wantHead) {
		t.Fatalf("exported head = %v", mix.exported[:len(wantHead)])
	}
	if mix.format != "mp3" || mix.dest != "/out/00_Greetings.MP3" {
		t.Fatalf("export target = %s (%s)", mix.dest, mix.format)
	}
}

func TestRenderSynthesisFailureAborts(t *testing.T) {
	doc := parseDoc(t, "### A\n- Hello - Zdravo\n- Later - Kasnije\n")
	plans, _ := AssembleSections(doc, testLanguages(), DefaultTiming())

	synth := &fakeSynth{fail: "Zdravo"}
	mix := &fakeMixer{}
	err := Render(context.Background(), plans[0], synth, mix, "out.mp3")
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("err = %v, want ErrSynthesis", err)
	}
	if mix.exported != nil {
		t.Fatal("export must not run after a synthesis failure")
	}
	if slices.Contains(synth.calls, "en:Later") {
		t.Fatalf("synthesis continued after failure: %v", synth.calls)
	}
}

func TestRenderEmptyPlan(t *testing.T) {
	err := Render(context.Background(), Plan{Title: "x"}, &fakeSynth{}, &fakeMixer{}, "out.mp3")
	if !errors.Is(err, services.ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plan := Plan{Instructions: []Instruction{Silence(time.Second)}}
	if err := Render(ctx, plan, &fakeSynth{}, &fakeMixer{}, "out.mp3"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a/b.mp3": "mp3",
		"a/b.WAV": "wav",
		"a/b":     "mp3",
		"x.y.ogg": "ogg",
	}
	for in, want := range tests {
		if got := FormatFromPath(in); got != want {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Speak("Hello", "en"), `Speak("Hello", en)`},
		{Silence(800 * time.Millisecond), "Silence(800ms)"},
		{FixedClip("end", -10), "FixedClip(end, -10dB)"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestInstructionJSONUsesMilliseconds(t *testing.T) {
	data, err := Silence(800 * time.Millisecond).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `{"kind":"silence","duration_ms":800}` {
		t.Fatalf("json = %s", data)
	}
	var back Instruction
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != Silence(800*time.Millisecond) {
		t.Fatalf("decoded = %v", back)
	}
}

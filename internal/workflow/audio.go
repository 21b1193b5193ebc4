package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kslingo/internal/audioplan"
	"kslingo/internal/clipcache"
	"kslingo/internal/convert"
	"kslingo/internal/fileutil"
	"kslingo/internal/logging"
	"kslingo/internal/media/mixer"
	"kslingo/internal/services"
	"kslingo/internal/services/tts"
	"kslingo/internal/staging"
	"kslingo/internal/textutil"
)

// SimpleStem names the output of plain text input.
const SimpleStem = "simple"

// AudioRequest describes one audio generation run.
type AudioRequest struct {
	LoadRequest
	// Single renders the whole document into one file.
	Single bool
	// OutputDir overrides paths.output_dir.
	OutputDir string
}

// Output is one published audio file.
type Output struct {
	Index    int
	Title    string
	Path     string
	Phrases  int
	Duration time.Duration
}

// AudioResult summarizes a finished run.
type AudioResult struct {
	RunID   string
	Outputs []Output
	Skips   []audioplan.Skip
}

// GenerateAudio renders the document named by req into the output
// directory. Output files appear only once complete and verified.
func (m *Manager) GenerateAudio(ctx context.Context, req AudioRequest) (AudioResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = m.cfg.Paths.OutputDir
	}
	format := m.cfg.Audio.Format

	planned, err := m.Plan(ctx, req.LoadRequest, req.Single)
	if err != nil {
		return AudioResult{}, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return AudioResult{}, services.Wrap(services.ErrConfiguration, "workflow", "output dir", outputDir, err)
	}
	if err := m.runPreflightChecks(ctx, outputDir); err != nil {
		return AudioResult{}, err
	}

	unlock, err := lockOutputDir(outputDir)
	if err != nil {
		return AudioResult{}, err
	}
	defer unlock()

	staging.CleanStale(ctx, m.cfg.Paths.WorkDir, m.cfg.WorkRetention(), m.logger)
	run, err := staging.Create(m.cfg.Paths.WorkDir)
	if err != nil {
		return AudioResult{}, services.Wrap(services.ErrConfiguration, "workflow", "work dir", "", err)
	}
	defer func() {
		if rmErr := run.Remove(); rmErr != nil {
			m.logger.Debug("work directory cleanup failed", logging.String("path", run.Path), logging.Error(rmErr))
		}
	}()

	ctx = services.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("audio run started",
		logging.String("input", req.Input),
		logging.String("output_dir", outputDir),
		logging.Int("plans", len(planned.Plans)),
		logging.String("learn", planned.Loaded.Languages.Learn),
		logging.String("native", planned.Loaded.Languages.Native),
		logging.String(logging.FieldEventType, "audio_started"),
	)

	synth, closeSynth := m.synthesizer(ctx, filepath.Join(run.Path, "tts"))
	defer closeSynth()
	mixDir := filepath.Join(run.Path, "mix")
	renderDir := filepath.Join(run.Path, "out")
	for _, dir := range []string{mixDir, renderDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return AudioResult{}, services.Wrap(services.ErrConfiguration, "workflow", "work dir", dir, err)
		}
	}
	mix := m.newMixer(mixDir)

	names := outputNames(planned, req.Input, format)
	outputs := make([]Output, len(planned.Plans))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, m.cfg.Audio.Parallelism))
	for i, plan := range planned.Plans {
		i, plan := i, plan
		group.Go(func() error {
			out, err := m.renderPlan(groupCtx, plan, synth, mix, filepath.Join(renderDir, names[i]), filepath.Join(outputDir, names[i]))
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logging.ErrorWithContext(logger, "audio run failed", "audio_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no further files written"),
		)
		return AudioResult{RunID: run.ID, Skips: planned.Skips}, err
	}

	logger.Info("audio run complete",
		logging.String("outputs", describeOutputs(outputs)),
		logging.Int("skipped_sections", len(planned.Skips)),
		logging.String(logging.FieldEventType, "audio_complete"),
	)
	return AudioResult{RunID: run.ID, Outputs: outputs, Skips: planned.Skips}, nil
}

func (m *Manager) renderPlan(ctx context.Context, plan audioplan.Plan, synth audioplan.Synthesizer, mix audioplan.Mixer, tmp, dest string) (Output, error) {
	ctx = services.WithSection(ctx, filepath.Base(dest))
	logger := logging.WithContext(ctx, m.logger)
	started := time.Now()

	if err := audioplan.Render(ctx, plan, synth, mix, tmp); err != nil {
		return Output{}, err
	}
	out := Output{Index: plan.Index, Title: plan.Title, Path: dest, Phrases: plan.Phrases}
	if m.cfg.Audio.VerifyOutput {
		probe, err := m.verifier.Verify(ctx, tmp)
		if err != nil {
			return Output{}, err
		}
		out.Duration = probe.Duration()
	}
	if err := fileutil.ReplaceFile(tmp, dest); err != nil {
		return Output{}, services.Wrap(services.ErrExternalTool, "workflow", "publish", dest, err)
	}
	logger.Info("section rendered",
		logging.String("dest", dest),
		logging.Int("phrases", plan.Phrases),
		logging.Duration("audio", out.Duration),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
		logging.String(logging.FieldEventType, "section_rendered"),
	)
	return out, nil
}

// outputNames returns one file name per plan. Per-section files are
// NN_<title>.<format>; text input becomes simple.<format>; single mode uses
// the input file stem.
func outputNames(planned PlanResult, input, format string) []string {
	names := make([]string, len(planned.Plans))
	if planned.Single {
		stem := SimpleStem
		if planned.Loaded.Format != convert.FormatText {
			stem = textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))
			if stem == "" {
				stem = SimpleStem
			}
		}
		for i := range names {
			names[i] = stem + "." + format
		}
		return names
	}
	for i, plan := range planned.Plans {
		i, plan := i, plan
		names[i] = textutil.SectionFileName(plan.Index, plan.Title, "section", format)
	}
	return names
}

// synthesizer returns the configured synthesizer, decorated with the clip
// cache when enabled. A cache that cannot be opened is skipped with a warning.
func (m *Manager) synthesizer(ctx context.Context, clipDir string) (audioplan.Synthesizer, func()) {
	synth := m.newSynth(clipDir)
	if !m.cfg.Cache.Enabled {
		return synth, func() {}
	}
	store, err := clipcache.Open(m.cfg.ClipCachePath(), m.cfg.ClipCacheDir())
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "clip cache unavailable", "clip_cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "all clips synthesized over the network"),
			logging.String(logging.FieldErrorHint, "run kslingo cache clear or check cache_dir"),
		)
		return synth, func() {}
	}
	return clipcache.NewCached(store, synth, m.logger), func() {
		if err := store.Close(); err != nil {
			m.logger.Debug("clip cache close failed", logging.Error(err))
		}
	}
}

func (m *Manager) defaultSynthesizer(workDir string) audioplan.Synthesizer {
	return tts.NewClient(tts.Config{
		BaseURL:        m.cfg.TTS.BaseURL,
		Client:         m.cfg.TTS.Client,
		UserAgent:      m.cfg.TTS.UserAgent,
		TimeoutSeconds: m.cfg.TTS.TimeoutSeconds,
		MaxTextLength:  m.cfg.TTS.MaxTextLength,
		OutputDir:      workDir,
	})
}

func (m *Manager) defaultMixer(workDir string) audioplan.Mixer {
	return mixer.New(mixer.Config{
		FFmpegBinary:  m.cfg.Audio.FFmpegBinary,
		WorkDir:       workDir,
		SampleRate:    m.cfg.Audio.SampleRate,
		EndMarker:     m.cfg.Audio.EndMarker,
		EndMarkerFile: m.cfg.Audio.EndMarkerFile,
	})
}

func describeOutputs(outputs []Output) string {
	parts := make([]string, 0, len(outputs))
	for _, out := range outputs {
		parts = append(parts, filepath.Base(out.Path))
	}
	return fmt.Sprintf("%d file(s): %s", len(outputs), strings.Join(parts, ", "))
}

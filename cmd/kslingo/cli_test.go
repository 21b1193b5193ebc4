package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kslingo/internal/audioplan"
	"kslingo/internal/config"
	"kslingo/internal/media/ffprobe"
	"kslingo/internal/services"
	"kslingo/internal/testsupport"
	"kslingo/internal/workflow"
)

const testLesson = `### Greetings - Pozdravi
- Szia - Zdravo
- %%B1,P,E%% Jó reggelt - Dobro jutro

### Food - Hrana
- kenyér - hleb
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("KSLINGO_LEARN", "")
	t.Setenv("KSLINGO_NATIVE", "")
	t.Setenv("KSLINGO_TTS_URL", "")

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
work_dir = %q
cache_dir = %q
log_dir = %q

[languages]
learn = %q
native = %q

[tts]
base_url = %q

[audio]
format = %q
`,
		cfg.Paths.OutputDir,
		cfg.Paths.WorkDir,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
		cfg.Languages.Learn,
		cfg.Languages.Native,
		cfg.TTS.BaseURL,
		cfg.Audio.Format,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) writeInput(t *testing.T, name, content string) string {
	t.Helper()
	return testsupport.WriteDocument(t, e.baseDir, name, content)
}

func runCLI(t *testing.T, args []string, configPath string, opts ...workflow.ManagerOption) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type stubSynth struct{ dir string }

func (s *stubSynth) Synthesize(_ context.Context, text, lang string) (audioplan.Clip, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return audioplan.Clip{}, err
	}
	f, err := os.CreateTemp(s.dir, lang+"_*.mp3")
	if err != nil {
		return audioplan.Clip{}, err
	}
	defer f.Close()
	_, err = f.WriteString(text)
	return audioplan.Clip{Path: f.Name()}, err
}

type stubMixer struct{}

func (stubMixer) Silence(context.Context, time.Duration) (audioplan.Clip, error) {
	return audioplan.Clip{Path: "silence"}, nil
}

func (stubMixer) LoadClip(context.Context, string, float64) (audioplan.Clip, error) {
	return audioplan.Clip{Path: "marker"}, nil
}

func (stubMixer) Export(_ context.Context, clips []audioplan.Clip, dest, _ string) error {
	return os.WriteFile(dest, []byte(fmt.Sprintf("%d clips", len(clips))), 0o644)
}

type stubVerifier struct{}

func (stubVerifier) Verify(context.Context, string) (ffprobe.Result, error) {
	return ffprobe.Result{Format: ffprobe.Format{Duration: "65"}}, nil
}

func fakeAudioStack(dir string) []workflow.ManagerOption {
	return []workflow.ManagerOption{
		workflow.WithSynthesizerFactory(func(string) audioplan.Synthesizer { return &stubSynth{dir: dir} }),
		workflow.WithMixerFactory(func(string) audioplan.Mixer { return stubMixer{} }),
		workflow.WithVerifier(stubVerifier{}),
	}
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runCLI(t, []string{"--version"}, "")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	requireContains(t, out, version)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Hungarian")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestInvalidConfigIsConfigurationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[audio]\nformat = \"aiff\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	if services.ExitCode(err) != services.ExitCode(services.ErrConfiguration) {
		t.Fatalf("err = %v, exit %d", err, services.ExitCode(err))
	}
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "lesson.md", testLesson)

	out, _, err := runCLI(t, []string{"inspect", input}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Format: md", "Learn: hu (Hungarian, magyar)", "Greetings - Pozdravi", "Food - Hrana", "Total phrases: 3"} {
		requireContains(t, out, want)
	}
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "lesson.md", testLesson)

	out, _, err := runCLI(t, []string{"plan", "--json", input}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var decoded planJSON
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode plan output: %v\n%s", err, out)
	}
	if decoded.Learn != "hu" || decoded.Native != "sr" || len(decoded.Plans) != 2 {
		t.Fatalf("plan = %+v", decoded)
	}
	if decoded.Plans[1].Index != 1 || decoded.Plans[1].Instructions[1] != audioplan.Speak("Food", "hu") {
		t.Fatalf("second plan = %+v", decoded.Plans[1])
	}

	out, _, err = runCLI(t, []string{"plan", input}, env.configPath)
	if err != nil {
		t.Fatalf("plan table: %v", err)
	}
	requireContains(t, out, "Greetings - Pozdravi")
}

func TestAudioCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	input := env.writeInput(t, "lesson.md", testLesson)

	out, _, err := runCLI(t, []string{"audio", input}, env.configPath, fakeAudioStack(filepath.Join(env.baseDir, "clips"))...)
	if err != nil {
		t.Fatalf("audio: %v", err)
	}
	requireContains(t, out, "00_Greetings - Pozdravi.mp3")
	requireContains(t, out, "01_Food - Hrana.mp3")
	requireContains(t, out, "1:05")
	for _, name := range []string{"00_Greetings - Pozdravi.mp3", "01_Food - Hrana.mp3"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestAudioCommandExitCodes(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCacheDisabled())
	stack := fakeAudioStack(filepath.Join(env.baseDir, "clips"))

	tests := []struct {
		name   string
		input  string
		marker error
	}{
		{"missing file", filepath.Join(env.baseDir, "missing.md"), services.ErrNotFound},
		{"unsupported extension", env.writeInput(t, "lesson.pdf", testLesson), services.ErrInvalidFormat},
		{"no phrases", env.writeInput(t, "empty.md", "### Empty - Prazno\n"), services.ErrEmptyResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, []string{"audio", tt.input}, env.configPath, stack...)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("err = %v, want %v", err, tt.marker)
			}
			if services.ExitCode(err) == 1 {
				t.Fatalf("expected a specific exit code for %v", err)
			}
		})
	}
}

func TestConvertAndPrefixCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "lesson.md", "### Food - Hrana\n- kenyér - hleb\n")

	xlsx := filepath.Join(env.baseDir, "lesson.xlsx")
	out, _, err := runCLI(t, []string{"convert", input, xlsx}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Wrote 1 phrase(s) in 1 section(s)")
	if _, err := os.Stat(xlsx); err != nil {
		t.Fatalf("expected spreadsheet: %v", err)
	}

	tagged := filepath.Join(env.baseDir, "tagged.md")
	out, _, err = runCLI(t, []string{"prefix", input, tagged, "--flags", "%%B2,P,E%%"}, env.configPath)
	if err != nil {
		t.Fatalf("prefix: %v", err)
	}
	requireContains(t, out, "Tagged 1 line(s)")
	data, err := os.ReadFile(tagged)
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, string(data), "- %%B2,P,E%% kenyér - hleb")
}

func TestCacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 0")

	input := env.writeInput(t, "lesson.md", testLesson)
	if _, _, err := runCLI(t, []string{"audio", input}, env.configPath, fakeAudioStack(filepath.Join(env.baseDir, "clips"))...); err != nil {
		t.Fatalf("audio: %v", err)
	}
	out, _, err = runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Serbian")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed")
}

func TestDoctorOffline(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"doctor", "--offline"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "generated 880Hz tone")
	requireContains(t, out, "All checks passed")
}

func TestDoctorReportsMissingBinary(t *testing.T) {
	env := setupCLITestEnv(t)
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	content = append(content, []byte("ffmpeg_binary = \"kslingo-missing-ffmpeg\"\n")...)
	if err := os.WriteFile(env.configPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"doctor", "--offline"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	requireContains(t, out, "kslingo-missing-ffmpeg")
}

package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"kslingo/internal/audioplan"
	"kslingo/internal/convert"
	"kslingo/internal/fileutil"
	"kslingo/internal/language"
	"kslingo/internal/logging"
	"kslingo/internal/phrase"
	"kslingo/internal/services"
)

// LoadRequest selects a document and optional role overrides.
type LoadRequest struct {
	Input  string
	Learn  string
	Native string
}

// PlanResult is a dry run of the audio command.
type PlanResult struct {
	Loaded convert.Loaded
	Plans  []audioplan.Plan
	Skips  []audioplan.Skip
	Single bool
}

// Languages returns the configured languages with any overrides applied.
// Overrides accept the same spellings as the config file ("serbian", "sr-Latn").
func (m *Manager) Languages(learn, native string) (phrase.Languages, error) {
	learn, err := canonicalOverride("learn", learn)
	if err != nil {
		return phrase.Languages{}, err
	}
	native, err = canonicalOverride("native", native)
	if err != nil {
		return phrase.Languages{}, err
	}
	langs := m.cfg.PhraseLanguages().WithRoles(learn, native)
	if err := langs.Validate(); err != nil {
		return phrase.Languages{}, services.Wrap(services.ErrConfiguration, "workflow", "languages", "", err)
	}
	return langs, nil
}

func canonicalOverride(role, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	canonical, err := language.Canonical(code)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "workflow", "languages", role, err)
	}
	return canonical, nil
}

// Load reads the document and reports parse diagnostics as warnings.
func (m *Manager) Load(ctx context.Context, req LoadRequest) (convert.Loaded, error) {
	langs, err := m.Languages(req.Learn, req.Native)
	if err != nil {
		return convert.Loaded{}, err
	}
	loaded, err := convert.ReadFile(req.Input, langs)
	if err != nil {
		return convert.Loaded{}, err
	}

	logger := logging.WithContext(ctx, m.logger)
	for _, w := range loaded.Warnings {
		logging.WarnWithContext(logger, "line ignored", "parse_warning",
			logging.String("kind", string(w.Kind)),
			logging.Int("line", w.Line),
			logging.String("text", w.Text),
		)
	}
	for _, note := range loaded.Notes {
		logging.WarnWithContext(logger, "spreadsheet note", "spreadsheet_warning",
			logging.String("detail", note),
			logging.String(logging.FieldImpact, "row interpreted with legacy rules"),
		)
	}
	logger.Debug("document loaded",
		logging.String("input", req.Input),
		logging.String("format", string(loaded.Format)),
		logging.Int("sections", len(loaded.Document.Sections)),
		logging.Int("phrases", loaded.Document.PhraseCount()),
	)
	return loaded, nil
}

// Plan loads the document and assembles the plans GenerateAudio would
// render. Text input and single mode produce one whole-document plan.
func (m *Manager) Plan(ctx context.Context, req LoadRequest, single bool) (PlanResult, error) {
	loaded, err := m.Load(ctx, req)
	if err != nil {
		return PlanResult{}, err
	}
	timing := m.cfg.Timing()
	result := PlanResult{Loaded: loaded, Single: single || loaded.Format == convert.FormatText}
	if result.Single {
		plan, skips := audioplan.Assemble(loaded.Document, loaded.Languages, timing)
		result.Skips = skips
		if len(plan.Instructions) > 0 {
			if plan.Title == "" {
				plan.Title = loaded.Title
			}
			result.Plans = []audioplan.Plan{plan}
		}
	} else {
		result.Plans, result.Skips = audioplan.AssembleSections(loaded.Document, loaded.Languages, timing)
	}

	logger := logging.WithContext(ctx, m.logger)
	for _, skip := range result.Skips {
		logging.WarnWithContext(logger, "section skipped", "section_skipped",
			logging.Int("index", skip.Index),
			logging.String("title", skip.Title),
			logging.String("reason", string(skip.Reason)),
			logging.String(logging.FieldImpact, "no audio for this section"),
			logging.String(logging.FieldErrorHint, "add phrases in both languages"),
		)
	}
	if len(result.Plans) == 0 {
		return result, services.Wrap(services.ErrEmptyResult, "workflow", "plan",
			fmt.Sprintf("%s contains no phrases to speak", req.Input), nil)
	}
	return result, nil
}

// Convert reads in and writes the document to out, each format chosen by
// extension.
func (m *Manager) Convert(ctx context.Context, req LoadRequest, out string) (convert.Loaded, error) {
	if _, err := convert.DetectFormat(out); err != nil {
		return convert.Loaded{}, err
	}
	loaded, err := m.Load(ctx, req)
	if err != nil {
		return convert.Loaded{}, err
	}
	if err := convert.WriteFile(out, loaded.Document, loaded.Languages, loaded.Title); err != nil {
		return loaded, err
	}
	logging.WithContext(ctx, m.logger).Info("document converted",
		logging.String("input", req.Input),
		logging.String("output", out),
		logging.Int("phrases", loaded.Document.PhraseCount()),
		logging.String(logging.FieldEventType, "convert_complete"),
	)
	return loaded, nil
}

// Prefix tags untagged phrase lines of the Markdown file in with prefix and
// writes the result to out. It returns the number of tagged lines.
func (m *Manager) Prefix(ctx context.Context, in, out, prefix string) (int, error) {
	for _, path := range []string{in, out} {
		format, err := convert.DetectFormat(path)
		if err != nil {
			return 0, err
		}
		if format != convert.FormatMarkdown {
			return 0, services.Wrap(services.ErrInvalidFormat, "workflow", "prefix",
				fmt.Sprintf("%s is not a Markdown file", path), nil)
		}
	}
	data, err := os.ReadFile(in)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, services.Wrap(services.ErrNotFound, "workflow", "prefix", in, err)
		}
		return 0, services.Wrap(services.ErrInvalidFormat, "workflow", "prefix", in, err)
	}

	var tagged int
	err = fileutil.WriteFileAtomic(out, 0o644, func(w io.Writer) error {
		var werr error
		tagged, werr = convert.AddFlagPrefix(bytes.NewReader(data), w, prefix)
		return werr
	})
	if err != nil {
		return 0, err
	}
	logging.WithContext(ctx, m.logger).Info("flag prefix applied",
		logging.String("output", out),
		logging.Int("tagged", tagged),
		logging.String(logging.FieldEventType, "prefix_complete"),
	)
	return tagged, nil
}

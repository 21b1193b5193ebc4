package convert

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"kslingo/internal/phrase"
	"kslingo/internal/services"
)

//go:embed schema/phrases.schema.json
var phraseSchemaJSON []byte

const phraseSchemaURL = "phrases.schema.json"

var (
	phraseSchemaOnce sync.Once
	phraseSchema     *jsonschema.Schema
	phraseSchemaErr  error
)

type jsonSection struct {
	Category map[string]string `json:"category"`
	Phrases  []jsonPhrase      `json:"phrases"`
}

type jsonPhrase struct {
	Level        string            `json:"level"`
	Enabled      bool              `json:"enabled"`
	IsWord       bool              `json:"isword"`
	Translations map[string]string `json:"translations"`
}

// Issue is a single schema violation in an imported payload.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every schema violation of a JSON import.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return services.ErrInvalidFormat
}

// WriteJSON renders doc as the fixed-schema JSON array. Category and
// translation maps carry every supported language, with empty strings where
// no text exists.
func WriteJSON(w io.Writer, doc phrase.Document, langs phrase.Languages) error {
	columns := langs.Columns()
	out := make([]jsonSection, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		js := jsonSection{
			Category: make(map[string]string, len(columns)),
			Phrases:  make([]jsonPhrase, 0, len(section.Phrases)),
		}
		for _, lang := range columns {
			js.Category[lang] = section.CategoryFor(langs, lang)
		}
		for _, p := range section.Phrases {
			jp := jsonPhrase{
				Level:        p.Flags.Level,
				Enabled:      p.Flags.Enabled,
				IsWord:       p.Flags.IsWord,
				Translations: make(map[string]string, len(columns)),
			}
			for _, lang := range columns {
				jp.Translations[lang] = p.TextFor(lang)
			}
			js.Phrases = append(js.Phrases, jp)
		}
		out = append(out, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// ReadJSON validates r against the embedded schema and maps it to a
// document. A phrase is only-learn when exactly one translation is non-empty.
func ReadJSON(r io.Reader, langs phrase.Languages) (phrase.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return phrase.Document{}, services.Wrap(services.ErrInvalidFormat, "convert", "read json", "", err)
	}
	if err := validateJSON(data); err != nil {
		return phrase.Document{}, err
	}

	var sections []jsonSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return phrase.Document{}, services.Wrap(services.ErrInvalidFormat, "convert", "decode json", "", err)
	}

	doc := phrase.Document{Sections: make([]phrase.Section, 0, len(sections))}
	for _, js := range sections {
		section := phrase.Section{
			Title:    phrase.TitleFromCategory(js.Category, langs),
			Category: trimMap(js.Category),
			Phrases:  make([]phrase.Phrase, 0, len(js.Phrases)),
		}
		for _, jp := range js.Phrases {
			text := trimMap(jp.Translations)
			section.Phrases = append(section.Phrases, phrase.Phrase{
				Flags:     phrase.FlagSet{Level: strings.TrimSpace(jp.Level), IsWord: jp.IsWord, Enabled: jp.Enabled},
				Text:      text,
				OnlyLearn: nonEmptyCount(text) == 1,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, nil
}

func validateJSON(data []byte) error {
	schema, err := compiledPhraseSchema()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "convert", "compile schema", "", err)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return services.Wrap(services.ErrInvalidFormat, "convert", "decode json", "", err)
	}
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return services.Wrap(services.ErrInvalidFormat, "convert", "validate json", "", &ValidationError{Issues: collectIssues(verr)})
		}
		return services.Wrap(services.ErrInvalidFormat, "convert", "validate json", "", err)
	}
	return nil
}

func compiledPhraseSchema() (*jsonschema.Schema, error) {
	phraseSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(phraseSchemaURL, bytes.NewReader(phraseSchemaJSON)); err != nil {
			phraseSchemaErr = err
			return
		}
		phraseSchema, phraseSchemaErr = compiler.Compile(phraseSchemaURL)
	})
	return phraseSchema, phraseSchemaErr
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func trimMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for lang, text := range in {
		out[strings.ToLower(strings.TrimSpace(lang))] = strings.TrimSpace(text)
	}
	return out
}

func nonEmptyCount(text map[string]string) int {
	n := 0
	for _, v := range text {
		if v != "" {
			n++
		}
	}
	return n
}

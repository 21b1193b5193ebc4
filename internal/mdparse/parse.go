package mdparse

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"kslingo/internal/phrase"
	"kslingo/internal/services"
	"kslingo/internal/textutil"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result is the outcome of a parse.
type Result struct {
	Document phrase.Document
	// Languages are the effective roles after any front matter override.
	Languages phrase.Languages
	// Title is the optional document title from front matter.
	Title    string
	Warnings []Warning
}

// Parse scans Markdown phrase content. Front matter keys learn and native
// override the supplied languages for this document. Only read failures and
// invalid language configuration return an error.
func Parse(r io.Reader, langs phrase.Languages, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	source, err := io.ReadAll(r)
	if err != nil {
		return Result{}, services.Wrap(services.ErrInvalidFormat, "parse", "read markdown", "", err)
	}
	source = bytes.TrimPrefix(source, utf8BOM)

	var meta frontMatter
	body := source
	if o.frontMatter {
		meta, body, err = splitFrontMatter(source)
		if err != nil {
			return Result{}, err
		}
	}

	effective := langs.WithRoles(meta.Learn, meta.Native)
	if err := effective.Validate(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "parse", "languages", "", err)
	}

	var state scanState
	err = scanLines(body, o.maxLineBytes, func(line string) {
		state = state.step(line, effective)
	})
	if err != nil {
		return Result{}, err
	}

	doc, warnings := state.finish()
	return Result{
		Document:  doc,
		Languages: effective,
		Title:     meta.Title,
		Warnings:  warnings,
	}, nil
}

// ParseText reads the plain text dialect: every line holding a separator
// becomes a phrase of a single untitled section. Flag blocks are honoured the
// same way as in Markdown.
func ParseText(r io.Reader, langs phrase.Languages, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	if err := langs.Validate(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "parse", "languages", "", err)
	}
	source, err := io.ReadAll(r)
	if err != nil {
		return Result{}, services.Wrap(services.ErrInvalidFormat, "parse", "read text", "", err)
	}

	section := phrase.Section{}
	var warnings []Warning
	lineNo := 0
	err = scanLines(source, o.maxLineBytes, func(line string) {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return
		}
		content := textutil.NormalizeSeparators(textutil.StripLeadingDash(textutil.StripEmphasis(trimmed)))
		flags, decoded := phrase.DecodeFlags(content)
		rest, found := phrase.StripFlagBlock(content)
		left, right, ok := textutil.SplitPair(rest)
		if !ok {
			warnings = append(warnings, Warning{Line: lineNo, Kind: WarnNoSeparator, Text: trimmed})
			return
		}
		if !decoded {
			if found {
				warnings = append(warnings, Warning{Line: lineNo, Kind: WarnMalformedFlags, Text: trimmed})
			}
			flags = phrase.DefaultFlags()
		}
		if left == "" || right == "" {
			warnings = append(warnings, Warning{Line: lineNo, Kind: WarnIncompletePair, Text: trimmed})
		}
		section.Phrases = append(section.Phrases, phrase.NewPair(flags, langs, left, right))
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Document:  phrase.Document{Sections: []phrase.Section{section}},
		Languages: langs,
		Warnings:  warnings,
	}, nil
}

func scanLines(body []byte, maxLine int, fn func(string)) error {
	body = bytes.TrimPrefix(body, utf8BOM)
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return services.Wrap(services.ErrInvalidFormat, "parse", "scan lines", "", err)
	}
	return nil
}

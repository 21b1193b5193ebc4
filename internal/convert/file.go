package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"kslingo/internal/fileutil"
	"kslingo/internal/mdparse"
	"kslingo/internal/phrase"
	"kslingo/internal/services"
)

// Loaded is a document read from disk together with its diagnostics.
type Loaded struct {
	Document  phrase.Document
	Languages phrase.Languages
	Format    Format
	Title     string
	// Warnings are per-line parse diagnostics from Markdown or text input.
	Warnings []mdparse.Warning
	// Notes are spreadsheet diagnostics.
	Notes []string
}

// ReadFile loads a document from path, dispatching on the file extension.
// The extension is validated before the file is opened.
func ReadFile(path string, langs phrase.Languages) (Loaded, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Loaded{}, err
	}
	if !format.Readable() {
		return Loaded{}, services.Wrap(services.ErrInvalidFormat, "convert", "read", fmt.Sprintf("%s files cannot be read", format), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Loaded{}, services.Wrap(services.ErrNotFound, "convert", "read", path, err)
		}
		return Loaded{}, services.Wrap(services.ErrInvalidFormat, "convert", "read", path, err)
	}

	out := Loaded{Format: format, Languages: langs}
	switch format {
	case FormatMarkdown, FormatText:
		parse := mdparse.Parse
		if format == FormatText {
			parse = mdparse.ParseText
		}
		res, err := parse(bytes.NewReader(data), langs)
		if err != nil {
			return Loaded{}, err
		}
		out.Document = res.Document
		out.Languages = res.Languages
		out.Title = res.Title
		out.Warnings = res.Warnings
	case FormatJSON:
		doc, err := ReadJSON(bytes.NewReader(data), langs)
		if err != nil {
			return Loaded{}, err
		}
		out.Document = doc
	case FormatXLSX:
		res, err := ReadSpreadsheet(bytes.NewReader(data), langs)
		if err != nil {
			return Loaded{}, err
		}
		out.Document = res.Document
		out.Notes = res.Warnings
	}
	return out, nil
}

// WriteFile saves doc to path in the format named by its extension. The file
// is written atomically; a failure leaves any previous file untouched.
func WriteFile(path string, doc phrase.Document, langs phrase.Languages, title string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if !format.Writable() {
		return services.Wrap(services.ErrInvalidFormat, "convert", "write", fmt.Sprintf("%s files cannot be written", format), nil)
	}
	if doc.Empty() {
		return services.Wrap(services.ErrEmptyResult, "convert", "write", "document holds no phrases", nil)
	}

	doc = doc.Clone()
	return fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		switch format {
		case FormatMarkdown:
			return WriteMarkdown(w, doc, langs)
		case FormatJSON:
			return WriteJSON(w, doc, langs)
		case FormatXLSX:
			return WriteSpreadsheet(w, doc, langs)
		default:
			return WriteHTML(w, NewHTMLRenderer(), doc, langs, title)
		}
	})
}

package convert

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"kslingo/internal/phrase"
)

// HTMLRenderer renders Markdown into a standalone HTML page. Raw HTML in the
// source is escaped.
type HTMLRenderer struct {
	engine goldmark.Markdown
}

// NewHTMLRenderer builds a renderer with GFM extensions enabled.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts markdown into a complete HTML document titled title.
func (r *HTMLRenderer) Render(markdown []byte, title string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.engine.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	if title == "" {
		title = "kslingo"
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, htmlHeader, html.EscapeString(title))
	page.Write(body.Bytes())
	page.WriteString(htmlFooter)
	return page.Bytes(), nil
}

// WriteHTML renders doc through the Markdown writer and r.
func WriteHTML(w io.Writer, r *HTMLRenderer, doc phrase.Document, langs phrase.Languages, title string) error {
	markdown, err := MarkdownBytes(doc, langs)
	if err != nil {
		return err
	}
	page, err := r.Render(stripFlagBlocks(markdown), title)
	if err != nil {
		return err
	}
	_, err = w.Write(page)
	return err
}

// stripFlagBlocks removes the %%...%% tags, which are metadata and not meant
// for readers.
func stripFlagBlocks(markdown []byte) []byte {
	lines := bytes.Split(markdown, []byte("\n"))
	for i, line := range lines {
		if !bytes.HasPrefix(line, []byte("- ")) {
			continue
		}
		rest, found := phrase.StripFlagBlock(string(line[2:]))
		if found {
			lines[i] = []byte("- " + rest)
		}
	}
	return bytes.Join(lines, []byte("\n"))
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
h3 { border-bottom: 1px solid #ddd; padding-bottom: .25rem; }
li strong { color: #1d4ed8; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

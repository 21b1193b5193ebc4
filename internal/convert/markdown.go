package convert

import (
	"bufio"
	"bytes"
	"io"

	"kslingo/internal/phrase"
	"kslingo/internal/textutil"
)

// WriteMarkdown renders doc in the phrase Markdown dialect. Only-learn
// phrases are written without a flag block; bilingual phrases missing a side
// are omitted because they cannot be emitted.
func WriteMarkdown(w io.Writer, doc phrase.Document, langs phrase.Languages) error {
	bw := bufio.NewWriter(w)
	for idx, section := range doc.Sections {
		if idx > 0 {
			bw.WriteString("\n")
		}
		title := textutil.JoinPair(section.CategoryFor(langs, langs.Learn), section.CategoryFor(langs, langs.Native))
		if title == "" {
			title = section.Title
		}
		bw.WriteString(textutil.HeadingMarker)
		if title != "" {
			bw.WriteString(" " + title)
		}
		bw.WriteString("\n")

		for _, p := range section.Phrases {
			if !p.Emittable(langs) {
				continue
			}
			bw.WriteString(markdownLine(p, langs))
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// MarkdownBytes is WriteMarkdown into memory.
func MarkdownBytes(doc phrase.Document, langs phrase.Languages) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, doc, langs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func markdownLine(p phrase.Phrase, langs phrase.Languages) string {
	learn := p.TextFor(langs.Learn)
	if p.OnlyLearn {
		return "- " + learn
	}
	if p.Flags.Enabled {
		learn = textutil.Bold(learn)
	}
	return "- " + phrase.EncodeFlags(p.Flags) + " " + textutil.JoinPair(learn, p.TextFor(langs.Native))
}

package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"kslingo/internal/phrase"
	"kslingo/internal/services"
	"kslingo/internal/textutil"
)

// AddFlagPrefix copies Markdown from r to w, inserting prefix after the list
// dash of every bilingual phrase line that carries no flag block. Headings,
// fenced code, already tagged lines and only-learn lines are copied unchanged;
// a flag block on a line without separator would make the parser drop it. An
// empty prefix uses the default flags. It returns the number of lines tagged.
func AddFlagPrefix(r io.Reader, w io.Writer, prefix string) (int, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = phrase.EncodeFlags(phrase.DefaultFlags())
	}
	if _, ok := phrase.DecodeFlags(prefix); !ok {
		return 0, services.Wrap(services.ErrInvalidFormat, "prefix", "decode prefix",
			fmt.Sprintf("%q is not a valid flag block", prefix), nil)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	bw := bufio.NewWriter(w)
	insideCode := false
	tagged := 0
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			insideCode = !insideCode
		case insideCode, trimmed == "", textutil.IsHeading(trimmed):
		case strings.HasPrefix(trimmed, "- "):
			body := strings.TrimSpace(trimmed[2:])
			if taggable(body) {
				indent := line[:strings.Index(line, "-")]
				line = indent + "- " + prefix + " " + body
				tagged++
			}
		}
		bw.WriteString(line)
		bw.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return tagged, services.Wrap(services.ErrInvalidFormat, "prefix", "scan lines", "", err)
	}
	return tagged, bw.Flush()
}

func taggable(body string) bool {
	if _, found := phrase.StripFlagBlock(body); found {
		return false
	}
	_, _, ok := textutil.SplitPair(textutil.StripEmphasis(body))
	return ok
}

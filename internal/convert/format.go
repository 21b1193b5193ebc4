package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"kslingo/internal/services"
)

// Format identifies a persisted representation by file extension.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatXLSX     Format = "xlsx"
	FormatHTML     Format = "html"
)

// DetectFormat validates the extension of path. Unknown extensions are an
// ErrInvalidFormat failure so nothing is parsed on a mismatch.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "txt":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", services.Wrap(services.ErrInvalidFormat, "convert", "detect format",
			fmt.Sprintf("unsupported extension %q for %s", filepath.Ext(path), filepath.Base(path)), nil)
	}
}

// Readable reports whether documents can be loaded from f.
func (f Format) Readable() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatJSON, FormatXLSX:
		return true
	default:
		return false
	}
}

// Writable reports whether documents can be saved as f.
func (f Format) Writable() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatXLSX, FormatHTML:
		return true
	default:
		return false
	}
}

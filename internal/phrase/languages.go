package phrase

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultSupported is the language set carried by the JSON and spreadsheet
// schemas when configuration does not override it.
var DefaultSupported = []string{"sr", "hu", "en", "it", "fr"}

// Languages names the learn and native roles plus the fixed set of languages
// every JSON/spreadsheet row carries.
type Languages struct {
	Learn     string
	Native    string
	Supported []string
}

// NewLanguages builds a Languages value with lower-cased codes. An empty
// supported list falls back to DefaultSupported; learn and native are appended
// when the list does not carry them.
func NewLanguages(learn, native string, supported []string) Languages {
	langs := Languages{
		Learn:  normalizeCode(learn),
		Native: normalizeCode(native),
	}
	if len(supported) == 0 {
		supported = DefaultSupported
	}
	langs.Supported = make([]string, 0, len(supported)+2)
	for _, code := range supported {
		langs.Supported = appendCode(langs.Supported, code)
	}
	langs.Supported = appendCode(langs.Supported, langs.Learn)
	langs.Supported = appendCode(langs.Supported, langs.Native)
	return langs
}

// WithRoles returns a copy with the learn/native roles replaced. Empty values
// keep the current role.
func (l Languages) WithRoles(learn, native string) Languages {
	out := l
	out.Supported = slices.Clone(l.Supported)
	if code := normalizeCode(learn); code != "" {
		out.Learn = code
	}
	if code := normalizeCode(native); code != "" {
		out.Native = code
	}
	out.Supported = appendCode(out.Supported, out.Learn)
	out.Supported = appendCode(out.Supported, out.Native)
	return out
}

// Columns returns the supported languages, guaranteeing learn and native are
// present so converters never drop the primary pair.
func (l Languages) Columns() []string {
	cols := slices.Clone(l.Supported)
	cols = appendCode(cols, l.Learn)
	return appendCode(cols, l.Native)
}

// Validate ensures both roles are set and distinct.
func (l Languages) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Learn, validation.Required, validation.Length(2, 16)),
		validation.Field(&l.Native, validation.Required, validation.Length(2, 16),
			validation.By(func(value any) error {
				if native, _ := value.(string); native != "" && native == l.Learn {
					return errors.New("must differ from the learn language")
				}
				return nil
			}),
		),
		validation.Field(&l.Supported,
			validation.Required,
			validation.By(func(value any) error {
				supported, _ := value.([]string)
				for _, code := range []string{l.Learn, l.Native} {
					if code != "" && !slices.Contains(supported, code) {
						return fmt.Errorf("must contain %q", code)
					}
				}
				return nil
			}),
		),
	)
}

func appendCode(codes []string, code string) []string {
	code = normalizeCode(code)
	if code == "" || slices.Contains(codes, code) {
		return codes
	}
	return append(codes, code)
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

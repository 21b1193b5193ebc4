package phrase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultLevel is the proficiency tag applied when a line carries no valid
	// flag block.
	DefaultLevel = "A2"

	flagDelimiter = "%%"
)

var flagBlockPattern = regexp.MustCompile(`^\s*%%([^%]*)%%`)

// FlagSet is the metadata carried by the %%LEVEL,TYPE,STATUS%% prefix.
type FlagSet struct {
	Level   string
	IsWord  bool
	Enabled bool
}

// DefaultFlags returns the flags used when a line has no (valid) flag block.
func DefaultFlags() FlagSet {
	return FlagSet{Level: DefaultLevel, IsWord: true, Enabled: false}
}

// Validate ensures the flag set can be encoded and decoded losslessly.
func (f FlagSet) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Level,
			validation.Required,
			validation.By(func(value any) error {
				level, _ := value.(string)
				if strings.TrimSpace(level) != level {
					return errors.New("must not have surrounding whitespace")
				}
				if strings.ContainsAny(level, ",%") {
					return errors.New("must not contain ',' or '%'")
				}
				return nil
			}),
		),
	)
}

// TypeCode returns "W" for words and "P" for phrases.
func (f FlagSet) TypeCode() string {
	if f.IsWord {
		return "W"
	}
	return "P"
}

// StatusCode returns "E" for enabled and "D" for disabled entries.
func (f FlagSet) StatusCode() string {
	if f.Enabled {
		return "E"
	}
	return "D"
}

// String renders the canonical LEVEL,W|P,E|D form without delimiters.
func (f FlagSet) String() string {
	return fmt.Sprintf("%s,%s,%s", f.Level, f.TypeCode(), f.StatusCode())
}

// EncodeFlags renders the flag block including its %% delimiters.
func EncodeFlags(f FlagSet) string {
	return flagDelimiter + f.String() + flagDelimiter
}

// DecodeFlags reads the optional leading %%...%% block of line. It returns
// false when the block is absent or malformed; a malformed block never yields
// a partial record.
func DecodeFlags(line string) (FlagSet, bool) {
	m := flagBlockPattern.FindStringSubmatch(line)
	if m == nil {
		return FlagSet{}, false
	}
	tokens := strings.Split(m[1], ",")
	if len(tokens) != 3 {
		return FlagSet{}, false
	}
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
		if tokens[i] == "" {
			return FlagSet{}, false
		}
	}

	var flags FlagSet
	flags.Level = tokens[0]
	switch strings.ToUpper(tokens[1]) {
	case "W":
		flags.IsWord = true
	case "P":
		flags.IsWord = false
	default:
		return FlagSet{}, false
	}
	switch strings.ToUpper(tokens[2]) {
	case "E":
		flags.Enabled = true
	case "D":
		flags.Enabled = false
	default:
		return FlagSet{}, false
	}
	return flags, true
}

// DecodeFlagsOrDefault decodes the leading flag block, falling back to
// DefaultFlags when it is absent or malformed.
func DecodeFlagsOrDefault(line string) FlagSet {
	if flags, ok := DecodeFlags(line); ok {
		return flags
	}
	return DefaultFlags()
}

// StripFlagBlock removes the leading %%...%% block regardless of whether its
// content is well formed. found reports whether a block was present.
func StripFlagBlock(line string) (rest string, found bool) {
	loc := flagBlockPattern.FindStringIndex(line)
	if loc == nil {
		return strings.TrimSpace(line), false
	}
	return strings.TrimSpace(line[loc[1]:]), true
}

// ContainsFlagMarker reports whether line still holds a bare %% token.
func ContainsFlagMarker(line string) bool {
	return strings.Contains(line, flagDelimiter)
}

package mdparse

const defaultMaxLineBytes = 1 << 20

type options struct {
	maxLineBytes int
	frontMatter  bool
}

// Option customizes a parse.
type Option func(*options)

// WithMaxLineBytes caps the length of a single input line.
func WithMaxLineBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineBytes = n
		}
	}
}

// WithoutFrontMatter disables front matter detection so a leading "---" line
// is scanned as body text.
func WithoutFrontMatter() Option {
	return func(o *options) {
		o.frontMatter = false
	}
}

func buildOptions(opts []Option) options {
	o := options{maxLineBytes: defaultMaxLineBytes, frontMatter: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

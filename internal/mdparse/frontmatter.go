package mdparse

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"

	"kslingo/internal/services"
)

type frontMatter struct {
	Learn  string `yaml:"learn" toml:"learn" json:"learn"`
	Native string `yaml:"native" toml:"native" json:"native"`
	Title  string `yaml:"title" toml:"title" json:"title"`
}

func splitFrontMatter(source []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return frontMatter{}, nil, services.Wrap(services.ErrInvalidFormat, "parse", "front matter", "", err)
	}
	meta.Learn = strings.TrimSpace(meta.Learn)
	meta.Native = strings.TrimSpace(meta.Native)
	meta.Title = strings.TrimSpace(meta.Title)
	return meta, body, nil
}

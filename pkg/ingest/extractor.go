package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned for files that do not open with a
// front-matter block.
var ErrNoFrontMatter = errors.New("no front-matter block")

// yamlFormat decodes "---" delimited front-matter with yaml.v3 so nested
// mappings come back as map[string]any.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatterExtractor reads YAML front-matter followed by markdown.
type FrontMatterExtractor struct{}

// NewFrontMatterExtractor creates the default extractor.
func NewFrontMatterExtractor() *FrontMatterExtractor {
	return &FrontMatterExtractor{}
}

// Extract parses content. A missing block yields ErrNoFrontMatter; YAML
// errors are returned wrapped.
func (e *FrontMatterExtractor) Extract(ctx context.Context, path string, content []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var meta map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(content), &meta, yamlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return Document{}, ErrNoFrontMatter
		}
		return Document{}, fmt.Errorf("unparseable front-matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return Document{
		Path: path,
		Meta: meta,
		Body: string(body),
	}, nil
}

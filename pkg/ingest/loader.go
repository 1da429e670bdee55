package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/duynguyendang/llm-playbook/internal/logger"
	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"golang.org/x/sync/errgroup"
)

// Loader enumerates a corpus directory and extracts every markdown file.
type Loader struct {
	Extractor Extractor
	Workers   int
	Log       *logger.Logger
}

// NewLoader creates a loader using the front-matter extractor.
func NewLoader(workers int, log *logger.Logger) *Loader {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		Extractor: NewFrontMatterExtractor(),
		Workers:   workers,
		Log:       log,
	}
}

type loadResult struct {
	doc  Document
	skip *Skip
}

// Load reads every markdown file under dir. Files that cannot be read or
// parsed are returned as skips; only an unreadable dir is an error.
func (l *Loader) Load(ctx context.Context, dir string) (*Corpus, error) {
	paths, err := listMarkdown(dir)
	if err != nil {
		return nil, err
	}

	results := make([]loadResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Workers)

	for i, rel := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				results[i] = loadResult{skip: &Skip{Path: rel, Reason: fmt.Sprintf("unreadable: %v", err)}}
				return nil
			}
			doc, err := l.Extractor.Extract(ctx, rel, content)
			switch {
			case err == nil:
				results[i] = loadResult{doc: doc}
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				results[i] = loadResult{skip: &Skip{Path: rel, Reason: err.Error()}}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corpus := &Corpus{Dir: dir, Documents: make([]Document, 0, len(paths))}
	for _, r := range results {
		if r.skip != nil {
			corpus.Skipped = append(corpus.Skipped, *r.skip)
			continue
		}
		corpus.Documents = append(corpus.Documents, r.doc)
	}
	l.Log.Debug("corpus loaded", "dir", dir, "files", len(paths), "documents", len(corpus.Documents), "skipped", len(corpus.Skipped))
	return corpus, nil
}

// listMarkdown returns slash-separated paths relative to dir, in lexical
// order, ignoring hidden directories and node_modules.
func listMarkdown(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorpusUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperrors.ErrCorpusUnreadable, dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdown(path) {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorpusUnreadable, err)
	}
	return paths, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

package ingest

import (
	"context"

	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// Document is one source file split into declared metadata and body text.
// Meta values are left exactly as the front-matter decoder produced them.
type Document struct {
	Path string
	Meta map[string]any
	Body string
}

// Corpus is the loader's output: parsed documents plus the files it
// could not use, both in path order.
type Corpus struct {
	Dir       string
	Documents []Document
	Skipped   []Skip
}

// Skip records a document excluded from the dataset.
type Skip struct {
	Path       string `json:"path"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning flags something questionable that still builds, such as a
// relation to an id that no entity of the target kind carries.
type Warning struct {
	Kind       playbook.Kind `json:"kind"`
	ID         string        `json:"id"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// Report summarizes one assembly.
type Report struct {
	Counts   map[playbook.Kind]int `json:"counts"`
	Skipped  []Skip                `json:"skipped"`
	Warnings []Warning             `json:"warnings"`
}

// Total is the number of entities in the dataset.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Extractor splits raw file content into a Document.
type Extractor interface {
	Extract(ctx context.Context, path string, content []byte) (Document, error)
}

package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/duynguyendang/llm-playbook/internal/logger"
	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/duynguyendang/llm-playbook/pkg/config"
	"github.com/duynguyendang/llm-playbook/pkg/export"
	"github.com/duynguyendang/llm-playbook/pkg/markup"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// Options carries the collaborators of a build that are not configuration.
type Options struct {
	Log   *logger.Logger
	Clock func() time.Time
}

// Result describes a successful build.
type Result struct {
	Dataset *playbook.Dataset
	Report  *Report
	Output  string
}

// Build runs the whole pipeline: load the corpus, assemble and validate
// the dataset, then replace the artifact. Nothing is written unless the
// dataset is valid.
func Build(ctx context.Context, cfg config.Config, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("corpus", cfg.CorpusDir)

	loader := NewLoader(cfg.Workers, log)
	corpus, err := loader.Load(ctx, cfg.CorpusDir)
	if err != nil {
		return nil, err
	}

	asm := NewAssembler(cfg.Version, markup.NewRenderer(cfg.RenderCacheSize), log)
	asm.Workers = cfg.Workers
	if opts.Clock != nil {
		asm.Clock = opts.Clock
	}

	ds, report, err := asm.Assemble(ctx, corpus.Documents)
	if report != nil {
		report.Skipped = append(report.Skipped, corpus.Skipped...)
		sort.SliceStable(report.Skipped, func(i, j int) bool { return report.Skipped[i].Path < report.Skipped[j].Path })
		for _, s := range report.Skipped {
			log.Warn("document skipped", "path", s.Path, "reason", s.Reason, "suggestion", s.Suggestion)
		}
	}
	if err != nil {
		return nil, err
	}
	for _, w := range report.Warnings {
		log.Warn("dangling relation", "kind", w.Kind, "id", w.ID, "message", w.Message, "suggestion", w.Suggestion)
	}

	if cfg.Strict && len(report.Skipped) > 0 {
		return nil, fmt.Errorf("%w: strict mode: %d document(s) skipped", apperrors.ErrInvalidDataset, len(report.Skipped))
	}

	if err := export.WriteAtomic(cfg.Output, ds); err != nil {
		return nil, err
	}

	log.Info("dataset written",
		"output", cfg.Output,
		"patterns", report.Counts[playbook.KindPattern],
		"workflows", report.Counts[playbook.KindWorkflow],
		"tools", report.Counts[playbook.KindTool],
		"prompts", report.Counts[playbook.KindPrompt],
		"metrics", report.Counts[playbook.KindMetric],
		"risks", report.Counts[playbook.KindRisk],
		"skipped", len(report.Skipped),
	)
	return &Result{Dataset: ds, Report: report, Output: cfg.Output}, nil
}

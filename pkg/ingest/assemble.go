package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duynguyendang/llm-playbook/internal/logger"
	"github.com/duynguyendang/llm-playbook/pkg/markup"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
	"golang.org/x/sync/errgroup"
)

// DiscriminatorField names the front-matter key selecting the entity kind.
const DiscriminatorField = "type"

// DateLayout is the format of Dataset.UpdatedAt.
const DateLayout = "2006-01-02"

// Assembler turns documents into one validated dataset.
type Assembler struct {
	Renderer *markup.Renderer
	Version  string
	// Clock supplies the build date; it is the only input that is not
	// derived from the documents.
	Clock   func() time.Time
	Workers int
	Log     *logger.Logger
}

// NewAssembler creates an assembler stamping datasets with version.
func NewAssembler(version string, renderer *markup.Renderer, log *logger.Logger) *Assembler {
	if renderer == nil {
		renderer = markup.NewRenderer(markup.DefaultCacheSize)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Assembler{
		Renderer: renderer,
		Version:  version,
		Clock:    time.Now,
		Workers:  1,
		Log:      log,
	}
}

type decoded struct {
	entity playbook.Entity
	skip   *Skip
	errs   playbook.ValidationErrors
	err    error
}

// Assemble classifies, normalizes and validates docs. Documents without a
// known discriminator are reported as skips. Field type mismatches and
// schema violations are returned together as playbook.ValidationErrors,
// in which case no dataset is returned.
func (a *Assembler) Assemble(ctx context.Context, docs []Document) (*playbook.Dataset, *Report, error) {
	workers := a.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]decoded, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.decode(docs[i])
			return results[i].err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ds := playbook.NewDataset(a.Version, a.Clock().UTC().Format(DateLayout))
	report := &Report{Counts: make(map[playbook.Kind]int), Skipped: []Skip{}, Warnings: []Warning{}}
	sources := make(map[string]string)
	var errs playbook.ValidationErrors

	for i, r := range results {
		switch {
		case r.skip != nil:
			report.Skipped = append(report.Skipped, *r.skip)
		case len(r.errs) > 0:
			errs = append(errs, r.errs...)
		default:
			ds.Add(r.entity)
			sources[sourceKey(r.entity.EntityKind(), r.entity.EntityID())] = docs[i].Path
		}
	}

	ds.Normalize()
	if err := playbook.Validate(ds); err != nil {
		var verrs playbook.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, nil, err
		}
		for _, fe := range verrs {
			if fe.Source == "" {
				fe.Source = sources[sourceKey(fe.Kind, fe.ID)]
			}
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return nil, report, errs
	}

	for _, k := range playbook.Kinds() {
		report.Counts[k] = ds.Count(k)
	}
	report.Warnings = danglingRelations(ds)
	a.Log.Debug("dataset assembled", "entities", ds.Len(), "skipped", len(report.Skipped), "warnings", len(report.Warnings))
	return ds, report, nil
}

func sourceKey(k playbook.Kind, id string) string {
	return string(k) + "\x00" + id
}

func (a *Assembler) decode(doc Document) decoded {
	raw, ok := doc.Meta[DiscriminatorField]
	if !ok || raw == nil {
		return decoded{skip: &Skip{Path: doc.Path, Reason: "missing discriminator field \"type\""}}
	}
	name, ok := scalarString(raw)
	if !ok {
		return decoded{skip: &Skip{Path: doc.Path, Reason: fmt.Sprintf("discriminator is not a string: %v", raw)}}
	}
	kind, ok := playbook.ParseKind(name)
	if !ok {
		candidates := make([]string, 0, 6)
		for _, k := range playbook.Kinds() {
			candidates = append(candidates, string(k))
		}
		return decoded{skip: &Skip{
			Path:       doc.Path,
			Reason:     fmt.Sprintf("unknown discriminator %q", name),
			Suggestion: closest(name, candidates, suggestionDistance(name)),
		}}
	}

	f := newFields(kind, doc)
	entity, err := a.build(kind, f, doc)
	if err != nil {
		return decoded{err: fmt.Errorf("%s: %w", doc.Path, err)}
	}
	if len(f.errs) > 0 {
		return decoded{errs: f.errs}
	}
	return decoded{entity: entity}
}

// markupField returns the explicit metadata value for key, sanitized, or
// else the rendered document body.
func (a *Assembler) markupField(f *fields, key string, doc Document) (string, error) {
	if f.has(key) {
		return a.Renderer.Sanitize(f.str(key)), nil
	}
	return a.Renderer.Render(doc.Body)
}

func (a *Assembler) build(kind playbook.Kind, f *fields, doc Document) (playbook.Entity, error) {
	switch kind {
	case playbook.KindPattern:
		summary, err := a.markupField(f, "summary", doc)
		if err != nil {
			return nil, err
		}
		return playbook.Pattern{
			ID:            f.id,
			Title:         f.str("title"),
			Summary:       summary,
			Phase:         playbook.Phase(f.str("phase")),
			Difficulty:    playbook.Difficulty(f.str("difficulty")),
			ROI:           f.num("roi"),
			Steps:         f.strs("steps"),
			BestPractices: f.strs("bestPractices"),
			AntiPatterns:  f.strs("antiPatterns"),
			Prompts:       f.strs("prompts"),
			Tools:         f.strs("tools"),
			Metrics:       f.strs("metrics"),
			Risks:         f.strs("risks"),
			Tags:          f.strs("tags"),
			Links:         f.strs("links"),
			Relations:     f.relations("relations"),
		}, nil

	case playbook.KindWorkflow:
		summary, err := a.markupField(f, "summary", doc)
		if err != nil {
			return nil, err
		}
		return playbook.Workflow{
			ID:        f.id,
			Title:     f.str("title"),
			Summary:   summary,
			Stages:    f.stages("stages"),
			KPIs:      f.strs("kpis"),
			Tags:      f.strs("tags"),
			Relations: f.relations("relations"),
		}, nil

	case playbook.KindTool:
		return playbook.Tool{
			ID:        f.id,
			Name:      f.str("name"),
			Category:  f.str("category"),
			Cost:      f.str("cost"),
			URL:       f.str("url"),
			Strengths: f.strs("strengths"),
			Limits:    f.strs("limits"),
			Tags:      f.strs("tags"),
			Relations: f.relations("relations"),
		}, nil

	case playbook.KindPrompt:
		body, err := a.markupField(f, "body", doc)
		if err != nil {
			return nil, err
		}
		return playbook.Prompt{
			ID:        f.id,
			Title:     f.str("title"),
			Body:      body,
			UseCases:  f.strs("useCases"),
			Inputs:    f.strs("inputs"),
			Outputs:   f.strs("outputs"),
			Tags:      f.strs("tags"),
			Relations: f.relations("relations"),
		}, nil

	case playbook.KindMetric:
		desc, err := a.markupField(f, "desc", doc)
		if err != nil {
			return nil, err
		}
		return playbook.Metric{
			ID:      f.id,
			Name:    f.str("name"),
			Desc:    desc,
			Scale:   playbook.Scale(f.str("scale")),
			Compute: f.str("compute"),
			Tags:    f.strs("tags"),
		}, nil

	case playbook.KindRisk:
		return playbook.Risk{
			ID:         f.id,
			Name:       f.str("name"),
			Mitigation: f.strs("mitigation"),
			Severity:   playbook.Severity(f.str("severity")),
			Tags:       f.strs("tags"),
		}, nil
	}
	return nil, fmt.Errorf("unhandled kind %q", kind)
}

// danglingRelations warns about relations whose target id is not an
// entity of the referenced kind.
func danglingRelations(ds *playbook.Dataset) []Warning {
	ids := make(map[playbook.Kind][]string)
	known := make(map[string]bool)
	for _, e := range ds.Entities() {
		ids[e.EntityKind()] = append(ids[e.EntityKind()], e.EntityID())
		known[sourceKey(e.EntityKind(), e.EntityID())] = true
	}

	warnings := []Warning{}
	for _, e := range ds.Entities() {
		for _, rel := range playbook.RelationsOf(e) {
			if known[sourceKey(rel.Type, rel.ID)] {
				continue
			}
			warnings = append(warnings, Warning{
				Kind:       e.EntityKind(),
				ID:         e.EntityID(),
				Message:    fmt.Sprintf("relation to unknown %s %q", rel.Type, rel.ID),
				Suggestion: closest(rel.ID, ids[rel.Type], suggestionDistance(rel.ID)),
			})
		}
	}
	return warnings
}

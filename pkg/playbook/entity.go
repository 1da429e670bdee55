package playbook

import (
	"fmt"
	"sort"
)

// Entity is the closed set of the six entity types. The unexported marker
// keeps implementations inside this package.
type Entity interface {
	EntityKind() Kind
	EntityID() string
	Label() string
	isEntity()
}

func (Pattern) isEntity()  {}
func (Workflow) isEntity() {}
func (Tool) isEntity()     {}
func (Prompt) isEntity()   {}
func (Metric) isEntity()   {}
func (Risk) isEntity()     {}

func (Pattern) EntityKind() Kind  { return KindPattern }
func (Workflow) EntityKind() Kind { return KindWorkflow }
func (Tool) EntityKind() Kind     { return KindTool }
func (Prompt) EntityKind() Kind   { return KindPrompt }
func (Metric) EntityKind() Kind   { return KindMetric }
func (Risk) EntityKind() Kind     { return KindRisk }

func (p Pattern) EntityID() string  { return p.ID }
func (w Workflow) EntityID() string { return w.ID }
func (t Tool) EntityID() string     { return t.ID }
func (p Prompt) EntityID() string   { return p.ID }
func (m Metric) EntityID() string   { return m.ID }
func (r Risk) EntityID() string     { return r.ID }

func (p Pattern) Label() string  { return label(p.Title, p.ID) }
func (w Workflow) Label() string { return label(w.Title, w.ID) }
func (t Tool) Label() string     { return label(t.Name, t.ID) }
func (p Prompt) Label() string   { return label(p.Title, p.ID) }
func (m Metric) Label() string   { return label(m.Name, m.ID) }
func (r Risk) Label() string     { return label(r.Name, r.ID) }

// label prefers the display title or name and falls back to the id.
func label(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// Add appends e to the bucket matching its kind.
func (d *Dataset) Add(e Entity) {
	switch v := e.(type) {
	case Pattern:
		d.Patterns = append(d.Patterns, v)
	case Workflow:
		d.Workflows = append(d.Workflows, v)
	case Tool:
		d.Tools = append(d.Tools, v)
	case Prompt:
		d.Prompts = append(d.Prompts, v)
	case Metric:
		d.Metrics = append(d.Metrics, v)
	case Risk:
		d.Risks = append(d.Risks, v)
	default:
		panic(fmt.Sprintf("playbook: unhandled entity type %T", e))
	}
}

// Entities returns every entity, bucket by bucket in kind order.
func (d *Dataset) Entities() []Entity {
	out := make([]Entity, 0, d.Len())
	for _, p := range d.Patterns {
		out = append(out, p)
	}
	for _, w := range d.Workflows {
		out = append(out, w)
	}
	for _, t := range d.Tools {
		out = append(out, t)
	}
	for _, p := range d.Prompts {
		out = append(out, p)
	}
	for _, m := range d.Metrics {
		out = append(out, m)
	}
	for _, r := range d.Risks {
		out = append(out, r)
	}
	return out
}

// RelationsOf returns the relations declared by e. Metrics and risks
// carry none.
func RelationsOf(e Entity) []Relation {
	switch v := e.(type) {
	case Pattern:
		return v.Relations
	case Workflow:
		return v.Relations
	case Tool:
		return v.Relations
	case Prompt:
		return v.Relations
	case Metric, Risk:
		return nil
	default:
		panic(fmt.Sprintf("playbook: unhandled entity type %T", e))
	}
}

// TagsOf returns the tags of e.
func TagsOf(e Entity) []string {
	switch v := e.(type) {
	case Pattern:
		return v.Tags
	case Workflow:
		return v.Tags
	case Tool:
		return v.Tags
	case Prompt:
		return v.Tags
	case Metric:
		return v.Tags
	case Risk:
		return v.Tags
	default:
		panic(fmt.Sprintf("playbook: unhandled entity type %T", e))
	}
}

// TextOf returns the markup-bearing field of e: summary, body or desc.
// Tools and risks have none.
func TextOf(e Entity) string {
	switch v := e.(type) {
	case Pattern:
		return v.Summary
	case Workflow:
		return v.Summary
	case Prompt:
		return v.Body
	case Metric:
		return v.Desc
	case Tool, Risk:
		return ""
	default:
		panic(fmt.Sprintf("playbook: unhandled entity type %T", e))
	}
}

// Normalize replaces every nil sequence with an empty one, including
// nested ones, and orders each bucket by id.
func (d *Dataset) Normalize() {
	if d.Patterns == nil {
		d.Patterns = []Pattern{}
	}
	if d.Workflows == nil {
		d.Workflows = []Workflow{}
	}
	if d.Tools == nil {
		d.Tools = []Tool{}
	}
	if d.Prompts == nil {
		d.Prompts = []Prompt{}
	}
	if d.Metrics == nil {
		d.Metrics = []Metric{}
	}
	if d.Risks == nil {
		d.Risks = []Risk{}
	}

	for i := range d.Patterns {
		p := &d.Patterns[i]
		for _, s := range []*[]string{&p.Steps, &p.BestPractices, &p.AntiPatterns, &p.Prompts,
			&p.Tools, &p.Metrics, &p.Risks, &p.Tags, &p.Links} {
			orEmpty(s)
		}
		if p.Relations == nil {
			p.Relations = []Relation{}
		}
	}
	for i := range d.Workflows {
		w := &d.Workflows[i]
		if w.Stages == nil {
			w.Stages = []Stage{}
		}
		for j := range w.Stages {
			orEmpty(&w.Stages[j].Goals)
			orEmpty(&w.Stages[j].Artifacts)
		}
		orEmpty(&w.KPIs)
		orEmpty(&w.Tags)
		if w.Relations == nil {
			w.Relations = []Relation{}
		}
	}
	for i := range d.Tools {
		t := &d.Tools[i]
		orEmpty(&t.Strengths)
		orEmpty(&t.Limits)
		orEmpty(&t.Tags)
		if t.Relations == nil {
			t.Relations = []Relation{}
		}
	}
	for i := range d.Prompts {
		p := &d.Prompts[i]
		orEmpty(&p.UseCases)
		orEmpty(&p.Inputs)
		orEmpty(&p.Outputs)
		orEmpty(&p.Tags)
		if p.Relations == nil {
			p.Relations = []Relation{}
		}
	}
	for i := range d.Metrics {
		orEmpty(&d.Metrics[i].Tags)
	}
	for i := range d.Risks {
		orEmpty(&d.Risks[i].Mitigation)
		orEmpty(&d.Risks[i].Tags)
	}

	sort.SliceStable(d.Patterns, func(i, j int) bool { return d.Patterns[i].ID < d.Patterns[j].ID })
	sort.SliceStable(d.Workflows, func(i, j int) bool { return d.Workflows[i].ID < d.Workflows[j].ID })
	sort.SliceStable(d.Tools, func(i, j int) bool { return d.Tools[i].ID < d.Tools[j].ID })
	sort.SliceStable(d.Prompts, func(i, j int) bool { return d.Prompts[i].ID < d.Prompts[j].ID })
	sort.SliceStable(d.Metrics, func(i, j int) bool { return d.Metrics[i].ID < d.Metrics[j].ID })
	sort.SliceStable(d.Risks, func(i, j int) bool { return d.Risks[i].ID < d.Risks[j].ID })
}

func orEmpty(s *[]string) {
	if *s == nil {
		*s = []string{}
	}
}

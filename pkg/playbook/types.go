package playbook

import (
	"fmt"
	"strings"
)

// Kind names one of the six entity buckets of a Dataset.
// It doubles as the front-matter discriminator and the relation target tag.
type Kind string

const (
	KindPattern  Kind = "pattern"
	KindWorkflow Kind = "workflow"
	KindTool     Kind = "tool"
	KindPrompt   Kind = "prompt"
	KindMetric   Kind = "metric"
	KindRisk     Kind = "risk"
)

var kinds = []Kind{KindPattern, KindWorkflow, KindTool, KindPrompt, KindMetric, KindRisk}

// Kinds returns every kind in dataset order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a discriminator value. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Phase is the lifecycle stage a pattern applies to.
type Phase string

const (
	PhaseIdeation    Phase = "Ideation"
	PhaseScaffolding Phase = "Scaffolding"
	PhaseCoding      Phase = "Coding"
	PhaseReview      Phase = "Review"
	PhaseTesting     Phase = "Testing"
	PhaseDeployment  Phase = "Deployment"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type Scale string

const (
	ScaleOrdinal Scale = "ordinal"
	ScaleRatio   Scale = "ratio"
	ScalePercent Scale = "percent"
)

type Severity string

const (
	SeverityLow  Severity = "Low"
	SeverityMed  Severity = "Med"
	SeverityHigh Severity = "High"
)

// Relation is a directional annotation owned by the entity declaring it.
type Relation struct {
	ID     string   `json:"id" validate:"required"`
	Type   Kind     `json:"type" validate:"required,oneof=pattern workflow tool prompt metric risk"`
	Weight *float64 `json:"weight,omitempty"`
}

type Pattern struct {
	ID            string     `json:"id" validate:"required"`
	Title         string     `json:"title" validate:"required"`
	Summary       string     `json:"summary" validate:"required"`
	Phase         Phase      `json:"phase" validate:"required,oneof=Ideation Scaffolding Coding Review Testing Deployment"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	ROI           *float64   `json:"roi" validate:"required,min=0,max=10"`
	Steps         []string   `json:"steps" validate:"required"`
	BestPractices []string   `json:"bestPractices" validate:"required"`
	AntiPatterns  []string   `json:"antiPatterns" validate:"required"`
	Prompts       []string   `json:"prompts" validate:"required"`
	Tools         []string   `json:"tools" validate:"required"`
	Metrics       []string   `json:"metrics" validate:"required"`
	Risks         []string   `json:"risks" validate:"required"`
	Tags          []string   `json:"tags" validate:"required"`
	Links         []string   `json:"links" validate:"required"`
	Relations     []Relation `json:"relations" validate:"required,dive"`
}

// Stage is one ordered step of a Workflow.
type Stage struct {
	Name      string   `json:"name" validate:"required"`
	Goals     []string `json:"goals" validate:"required"`
	Artifacts []string `json:"artifacts" validate:"required"`
}

type Workflow struct {
	ID        string     `json:"id" validate:"required"`
	Title     string     `json:"title" validate:"required"`
	Summary   string     `json:"summary" validate:"required"`
	Stages    []Stage    `json:"stages" validate:"required,dive"`
	KPIs      []string   `json:"kpis" validate:"required"`
	Tags      []string   `json:"tags" validate:"required"`
	Relations []Relation `json:"relations" validate:"required,dive"`
}

type Tool struct {
	ID        string     `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Category  string     `json:"category" validate:"required"`
	Cost      string     `json:"cost,omitempty"`
	URL       string     `json:"url,omitempty"`
	Strengths []string   `json:"strengths" validate:"required"`
	Limits    []string   `json:"limits" validate:"required"`
	Tags      []string   `json:"tags" validate:"required"`
	Relations []Relation `json:"relations" validate:"required,dive"`
}

type Prompt struct {
	ID        string     `json:"id" validate:"required"`
	Title     string     `json:"title" validate:"required"`
	Body      string     `json:"body" validate:"required"`
	UseCases  []string   `json:"useCases" validate:"required"`
	Inputs    []string   `json:"inputs" validate:"required"`
	Outputs   []string   `json:"outputs" validate:"required"`
	Tags      []string   `json:"tags" validate:"required"`
	Relations []Relation `json:"relations" validate:"required,dive"`
}

type Metric struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	Desc    string   `json:"desc" validate:"required"`
	Scale   Scale    `json:"scale" validate:"required,oneof=ordinal ratio percent"`
	Compute string   `json:"compute,omitempty"`
	Tags    []string `json:"tags" validate:"required"`
}

type Risk struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Mitigation []string `json:"mitigation" validate:"required"`
	Severity   Severity `json:"severity" validate:"required,oneof=Low Med High"`
	Tags       []string `json:"tags" validate:"required"`
}

// Dataset is the root build artifact.
type Dataset struct {
	Version   string     `json:"version" validate:"required"`
	UpdatedAt string     `json:"updatedAt" validate:"required,datetime=2006-01-02"`
	Patterns  []Pattern  `json:"patterns" validate:"required"`
	Workflows []Workflow `json:"workflows" validate:"required"`
	Tools     []Tool     `json:"tools" validate:"required"`
	Prompts   []Prompt   `json:"prompts" validate:"required"`
	Metrics   []Metric   `json:"metrics" validate:"required"`
	Risks     []Risk     `json:"risks" validate:"required"`
}

// NewDataset returns a dataset with every entity sequence present and empty.
func NewDataset(version, updatedAt string) *Dataset {
	return &Dataset{
		Version:   version,
		UpdatedAt: updatedAt,
		Patterns:  []Pattern{},
		Workflows: []Workflow{},
		Tools:     []Tool{},
		Prompts:   []Prompt{},
		Metrics:   []Metric{},
		Risks:     []Risk{},
	}
}

// Len reports the total number of entities across all kinds.
func (d *Dataset) Len() int {
	return len(d.Patterns) + len(d.Workflows) + len(d.Tools) +
		len(d.Prompts) + len(d.Metrics) + len(d.Risks)
}

// Count reports the number of entities of one kind.
func (d *Dataset) Count(k Kind) int {
	switch k {
	case KindPattern:
		return len(d.Patterns)
	case KindWorkflow:
		return len(d.Workflows)
	case KindTool:
		return len(d.Tools)
	case KindPrompt:
		return len(d.Prompts)
	case KindMetric:
		return len(d.Metrics)
	case KindRisk:
		return len(d.Risks)
	}
	return 0
}

func (k Kind) String() string { return string(k) }

// Plural is the dataset field name holding entities of this kind.
func (k Kind) Plural() string {
	return fmt.Sprintf("%ss", k)
}

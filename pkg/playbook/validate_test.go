package playbook

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roi(v float64) *float64 { return &v }

func validPattern(id string) Pattern {
	return Pattern{
		ID:         id,
		Title:      "Plan first",
		Summary:    "<p>Write the plan before the code.</p>",
		Phase:      PhaseIdeation,
		Difficulty: DifficultyBeginner,
		ROI:        roi(7),
	}
}

func TestNewDatasetIsValid(t *testing.T) {
	d := NewDataset("1", "2024-01-01")
	require.NoError(t, Validate(d))
	assert.Equal(t, 0, d.Len())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *Dataset)
		wantField string
		wantRule  string
		wantID    string
	}{
		{
			name: "roi above bound",
			mutate: func(d *Dataset) {
				p := validPattern("p1")
				p.ROI = roi(15)
				d.Add(p)
			},
			wantField: "roi",
			wantRule:  "max",
			wantID:    "p1",
		},
		{
			name: "roi below bound",
			mutate: func(d *Dataset) {
				p := validPattern("p1")
				p.ROI = roi(-1)
				d.Add(p)
			},
			wantField: "roi",
			wantRule:  "min",
			wantID:    "p1",
		},
		{
			name: "missing roi",
			mutate: func(d *Dataset) {
				p := validPattern("p1")
				p.ROI = nil
				d.Add(p)
			},
			wantField: "roi",
			wantRule:  "required",
			wantID:    "p1",
		},
		{
			name: "bad phase",
			mutate: func(d *Dataset) {
				p := validPattern("p1")
				p.Phase = "Shipping"
				d.Add(p)
			},
			wantField: "phase",
			wantRule:  "oneof",
			wantID:    "p1",
		},
		{
			name: "bad severity",
			mutate: func(d *Dataset) {
				d.Add(Risk{ID: "r1", Name: "Leak", Severity: "Critical"})
			},
			wantField: "severity",
			wantRule:  "oneof",
			wantID:    "r1",
		},
		{
			name: "bad relation target",
			mutate: func(d *Dataset) {
				d.Add(Tool{ID: "t1", Name: "Copilot", Category: "assistant",
					Relations: []Relation{{ID: "p1", Type: "person"}}})
			},
			wantField: "relations[0].type",
			wantRule:  "oneof",
			wantID:    "t1",
		},
		{
			name: "stage without name",
			mutate: func(d *Dataset) {
				d.Add(Workflow{ID: "w1", Title: "Flow", Summary: "s",
					Stages: []Stage{{Goals: []string{}, Artifacts: []string{}}}})
			},
			wantField: "stages[0].name",
			wantRule:  "required",
			wantID:    "w1",
		},
		{
			name: "duplicate id within kind",
			mutate: func(d *Dataset) {
				d.Add(validPattern("p1"))
				d.Add(validPattern("p1"))
			},
			wantField: "id",
			wantRule:  "unique",
			wantID:    "p1",
		},
		{
			name:      "bad date",
			mutate:    func(d *Dataset) { d.UpdatedAt = "01/02/2024" },
			wantField: "updatedAt",
			wantRule:  "datetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDataset("1", "2024-01-01")
			tt.mutate(d)
			d.Normalize()

			err := Validate(d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidDataset))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, fe := range verrs {
				if fe.Field == tt.wantField && fe.Rule == tt.wantRule && fe.ID == tt.wantID {
					found = true
				}
			}
			assert.True(t, found, "expected %s/%s on %q, got %v", tt.wantField, tt.wantRule, tt.wantID, verrs)
		})
	}
}

func TestSameIDAcrossKindsIsAllowed(t *testing.T) {
	d := NewDataset("1", "2024-01-01")
	d.Add(validPattern("shared"))
	d.Add(Metric{ID: "shared", Name: "Cycle time", Desc: "d", Scale: ScaleRatio})
	d.Normalize()
	assert.NoError(t, Validate(d))
}

func TestFieldErrorMessageNamesEntity(t *testing.T) {
	fe := FieldError{Kind: KindPattern, ID: "p1", Field: "roi", Rule: "max", Param: "10", Value: 15.0}
	assert.Equal(t, `pattern "p1": field "roi" must be <= 10, got 15`, fe.Error())
}

func TestNormalizeFillsAndSorts(t *testing.T) {
	d := &Dataset{Version: "1", UpdatedAt: "2024-01-01"}
	d.Add(validPattern("b"))
	d.Add(validPattern("a"))
	d.Add(Workflow{ID: "w", Title: "W", Summary: "s", Stages: []Stage{{Name: "plan"}}})
	d.Normalize()

	require.NotNil(t, d.Tools)
	require.NotNil(t, d.Risks)
	assert.Equal(t, "a", d.Patterns[0].ID)
	assert.Equal(t, "b", d.Patterns[1].ID)
	assert.NotNil(t, d.Patterns[0].Links)
	assert.NotNil(t, d.Patterns[0].Relations)
	assert.NotNil(t, d.Workflows[0].Stages[0].Artifacts)
	assert.NoError(t, Validate(d))
}

func TestEncodeDecodeArtifact(t *testing.T) {
	d := NewDataset("1", "2024-01-01")
	d.Add(validPattern("p1"))
	d.Add(Prompt{ID: "test", Title: "Test", Body: "<p>Hello</p>", UseCases: []string{"Testing"}})
	d.Normalize()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"body": "<p>Hello</p>"`)
	assert.Contains(t, out, `"antiPatterns": []`)

	got, err := Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDecodeFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated", `{"version": "1", "updatedAt": "2024-`},
		{"missing buckets", `{"version": "1", "updatedAt": "2024-01-01"}`},
		{"bad enum", `{"version":"1","updatedAt":"2024-01-01","patterns":[],"workflows":[],"tools":[],"prompts":[],
			"metrics":[{"id":"m","name":"n","desc":"d","scale":"log","tags":[]}],"risks":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(strings.NewReader(tt.raw))
			assert.Nil(t, d)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArtifact)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Prompt ")
	assert.True(t, ok)
	assert.Equal(t, KindPrompt, k)

	_, ok = ParseKind("practice")
	assert.False(t, ok)
	assert.Equal(t, "workflows", KindWorkflow.Plural())
}

func TestLabelFallsBackToID(t *testing.T) {
	assert.Equal(t, "Copilot", Tool{ID: "t", Name: "Copilot"}.Label())
	assert.Equal(t, "t", Tool{ID: "t"}.Label())
	assert.Equal(t, "Plan first", validPattern("p").Label())
}

package search

import (
	"testing"

	"github.com/duynguyendang/llm-playbook/pkg/playbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *Index {
	roi := 7.0
	ds := playbook.NewDataset("1", "2024-01-01")
	ds.Add(playbook.Pattern{
		ID: "plan-first", Title: "Plan first", Summary: "<p>Write the plan before any code.</p>",
		Phase: playbook.PhaseIdeation, Difficulty: playbook.DifficultyBeginner, ROI: &roi,
		Tags: []string{"planning"},
	})
	ds.Add(playbook.Tool{ID: "copilot", Name: "Copilot", Category: "assistant", Tags: []string{"assistant"}})
	ds.Add(playbook.Prompt{ID: "test", Title: "Test", Body: "<p>Hello world review</p>"})
	ds.Normalize()
	return NewIndex(ds)
}

func TestSearch(t *testing.T) {
	idx := testIndex()
	require.Equal(t, 3, idx.Len())

	tests := []struct {
		name     string
		query    string
		wantKind playbook.Kind
		wantID   string
	}{
		{"exact name", "Copilot", playbook.KindTool, "copilot"},
		{"label substring", "plan", playbook.KindPattern, "plan-first"},
		{"typo in tag", "planing", playbook.KindPattern, "plan-first"},
		{"body text", "hello", playbook.KindPrompt, "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := idx.Search(tt.query, 0)
			require.NotEmpty(t, hits)
			assert.Equal(t, tt.wantKind, hits[0].Kind)
			assert.Equal(t, tt.wantID, hits[0].ID)
		})
	}
}

func TestSearchExactLabelScoresOne(t *testing.T) {
	hits := testIndex().Search("copilot", 1)
	require.Len(t, hits, 1)
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Equal(t, "Copilot", hits[0].Label)
}

func TestSearchNoMatch(t *testing.T) {
	idx := testIndex()
	assert.Empty(t, idx.Search("zzzz", 5))
	assert.Empty(t, idx.Search("   ", 5))
	assert.Empty(t, NewIndex(playbook.NewDataset("1", "2024-01-01")).Search("plan", 5))
}

func TestSearchExcerpt(t *testing.T) {
	hits := testIndex().Search("plan first", 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "Write the plan before any code.", hits[0].Excerpt)
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("bestPractices for_LLM-review")
	for _, want := range []string{"best", "practices", "for", "llm", "review"} {
		assert.True(t, tokens[want], "missing token %q", want)
	}
}

func TestSearchBodyOnlyMatchPassesThreshold(t *testing.T) {
	hits := testIndex().Search("hello", 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "test", hits[0].ID)
	assert.InDelta(t, 0.95*WeightText/WeightLabel, hits[0].Score, 1e-9)
	assert.Greater(t, hits[0].Score, Threshold)
}

func TestCalculateScoreSplitsCamelCaseValues(t *testing.T) {
	// A typo only lines up with the second half of a camelCase tag.
	score := calculateScore("chaning", tokenize("chaning"), "promptChaining")
	assert.InDelta(t, 1-1.0/8, score, 1e-9)
}

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(v float64) *float64 { return &v }

func testDataset() *playbook.Dataset {
	roi := 6.0
	ds := playbook.NewDataset("1", "2024-01-01")
	ds.Add(playbook.Pattern{
		ID: "plan-first", Title: "Plan first", Summary: "s",
		Phase: playbook.PhaseIdeation, Difficulty: playbook.DifficultyBeginner, ROI: &roi,
		Tags: []string{"planning"},
		Relations: []playbook.Relation{
			{ID: "copilot", Type: playbook.KindTool, Weight: weight(0.5)},
			{ID: "ghost", Type: playbook.KindRisk},
		},
	})
	ds.Add(playbook.Tool{ID: "copilot", Name: "Copilot", Category: "assistant"})
	ds.Normalize()
	return ds
}

func TestD3Transformer(t *testing.T) {
	graph := ExportD3(testDataset())

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "pattern:plan-first", graph.Nodes[0].ID)
	assert.Equal(t, "Plan first", graph.Nodes[0].Name)
	assert.Equal(t, "tool:copilot", graph.Nodes[1].ID)
	assert.Equal(t, "risk:ghost", graph.Nodes[2].ID)
	assert.True(t, graph.Nodes[2].Missing)

	require.Len(t, graph.Links, 2)
	assert.Equal(t, D3Link{Source: "pattern:plan-first", Target: "tool:copilot", Relation: playbook.KindTool, Weight: 0.5}, graph.Links[0])
	assert.Equal(t, 1.0, graph.Links[1].Weight)

	// Filtering
	transformer := NewD3Transformer()
	transformer.ExcludeMissing = true
	graph = transformer.Transform(testDataset())
	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Links, 1)

	transformer = NewD3Transformer()
	transformer.Kinds = map[playbook.Kind]bool{playbook.KindTool: true}
	graph = transformer.Transform(testDataset())
	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Links)
}

func TestEncodeEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeD3Graph(&buf, ExportD3(playbook.NewDataset("1", "2024-01-01"))))
	assert.JSONEq(t, `{"nodes": [], "links": []}`, buf.String())
}

func TestSaveD3Graph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, SaveD3Graph(ExportD3(testDataset()), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got D3Graph
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got.Nodes, 3)
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "playbook.json")

	require.NoError(t, WriteAtomic(path, testDataset()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteAtomic(path, testDataset()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	got, err := playbook.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestWriteAtomicUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteAtomic(filepath.Join(blocker, "playbook.json"), testDataset())
	assert.ErrorIs(t, err, apperrors.ErrOutputUnwritable)

	content, err := os.ReadFile(blocker)
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

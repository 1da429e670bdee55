package export

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// D3Node represents a node in the D3 relation graph.
type D3Node struct {
	ID      string        `json:"id"`                // kind:id, unique across kinds
	Name    string        `json:"name"`              // Display label (title or name)
	Kind    playbook.Kind `json:"kind"`              // Entity kind
	Group   string        `json:"group"`             // Grouping for visualization (uses Kind)
	Tags    []string      `json:"tags,omitempty"`    // Entity tags
	Missing bool          `json:"missing,omitempty"` // Referenced by a relation but absent from the dataset
}

// D3Link represents a declared relation between two entities.
type D3Link struct {
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Relation playbook.Kind `json:"relation"` // Target kind tag
	Weight   float64       `json:"weight"`
}

// D3Graph represents the full graph structure for D3.js.
type D3Graph struct {
	Nodes []D3Node `json:"nodes"`
	Links []D3Link `json:"links"`
}

// D3Transformer converts a dataset into a node/link graph.
type D3Transformer struct {
	// ExcludeMissing drops links whose target is not in the dataset.
	ExcludeMissing bool
	// Kinds limits the graph to entities of these kinds; empty means all.
	Kinds map[playbook.Kind]bool
}

// NewD3Transformer creates a transformer including every kind.
func NewD3Transformer() *D3Transformer {
	return &D3Transformer{Kinds: map[playbook.Kind]bool{}}
}

// NodeID is the graph id of an entity.
func NodeID(k playbook.Kind, id string) string {
	return string(k) + ":" + id
}

func (t *D3Transformer) included(k playbook.Kind) bool {
	return len(t.Kinds) == 0 || t.Kinds[k]
}

// Transform builds the graph. Nodes follow dataset order with missing
// targets appended sorted by id; links follow declaration order.
func (t *D3Transformer) Transform(ds *playbook.Dataset) *D3Graph {
	graph := &D3Graph{Nodes: []D3Node{}, Links: []D3Link{}}
	present := make(map[string]bool)

	entities := ds.Entities()
	for _, e := range entities {
		if !t.included(e.EntityKind()) {
			continue
		}
		id := NodeID(e.EntityKind(), e.EntityID())
		present[id] = true
		graph.Nodes = append(graph.Nodes, D3Node{
			ID:    id,
			Name:  e.Label(),
			Kind:  e.EntityKind(),
			Group: string(e.EntityKind()),
			Tags:  playbook.TagsOf(e),
		})
	}

	missing := make(map[string]D3Node)
	for _, e := range entities {
		if !t.included(e.EntityKind()) {
			continue
		}
		src := NodeID(e.EntityKind(), e.EntityID())
		for _, rel := range playbook.RelationsOf(e) {
			if !t.included(rel.Type) {
				continue
			}
			dst := NodeID(rel.Type, rel.ID)
			if !present[dst] {
				if t.ExcludeMissing {
					continue
				}
				missing[dst] = D3Node{ID: dst, Name: rel.ID, Kind: rel.Type, Group: string(rel.Type), Missing: true}
			}

			weight := 1.0
			if rel.Weight != nil {
				weight = *rel.Weight
			}
			graph.Links = append(graph.Links, D3Link{
				Source:   src,
				Target:   dst,
				Relation: rel.Type,
				Weight:   weight,
			})
		}
	}

	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		graph.Nodes = append(graph.Nodes, missing[id])
	}
	return graph
}

// ExportD3 is a convenience wrapper for D3Transformer.
func ExportD3(ds *playbook.Dataset) *D3Graph {
	return NewD3Transformer().Transform(ds)
}

// EncodeD3Graph writes the graph as indented JSON.
func EncodeD3Graph(w io.Writer, graph *D3Graph) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(graph)
}

// SaveD3Graph writes the graph to a JSON file without leaving a partial
// file behind on failure.
func SaveD3Graph(graph *D3Graph, filename string) error {
	var buf bytes.Buffer
	if err := EncodeD3Graph(&buf, graph); err != nil {
		return err
	}
	return writeFileAtomic(filename, buf.Bytes())
}

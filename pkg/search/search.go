// Package search ranks dataset entities against a free-text query.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/duynguyendang/llm-playbook/pkg/markup"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// Key weights, highest first.
const (
	WeightLabel = 0.5
	WeightTags  = 0.3
	WeightText  = 0.2
)

// Threshold is the normalized similarity a hit must exceed. It is a
// floor on similarity, not a cap on distance, so a substring match in
// body text alone (0.95 * WeightText / WeightLabel = 0.38) still passes.
const Threshold = 0.3

// DefaultLimit caps results when Search is given a non-positive limit.
const DefaultLimit = 10

// Hit is a single ranked search result.
type Hit struct {
	Kind    playbook.Kind `json:"kind"`
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Excerpt string        `json:"excerpt,omitempty"`
	Score   float64       `json:"score"`
}

type entry struct {
	kind  playbook.Kind
	id    string
	label string
	tags  []string
	text  string
	order int
}

// Index holds the searchable projection of a dataset.
type Index struct {
	entries []entry
}

// NewIndex projects every entity of ds into the index.
func NewIndex(ds *playbook.Dataset) *Index {
	idx := &Index{}
	for i, e := range ds.Entities() {
		idx.entries = append(idx.entries, entry{
			kind:  e.EntityKind(),
			id:    e.EntityID(),
			label: e.Label(),
			tags:  playbook.TagsOf(e),
			text:  markup.PlainText(playbook.TextOf(e)),
			order: i,
		})
	}
	return idx
}

// Len reports the number of indexed entities.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search returns up to limit hits scoring above Threshold, best first.
// Equal scores keep dataset order.
func (idx *Index) Search(query string, limit int) []Hit {
	query = strings.TrimSpace(query)
	if query == "" || len(idx.entries) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenize(query)

	type scored struct {
		entry
		score float64
	}
	var results []scored
	for _, e := range idx.entries {
		score := WeightLabel * calculateScore(queryLower, queryTokens, e.label)
		for _, tag := range e.tags {
			score = math.Max(score, WeightTags*calculateScore(queryLower, queryTokens, tag))
		}
		if e.text != "" {
			score = math.Max(score, WeightText*calculateScore(queryLower, queryTokens, e.text))
		}
		// Normalize against the heaviest key so an exact label match is 1.
		score /= WeightLabel
		if score > Threshold {
			results = append(results, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].order < results[j].order
	})

	if len(results) > limit {
		results = results[:limit]
	}
	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			Kind:    r.kind,
			ID:      r.id,
			Label:   r.label,
			Excerpt: excerpt(r.text, 80),
			Score:   r.score,
		}
	}
	return hits
}

func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// calculateScore returns a similarity score between 0 and 1.
// It combines exact match, Levenshtein distance, and token similarity.
func calculateScore(queryLower string, queryTokens map[string]bool, value string) float64 {
	valueLower := strings.ToLower(value)

	if queryLower == valueLower {
		return 1.0
	}
	if strings.Contains(valueLower, queryLower) {
		return 0.95
	}

	// Global Levenshtein similarity, useful for near-complete labels.
	levDist := levenshtein.Distance(queryLower, valueLower, nil)
	maxLen := float64(len(queryLower))
	if len(valueLower) > int(maxLen) {
		maxLen = float64(len(valueLower))
	}
	globalLevScore := 1.0 - (float64(levDist) / maxLen)
	if globalLevScore < 0 {
		globalLevScore = 0
	}

	// Best fuzzy match per query token, averaged.
	valueTokens := tokenize(value)
	totalTokenScore := 0.0
	for qToken := range queryTokens {
		bestTokenScore := 0.0
		if valueTokens[qToken] {
			bestTokenScore = 1.0
		} else {
			for vToken := range valueTokens {
				dist := levenshtein.Distance(qToken, vToken, nil)
				tMax := float64(len(qToken))
				if len(vToken) > int(tMax) {
					tMax = float64(len(vToken))
				}
				score := 1.0 - (float64(dist) / tMax)
				if score > bestTokenScore {
					bestTokenScore = score
				}
			}
		}
		totalTokenScore += bestTokenScore
	}

	tokenScore := 0.0
	if len(queryTokens) > 0 {
		tokenScore = totalTokenScore / float64(len(queryTokens))
	}

	return math.Max(globalLevScore, tokenScore)
}

// tokenize splits a string into unique lower-case tokens on
// non-alphanumeric characters and camelCase boundaries.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	var currentToken strings.Builder
	var prev rune

	flush := func() {
		if currentToken.Len() > 0 {
			tokens[strings.ToLower(currentToken.String())] = true
			currentToken.Reset()
		}
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			flush()
		} else {
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				flush()
			}
			currentToken.WriteRune(r)
		}
		prev = r
	}
	flush()
	return tokens
}

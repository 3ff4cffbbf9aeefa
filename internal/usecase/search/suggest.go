package search

import (
	"sort"
	"strings"

	"github.com/localmart/khoj/internal/domain/entity"
)

const (
	maxSuggestions = 8
	maxDidYouMean  = 3
)

// popularTerms is the static fallback for "did you mean" when no catalog
// candidate clears the similarity threshold.
var popularTerms = []string{"kirana", "rice", "dal", "restaurant", "salon", "mobile repair"}

// Suggestions holds autocomplete candidates and spelling corrections.
type Suggestions struct {
	Suggestions []string
	DidYouMean  []string
}

// suggest harvests candidate strings from names, categories, brands and
// tags across all entity kinds, scores them with the match scorer at a
// permissive threshold for autocomplete, and reuses the candidate pool
// with whole-string similarity for spelling corrections.
func suggest(
	snap *entity.Snapshot, queryText string,
	suggestThreshold, didYouMeanSimilarity float64,
) Suggestions {
	type candidate struct {
		display string
		score   float64
		sim     float64
	}

	normQuery := normalizeText(queryText)
	pool := make(map[string]*candidate)

	harvest := func(s string) {
		if s == "" {
			return
		}
		key := normalizeText(s)
		if key == "" {
			return
		}
		if _, ok := pool[key]; ok {
			return
		}
		pool[key] = &candidate{
			display: strings.TrimSpace(s),
			score:   scoreText(s, queryText),
			sim:     similarity(key, normQuery),
		}
	}

	for _, e := range snap.Entities() {
		harvest(e.Name())
		harvest(e.LocalizedName())
		harvest(e.Category())
		harvest(e.Brand())
		for _, t := range e.Tags() {
			harvest(t)
		}
	}

	accepted := make([]*candidate, 0, len(pool))
	corrections := make([]*candidate, 0, 8)
	for key, c := range pool {
		if c.score >= suggestThreshold {
			accepted = append(accepted, c)
		}
		if key != normQuery && c.sim > didYouMeanSimilarity {
			corrections = append(corrections, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].score != accepted[j].score {
			return accepted[i].score > accepted[j].score
		}
		return accepted[i].display < accepted[j].display
	})
	sort.Slice(corrections, func(i, j int) bool {
		if corrections[i].sim != corrections[j].sim {
			return corrections[i].sim > corrections[j].sim
		}
		return corrections[i].display < corrections[j].display
	})

	out := Suggestions{}
	for _, c := range accepted {
		out.Suggestions = append(out.Suggestions, c.display)
		if len(out.Suggestions) == maxSuggestions {
			break
		}
	}
	for _, c := range corrections {
		out.DidYouMean = append(out.DidYouMean, c.display)
		if len(out.DidYouMean) == maxDidYouMean {
			break
		}
	}
	if len(out.DidYouMean) == 0 {
		out.DidYouMean = append(out.DidYouMean, popularTerms...)
		if len(out.DidYouMean) > maxDidYouMean {
			out.DidYouMean = out.DidYouMean[:maxDidYouMean]
		}
	}

	return out
}

package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Score boundaries on the 0..10 scale.
const (
	scoreExact         = 10.0
	scoreStrongPrefix  = 9.0
	scorePrefix        = 8.0
	scoreStrongSub     = 7.0
	scoreSubstring     = 6.0
	tokenScoreCap      = 8.0
	fuzzyAcceptSim     = 0.5
	tokenFuzzyMinSim   = 0.7
	shortQueryMaxRunes = 3
	shortOverlapMin    = 0.7
)

// scoreText rates how well a single candidate string matches the query.
// Pure and deterministic: 0 means no match, 10 means an exact match after
// normalization. Rules are tried strongest-first; the first rule that fires
// decides the score. Works on runes so Hindi and mixed-script text score
// the same way ASCII does.
func scoreText(candidate, query string) float64 {
	c := normalizeText(candidate)
	q := normalizeText(query)
	if c == "" || q == "" {
		return 0
	}

	if c == q {
		return scoreExact
	}

	cLen := utf8.RuneCountInString(c)
	qLen := utf8.RuneCountInString(q)

	if strings.HasPrefix(c, q) {
		if float64(qLen) >= 0.7*float64(cLen) {
			return scoreStrongPrefix
		}
		return scorePrefix
	}

	if strings.Contains(c, q) {
		if float64(qLen) > 0.5*float64(cLen) {
			return scoreStrongSub
		}
		return scoreSubstring
	}

	if s := scoreTokens(c, q); s > 0 {
		return s
	}

	if sim := similarity(c, q); sim > fuzzyAcceptSim {
		return sim * 4
	}

	if qLen <= shortQueryMaxRunes {
		if overlap := charOverlap(c, q); overlap >= shortOverlapMin {
			return overlap * 2
		}
	}

	return 0
}

// scoreTokens compares individual words of the query against the candidate.
// Each query token keeps its best candidate-token score; the aggregate is
// the matched-token ratio times the average best score, capped at 8 so a
// multi-token match never outranks a direct substring hit.
func scoreTokens(candidate, query string) float64 {
	cTokens := tokenize(candidate)
	qTokens := tokenize(query)
	if len(cTokens) == 0 || len(qTokens) == 0 {
		return 0
	}

	matched := 0
	sum := 0.0
	for _, qt := range qTokens {
		best := 0.0
		for _, ct := range cTokens {
			if s := scoreTokenPair(ct, qt); s > best {
				best = s
			}
		}
		if best > 0 {
			matched++
			sum += best
		}
	}
	if matched == 0 {
		return 0
	}

	ratio := float64(matched) / float64(len(qTokens))
	avg := sum / float64(matched)
	agg := ratio * avg
	if agg > tokenScoreCap {
		return tokenScoreCap
	}
	return agg
}

// scoreTokenPair rates one candidate token against one query token.
func scoreTokenPair(ct, qt string) float64 {
	switch {
	case ct == qt:
		return 5
	case strings.HasPrefix(ct, qt):
		return 4
	case strings.Contains(ct, qt):
		return 3
	case strings.HasPrefix(qt, ct):
		return 2
	}
	if sim := similarity(ct, qt); sim > tokenFuzzyMinSim {
		return sim * 2
	}
	return 0
}

// similarity is the normalized Levenshtein similarity of two strings:
// 1 − distance/max(len). 1 means identical, 0 means nothing in common.
func similarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// charOverlap returns the share of query runes present in the candidate.
func charOverlap(candidate, query string) float64 {
	present := make(map[rune]bool)
	for _, r := range candidate {
		present[r] = true
	}
	total := 0
	hits := 0
	for _, r := range query {
		total++
		if present[r] {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tokenize splits on whitespace and punctuation.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

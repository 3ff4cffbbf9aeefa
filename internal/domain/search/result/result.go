package result

import (
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/match"
)

// Match is a single ranked hit. It is created fresh per query and discarded
// after the response is built; it never outlives the snapshot it came from.
type Match struct {
	ent           *entity.Entity
	score         float64
	matchType     match.Type
	matchedFields []string
	distanceKm    *float64
}

// New creates a ranked match.
func New(
	ent *entity.Entity, score float64, matchType match.Type,
	matchedFields []string, distanceKm *float64,
) Match {
	return Match{
		ent:           ent,
		score:         score,
		matchType:     matchType,
		matchedFields: matchedFields,
		distanceKm:    distanceKm,
	}
}

// Entity returns the matched catalog entity.
func (m *Match) Entity() *entity.Entity { return m.ent }

// Score returns the relevance score on the 0..10 scale.
func (m *Match) Score() float64 { return m.score }

// IsExact reports whether the match carries the exact-match flag.
func (m *Match) IsExact() bool { return m.score >= 10 }

// MatchType returns the match classification.
func (m *Match) MatchType() match.Type { return m.matchType }

// MatchedFields returns the field names that produced the score.
func (m *Match) MatchedFields() []string { return m.matchedFields }

// DistanceKm returns the distance from the caller, or nil when unknown.
func (m *Match) DistanceKm() *float64 { return m.distanceKm }

// Page is a ranked, paginated result set.
type Page struct {
	Matches []Match
	Total   int
}

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/geo"
	"github.com/localmart/khoj/internal/domain/search/query"
	"github.com/localmart/khoj/internal/domain/search/result"
)

// cancelCheckEvery is how many entities are scored between context checks.
// Frequent enough to abort a large catalog scan promptly, rare enough to
// stay off the hot path.
const cancelCheckEvery = 2048

// rank fans the query out across the snapshot, scores every eligible entity
// through its field-weight table, deduplicates by (kind, id) and returns the
// ordered, paginated result set. The snapshot is read-only; no partial
// results are produced on cancellation.
func rank(
	ctx context.Context, snap *entity.Snapshot, q *query.Query, acceptThreshold float64,
) (result.Page, error) {
	entities := snap.Entities()
	userLoc := q.Location()

	type dedupKey struct {
		kind entity.Kind
		id   string
	}
	seen := make(map[dedupKey]int)
	matches := make([]result.Match, 0, 64)

	for i := range entities {
		if i%cancelCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return result.Page{}, fmt.Errorf("%w: %w", domain.ErrSearchCancelled, ctx.Err())
			default:
			}
		}

		e := &entities[i]
		if !q.WantsKind(e.Kind()) {
			continue
		}
		if !passesFilters(e, q) {
			continue
		}

		es := scoreEntity(e, q.Text())
		if es.score <= acceptThreshold {
			continue
		}

		var distPtr *float64
		if userLoc != nil {
			if d, ok := geo.DistanceKm(&userLoc.Point, e.Location()); ok {
				distPtr = &d
			}
		}
		if userLoc != nil && userLoc.RadiusKm > 0 && distPtr != nil && *distPtr > userLoc.RadiusKm {
			continue
		}

		m := result.New(e, es.score, es.matchType, es.matchedFields, distPtr)

		key := dedupKey{kind: e.Kind(), id: e.ID()}
		if prev, ok := seen[key]; ok {
			if m.Score() > matches[prev].Score() {
				matches[prev] = m
			}
			continue
		}
		seen[key] = len(matches)
		matches = append(matches, m)
	}

	orderMatches(matches, q)

	total := len(matches)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit()
	if end > total {
		end = total
	}

	return result.Page{Matches: matches[start:end], Total: total}, nil
}

// passesFilters applies the hard filters that run before scoring:
// availability, category and price range. The radius filter runs later
// because it needs the computed distance.
func passesFilters(e *entity.Entity, q *query.Query) bool {
	if !q.IncludeOutOfStock() && !e.Available() {
		return false
	}
	if cat := q.Category(); cat != "" && !strings.EqualFold(e.Category(), cat) {
		return false
	}
	if pr := q.PriceRange(); pr != nil && (e.Kind() == entity.Product || e.Kind() == entity.MenuItem) {
		if e.Price() < pr.Min {
			return false
		}
		if pr.Max > 0 && e.Price() > pr.Max {
			return false
		}
	}
	return true
}

// orderMatches sorts in place per the requested sort. Exact matches always
// lead; after the primary sort key, score descending, then nearest-known
// distance, then kind priority, then reference ID keep the order total and
// deterministic.
func orderMatches(matches []result.Match, q *query.Query) {
	hasLoc := q.Location() != nil

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]

		if a.IsExact() != b.IsExact() {
			return a.IsExact()
		}

		switch q.Sort() {
		case query.ByPrice:
			if pa, pb := a.Entity().Price(), b.Entity().Price(); pa != pb {
				return pa < pb
			}
		case query.ByRating:
			if ra, rb := a.Entity().Rating(), b.Entity().Rating(); ra != rb {
				return ra > rb
			}
		case query.ByNewest:
			if ca, cb := a.Entity().CreatedAt(), b.Entity().CreatedAt(); ca != cb {
				return ca > cb
			}
		case query.ByDistance:
			if less, decided := lessByDistance(a, b); decided {
				return less
			}
		}

		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if hasLoc && q.Sort() != query.ByDistance {
			if less, decided := lessByDistance(a, b); decided {
				return less
			}
		}
		if a.Entity().Kind() != b.Entity().Kind() {
			return a.Entity().Kind().Before(b.Entity().Kind())
		}
		return a.Entity().Ref().String() < b.Entity().Ref().String()
	})
}

// lessByDistance orders known distances ascending and sorts unknown
// distances after every known one. decided is false when the pair cannot
// be distinguished by distance.
func lessByDistance(a, b *result.Match) (less, decided bool) {
	da, db := a.DistanceKm(), b.DistanceKm()
	switch {
	case da != nil && db != nil:
		if *da == *db {
			return false, false
		}
		return *da < *db, true
	case da != nil:
		return true, true
	case db != nil:
		return false, true
	default:
		return false, false
	}
}

package search

import (
	"fmt"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/match"
	"github.com/localmart/khoj/internal/domain/search/result"
)

// resolveReference handles the exact-lookup path for queries shaped like a
// reference ID, bypassing the scorer entirely. handled is false when the
// query does not fit the grammar and the caller should fall through to
// ranking. A grammar-valid ID with no catalog entry is ErrEntityNotFound:
// the caller asked for one precise record, so "nothing found" is an error
// here, not an empty result set.
func resolveReference(snap *entity.Snapshot, rawQuery string) (m result.Match, handled bool, err error) {
	if !entity.LooksLikeReferenceID(rawQuery) {
		return result.Match{}, false, nil
	}
	ref, parseErr := entity.ParseReferenceID(rawQuery)
	if parseErr != nil {
		return result.Match{}, false, nil
	}

	e, ok := snap.ByRef(ref)
	if !ok {
		return result.Match{}, true, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, ref)
	}

	return result.New(e, scoreExact, match.Exact, []string{"referenceId"}, nil), true, nil
}

// lookupReference is the explicit-lookup variant used by the entity
// endpoint: a malformed ID is a validation error rather than a fall-through.
func lookupReference(snap *entity.Snapshot, rawID string) (result.Match, error) {
	ref, err := entity.ParseReferenceID(rawID)
	if err != nil {
		return result.Match{}, err
	}
	e, ok := snap.ByRef(ref)
	if !ok {
		return result.Match{}, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, ref)
	}
	return result.New(e, scoreExact, match.Exact, []string{"referenceId"}, nil), nil
}

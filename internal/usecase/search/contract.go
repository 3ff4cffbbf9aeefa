package search

import (
	"context"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/query"
)

// SnapshotProvider hands out the current immutable catalog snapshot.
// The provider owns refresh cadence and retries; the search service only
// ever reads whatever snapshot it is given.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
}

// Cache stores assembled search responses keyed by the query. A nil cache
// disables caching; cache failures must degrade to a miss, never to an
// error.
type Cache interface {
	Get(ctx context.Context, q *query.Query) (*Response, bool)
	Put(ctx context.Context, q *query.Query, resp *Response)
}

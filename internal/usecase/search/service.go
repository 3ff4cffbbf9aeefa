package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/search/query"
	"github.com/localmart/khoj/internal/domain/search/result"
	"github.com/localmart/khoj/internal/logger"
	"github.com/localmart/khoj/internal/metrics"
)

// Thresholds are the tunable acceptance cut-offs. Accept and Suggest are
// compared against the raw 0..10 scorer scale so that weak-but-real
// signals such as typo matches survive the cut; DidYouMeanSimilarity is a
// 0..1 whole-string similarity.
type Thresholds struct {
	Accept               float64 // ranker acceptance, default 0.3
	Suggest              float64 // autocomplete acceptance, default 0.25
	DidYouMeanSimilarity float64 // whole-string similarity floor, default 0.6
}

// DefaultThresholds returns the validated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Accept: 0.3, Suggest: 0.25, DidYouMeanSimilarity: 0.6}
}

// Service runs catalog search: reference-ID lookups, ranked free-text
// search and suggestion generation over the current snapshot.
type Service struct {
	snapshots  SnapshotProvider
	cache      Cache
	thresholds Thresholds
}

// New creates a search service with default thresholds and no cache.
func New(snapshots SnapshotProvider) *Service {
	return &Service{snapshots: snapshots, thresholds: DefaultThresholds()}
}

// WithCache attaches a response cache.
func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

// WithThresholds overrides the acceptance thresholds. Zero fields keep
// their defaults.
func (s *Service) WithThresholds(t Thresholds) *Service {
	d := DefaultThresholds()
	if t.Accept > 0 {
		d.Accept = t.Accept
	}
	if t.Suggest > 0 {
		d.Suggest = t.Suggest
	}
	if t.DidYouMeanSimilarity > 0 {
		d.DidYouMeanSimilarity = t.DidYouMeanSimilarity
	}
	s.thresholds = d
	return s
}

// Search executes a free-text search. Queries shaped like a reference ID
// short-circuit to an exact lookup. A missing catalog fails soft: an empty
// degraded response, never a hard error. Cancellation mid-ranking is a hard
// error with no partial results.
func (s *Service) Search(ctx context.Context, q *query.Query) (*Response, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	if q.TooShort() {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return emptyResponse(start, false), nil
	}

	if s.cache != nil {
		if resp, ok := s.cache.Get(ctx, q); ok {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return resp, nil
		}
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		log.Warn("catalog snapshot unavailable, degrading search", zap.Error(err))
		metrics.SearchesTotal.WithLabelValues("degraded").Inc()
		return emptyResponse(start, true), nil
	}

	if m, handled, refErr := resolveReference(snap, q.Text()); handled {
		if refErr != nil {
			return nil, refErr
		}
		metrics.SearchDuration.WithLabelValues("reference_id").Observe(time.Since(start).Seconds())
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
		return s.assemble([]result.Match{m}, 1, Suggestions{}, q.Text(), start, false), nil
	}

	var page result.Page
	var sugg Suggestions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var rankErr error
		page, rankErr = rank(gctx, snap, q, s.thresholds.Accept)
		return rankErr
	})
	g.Go(func() error {
		sugg = suggest(snap, q.Text(), s.thresholds.Suggest, s.thresholds.DidYouMeanSimilarity)
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrSearchCancelled) {
			metrics.SearchesTotal.WithLabelValues("cancelled").Inc()
		}
		return nil, err
	}

	metrics.SearchDuration.WithLabelValues("rank").Observe(time.Since(start).Seconds())
	outcome := "ok"
	if page.Total == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	resp := s.assemble(page.Matches, page.Total, sugg, q.Text(), start, false)
	if s.cache != nil {
		s.cache.Put(ctx, q, resp)
	}
	return resp, nil
}

// Lookup resolves an explicit reference-ID request. Unlike Search, a
// malformed ID is a validation error and a missing catalog is a hard
// failure: the caller asked for one precise record.
func (s *Service) Lookup(ctx context.Context, rawID string) (ResultItem, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return ResultItem{}, err
	}
	m, err := lookupReference(snap, rawID)
	if err != nil {
		return ResultItem{}, err
	}
	return itemFromMatch(&m), nil
}

// Detail returns the full public view of one entity by reference ID.
func (s *Service) Detail(ctx context.Context, rawID string) (EntityDetail, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return EntityDetail{}, err
	}
	m, err := lookupReference(snap, rawID)
	if err != nil {
		return EntityDetail{}, err
	}
	return detailFromEntity(m.Entity()), nil
}

// Suggest produces autocomplete and did-you-mean candidates on their own,
// for type-ahead endpoints that do not want a full search.
func (s *Service) Suggest(ctx context.Context, text string) (Suggestions, error) {
	q, err := query.New(text, nil, "", nil, nil, "", 0, 0, false)
	if err != nil {
		return Suggestions{}, err
	}
	if q.TooShort() {
		return Suggestions{}, nil
	}
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return Suggestions{}, err
	}
	return suggest(snap, q.Text(), s.thresholds.Suggest, s.thresholds.DidYouMeanSimilarity), nil
}

func (s *Service) assemble(
	matches []result.Match, total int, sugg Suggestions,
	queryText string, start time.Time, degraded bool,
) *Response {
	items := make([]ResultItem, len(matches))
	for i := range matches {
		items[i] = itemFromMatch(&matches[i])
	}
	return &Response{
		Results:         items,
		TotalResults:    total,
		SearchTimeMs:    time.Since(start).Milliseconds(),
		Suggestions:     sugg.Suggestions,
		DidYouMean:      sugg.DidYouMean,
		RelatedSearches: relatedSearches(matches, queryText),
		Categorized:     categorize(items),
		Degraded:        degraded,
	}
}

func emptyResponse(start time.Time, degraded bool) *Response {
	return &Response{
		Results:      []ResultItem{},
		SearchTimeMs: time.Since(start).Milliseconds(),
		Suggestions:  []string{},
		DidYouMean:   []string{},
		Degraded:     degraded,
	}
}

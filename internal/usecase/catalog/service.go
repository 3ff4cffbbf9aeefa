package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/metrics"
)

// Loader reads the full entity set from the catalog store.
type Loader interface {
	Load(ctx context.Context) ([]entity.Entity, error)
}

// SwapHook observes snapshot replacements. old is nil on the first load.
type SwapHook func(old, new *entity.Snapshot)

// Service owns the current catalog snapshot. Readers grab an immutable
// snapshot and keep using it for the whole request; a refresh swaps the
// pointer atomically so ranking never observes a half-updated catalog.
// Refresh retries live here, on the loader side, never in the engine.
type Service struct {
	loader      Loader
	interval    time.Duration
	loadTimeout time.Duration
	logger      *zap.Logger
	onSwap      SwapHook

	current atomic.Pointer[entity.Snapshot]
}

// New creates a snapshot holder. interval is the refresh cadence,
// loadTimeout bounds a single load attempt.
func New(loader Loader, interval, loadTimeout time.Duration, logger *zap.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if loadTimeout <= 0 {
		loadTimeout = 30 * time.Second
	}
	return &Service{
		loader:      loader,
		interval:    interval,
		loadTimeout: loadTimeout,
		logger:      logger,
	}
}

// WithSwapHook registers a hook invoked after every successful swap.
// Must be called before Run.
func (s *Service) WithSwapHook(hook SwapHook) *Service {
	s.onSwap = hook
	return s
}

// Interval returns the refresh cadence.
func (s *Service) Interval() time.Duration { return s.interval }

// Snapshot returns the current snapshot. ErrCatalogUnavailable before the
// first successful load.
func (s *Service) Snapshot(_ context.Context) (*entity.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return snap, nil
}

// Refresh loads the catalog once and swaps the snapshot in. On failure the
// previous snapshot keeps serving.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	entities, err := s.loader.Load(ctx)
	if err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w", err)
	}

	next := entity.NewSnapshot(entities, time.Now())
	prev := s.current.Swap(next)
	metrics.CatalogRefreshTotal.WithLabelValues("ok").Inc()
	metrics.CatalogEntities.Set(float64(next.Len()))

	s.logger.Info("catalog snapshot swapped",
		zap.Int("entities", next.Len()),
	)

	if s.onSwap != nil {
		s.onSwap(prev, next)
	}
	return nil
}

// Run refreshes on a ticker until ctx is cancelled. A failed refresh is
// logged and retried on the next tick; the engine downstream fails soft in
// the meantime.
func (s *Service) Run(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("initial catalog load failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("catalog refresh failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

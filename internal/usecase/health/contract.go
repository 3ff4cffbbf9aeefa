package health

import (
	"context"
	"time"

	"github.com/localmart/khoj/internal/domain/entity"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogSource exposes the current snapshot and the configured refresh
// cadence so freshness can be judged.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
	Interval() time.Duration
}

package health

import (
	"context"
	"time"
)

// staleFactor marks the catalog stale once the snapshot is older than this
// many refresh intervals.
const staleFactor = 3

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckStale indicates the component works but its data is old.
	CheckStale CheckResult = "stale"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	catalog CatalogSource
	now     func() time.Time
}

// New creates a Service. catalog can be nil.
func New(db DBPinger, catalog CatalogSource) *Service {
	return &Service{db: db, catalog: catalog, now: time.Now}
}

// Check runs health checks against all components. A missing snapshot
// fails the catalog check; a snapshot older than three refresh intervals
// marks it stale.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.catalog != nil {
		checks["catalog"] = s.checkCatalog(ctx)
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) checkCatalog(ctx context.Context) CheckResult {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return CheckError
	}
	if interval := s.catalog.Interval(); interval > 0 {
		if s.now().Sub(snap.LoadedAt()) > staleFactor*interval {
			return CheckStale
		}
	}
	return CheckOK
}

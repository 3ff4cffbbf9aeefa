package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockCatalog struct {
	snap     *entity.Snapshot
	err      error
	interval time.Duration
}

func (m *mockCatalog) Snapshot(_ context.Context) (*entity.Snapshot, error) {
	return m.snap, m.err
}

func (m *mockCatalog) Interval() time.Duration { return m.interval }

func snapshotAged(age time.Duration) *entity.Snapshot {
	return entity.NewSnapshot(nil, time.Now().Add(-age))
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCatalog{snap: snapshotAged(time.Minute), interval: 5 * time.Minute})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("database = %q, want ok", r.Checks["database"])
	}
	if r.Checks["catalog"] != CheckOK {
		t.Errorf("catalog = %q, want ok", r.Checks["catalog"])
	}
}

func TestCheck_DBDown(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")},
		&mockCatalog{snap: snapshotAged(time.Minute), interval: 5 * time.Minute})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("status = %q, want degraded", r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("database = %q, want error", r.Checks["database"])
	}
}

func TestCheck_CatalogMissing(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockCatalog{err: domain.ErrCatalogUnavailable, interval: 5 * time.Minute})
	r := svc.Check(context.Background())

	if r.Checks["catalog"] != CheckError {
		t.Errorf("catalog = %q, want error", r.Checks["catalog"])
	}
	if r.Status != Degraded {
		t.Errorf("status = %q, want degraded", r.Status)
	}
}

func TestCheck_CatalogStale(t *testing.T) {
	// Older than three refresh intervals.
	svc := New(&mockDBPinger{}, &mockCatalog{snap: snapshotAged(20 * time.Minute), interval: 5 * time.Minute})
	r := svc.Check(context.Background())

	if r.Checks["catalog"] != CheckStale {
		t.Errorf("catalog = %q, want stale", r.Checks["catalog"])
	}
	if r.Status != Degraded {
		t.Errorf("status = %q, want degraded", r.Status)
	}
}

func TestCheck_NilCatalog(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want healthy", r.Status)
	}
	if _, ok := r.Checks["catalog"]; ok {
		t.Error("nil catalog should not produce a check entry")
	}
}

package search

import (
	"errors"
	"testing"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/search/match"
)

func TestResolveReference_Found(t *testing.T) {
	snap := marketSnapshot(t)

	for _, raw := range []string{"PRD-MAN-001", "prd-man-001", " PRD-MAN-001 "} {
		m, handled, err := resolveReference(snap, raw)
		if !handled {
			t.Fatalf("resolveReference(%q) not handled", raw)
		}
		if err != nil {
			t.Fatalf("resolveReference(%q): %v", raw, err)
		}
		if m.Score() != 10 {
			t.Errorf("score = %.2f, want 10", m.Score())
		}
		if !m.IsExact() || m.MatchType() != match.Exact {
			t.Error("reference lookup must be an exact match")
		}
		if m.Entity().Name() != "Basmati Rice 1kg" {
			t.Errorf("resolved %q, want the basmati product", m.Entity().Name())
		}
	}
}

func TestResolveReference_ValidButAbsent(t *testing.T) {
	snap := marketSnapshot(t)

	_, handled, err := resolveReference(snap, "PRD-MAN-999")
	if !handled {
		t.Fatal("grammar-valid ID must be handled, not ranked")
	}
	if !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("error = %v, want ErrEntityNotFound", err)
	}
}

func TestResolveReference_FreeTextFallsThrough(t *testing.T) {
	snap := marketSnapshot(t)

	for _, raw := range []string{"basmati rice", "PRD-MAN", "prd man 001"} {
		_, handled, err := resolveReference(snap, raw)
		if handled {
			t.Errorf("resolveReference(%q) handled; want fall-through to ranking", raw)
		}
		if err != nil {
			t.Errorf("resolveReference(%q): unexpected error %v", raw, err)
		}
	}
}

func TestLookupReference_MalformedIsError(t *testing.T) {
	snap := marketSnapshot(t)

	_, err := lookupReference(snap, "not-an-id")
	if !errors.Is(err, domain.ErrInvalidReferenceID) {
		t.Errorf("error = %v, want ErrInvalidReferenceID", err)
	}
}

func TestLookupReference_Found(t *testing.T) {
	snap := marketSnapshot(t)

	m, err := lookupReference(snap, "SHP-KIR-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entity().Name() != "Sharma Kirana Store" {
		t.Errorf("resolved %q, want the kirana shop", m.Entity().Name())
	}
}

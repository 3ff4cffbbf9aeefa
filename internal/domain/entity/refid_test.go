package entity

import (
	"errors"
	"testing"

	"github.com/localmart/khoj/internal/domain"
)

func TestParseReferenceID_Valid(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantStr  string
	}{
		{"PRD-MAN-001", Product, "PRD-MAN-001"},
		{"SHP-KIR-042", Shop, "SHP-KIR-042"},
		{"MNU-DOS-007", MenuItem, "MNU-DOS-007"},
		{"SRV-PLM-100", Service, "SRV-PLM-100"},
		{"OFF-GOV-003", Office, "OFF-GOV-003"},
		{"prd-man-001", Product, "PRD-MAN-001"}, // normalized to upper
		{"  PRD-MAN-001  ", Product, "PRD-MAN-001"},
	}

	for _, tt := range tests {
		ref, err := ParseReferenceID(tt.raw)
		if err != nil {
			t.Errorf("ParseReferenceID(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if ref.Kind() != tt.wantKind {
			t.Errorf("ParseReferenceID(%q): kind = %q, want %q", tt.raw, ref.Kind(), tt.wantKind)
		}
		if ref.String() != tt.wantStr {
			t.Errorf("ParseReferenceID(%q): string = %q, want %q", tt.raw, ref.String(), tt.wantStr)
		}
	}
}

func TestParseReferenceID_Invalid(t *testing.T) {
	tests := []string{
		"",
		"PRD-MAN",       // missing number
		"PRD-MAN-1",     // number too short
		"PRD-MAN-0001",  // number too long
		"XXX-MAN-001",   // unknown prefix
		"PRD-MA1-001",   // digit in letter group
		"PRD MAN 001",   // wrong separator
		"basmati rice",  // free text
		"PRD-MAN-001-X", // trailing garbage
	}

	for _, raw := range tests {
		if _, err := ParseReferenceID(raw); !errors.Is(err, domain.ErrInvalidReferenceID) {
			t.Errorf("ParseReferenceID(%q): error = %v, want ErrInvalidReferenceID", raw, err)
		}
	}
}

func TestLooksLikeReferenceID(t *testing.T) {
	if !LooksLikeReferenceID("PRD-MAN-001") {
		t.Error("expected PRD-MAN-001 to look like a reference ID")
	}
	if LooksLikeReferenceID("basmati rice") {
		t.Error("expected free text not to look like a reference ID")
	}
}

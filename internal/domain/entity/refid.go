package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/localmart/khoj/internal/domain"
)

// refIDPattern is the shareable identifier grammar: PREFIX-DISTRICT-NUMBER.
var refIDPattern = regexp.MustCompile(`^(SHP|PRD|MNU|SRV|OFF)-[A-Z]{3}-\d{3}$`)

// ReferenceID is a validated, normalized catalog reference identifier
// such as "PRD-MAN-001". The prefix determines the entity kind.
type ReferenceID struct {
	value string
	kind  Kind
}

// ParseReferenceID validates raw against the reference-ID grammar.
// Input is trimmed and upper-cased before validation, so "prd-man-001"
// and "PRD-MAN-001" resolve identically.
func ParseReferenceID(raw string) (ReferenceID, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !refIDPattern.MatchString(normalized) {
		return ReferenceID{}, fmt.Errorf("%w: %q", domain.ErrInvalidReferenceID, raw)
	}
	kind, ok := KindFromRefPrefix(normalized[:3])
	if !ok {
		return ReferenceID{}, fmt.Errorf("%w: unknown prefix in %q", domain.ErrInvalidReferenceID, raw)
	}
	return ReferenceID{value: normalized, kind: kind}, nil
}

// LooksLikeReferenceID reports whether raw is shaped like a reference ID.
// Used to decide between direct lookup and fuzzy search without treating
// ordinary queries as malformed IDs.
func LooksLikeReferenceID(raw string) bool {
	_, err := ParseReferenceID(raw)
	return err == nil
}

// String returns the normalized identifier.
func (r ReferenceID) String() string { return r.value }

// Kind returns the entity kind encoded in the prefix.
func (r ReferenceID) Kind() Kind { return r.kind }

// IsZero reports whether the ID is unset.
func (r ReferenceID) IsZero() bool { return r.value == "" }

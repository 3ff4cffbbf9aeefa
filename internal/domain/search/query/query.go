package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/geo"
)

// Search parameter limits.
const (
	MaxQueryLength = 512
	DefaultLimit   = 50
	MaxLimit       = 200
	// MinQueryRunes is the shortest query that triggers ranking; anything
	// shorter yields an empty result set rather than an error.
	MinQueryRunes = 2
)

// Sort is the requested result ordering.
type Sort string

// Sort orders.
const (
	ByRelevance Sort = "relevance"
	ByPrice     Sort = "price"
	ByRating    Sort = "rating"
	ByDistance  Sort = "distance"
	ByNewest    Sort = "newest"
)

// IsValid checks if the sort is one of the supported values.
func (s Sort) IsValid() bool {
	switch s {
	case ByRelevance, ByPrice, ByRating, ByDistance, ByNewest:
		return true
	}
	return false
}

// PriceRange is an inclusive price filter.
type PriceRange struct {
	Min float64
	Max float64
}

// Location is the caller's position with an optional hard radius filter.
type Location struct {
	Point    geo.Point
	RadiusKm float64 // 0 = distance used only for ordering/display
}

// Query is a validated, normalized search request.
type Query struct {
	text              string
	kinds             []entity.Kind
	category          string
	priceRange        *PriceRange
	location          *Location
	sort              Sort
	limit             int
	offset            int
	includeOutOfStock bool
}

// New validates and normalizes search parameters.
// Defaults: all kinds, sort=relevance, limit=50. Text is trimmed but an
// empty or very short text is allowed; it produces an empty result set.
func New(
	text string,
	kinds []entity.Kind,
	category string,
	priceRange *PriceRange,
	location *Location,
	sort Sort,
	limit, offset int,
	includeOutOfStock bool,
) (Query, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	for _, k := range kinds {
		if !k.IsValid() {
			return Query{}, fmt.Errorf("invalid entity kind %q", k)
		}
	}
	if sort == "" {
		sort = ByRelevance
	}
	if !sort.IsValid() {
		return Query{}, fmt.Errorf("invalid sort %q", sort)
	}
	if priceRange != nil && priceRange.Max > 0 && priceRange.Min > priceRange.Max {
		return Query{}, fmt.Errorf("price range min %.2f exceeds max %.2f", priceRange.Min, priceRange.Max)
	}
	if location != nil && !location.Point.Valid() {
		return Query{}, fmt.Errorf("invalid location coordinates")
	}
	if location != nil && location.RadiusKm < 0 {
		return Query{}, fmt.Errorf("radius must be non-negative")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Query{
		text:              text,
		kinds:             kinds,
		category:          category,
		priceRange:        priceRange,
		location:          location,
		sort:              sort,
		limit:             limit,
		offset:            offset,
		includeOutOfStock: includeOutOfStock,
	}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// TooShort reports whether the text is below the minimum ranking length.
func (q *Query) TooShort() bool {
	return utf8.RuneCountInString(q.text) < MinQueryRunes
}

// Kinds returns the requested entity kinds (empty = all).
func (q *Query) Kinds() []entity.Kind { return q.kinds }

// WantsKind reports whether the given kind passes the kind filter.
func (q *Query) WantsKind(k entity.Kind) bool {
	if len(q.kinds) == 0 {
		return true
	}
	for _, want := range q.kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Category returns the category filter (empty = none).
func (q *Query) Category() string { return q.category }

// PriceRange returns the price filter, or nil.
func (q *Query) PriceRange() *PriceRange { return q.priceRange }

// Location returns the caller location, or nil.
func (q *Query) Location() *Location { return q.location }

// Sort returns the requested ordering.
func (q *Query) Sort() Sort { return q.sort }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the page offset.
func (q *Query) Offset() int { return q.offset }

// IncludeOutOfStock reports whether unavailable items stay in the results.
func (q *Query) IncludeOutOfStock() bool { return q.includeOutOfStock }

package chi

import (
	"fmt"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/geo"
	"github.com/localmart/khoj/internal/domain/search/query"
	orderuc "github.com/localmart/khoj/internal/usecase/order"
)

// ErrorCode is the machine-readable error discriminator in error bodies.
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeInvalidReferenceID ErrorCode = "invalid_reference_id"
	CodeEntityNotFound     ErrorCode = "entity_not_found"
	CodeItemUnavailable    ErrorCode = "item_unavailable"
	CodeInvalidOrder       ErrorCode = "invalid_order"
	CodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	CodeSearchCancelled    ErrorCode = "search_cancelled"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the POST /api/v1/search body.
type SearchRequest struct {
	Query             string         `json:"query"`
	Kinds             []string       `json:"kinds,omitempty"`
	Category          string         `json:"category,omitempty"`
	PriceRange        *PriceRangeDTO `json:"priceRange,omitempty"`
	Location          *LocationDTO   `json:"location,omitempty"`
	Sort              string         `json:"sort,omitempty"`
	Limit             int            `json:"limit,omitempty"`
	Offset            int            `json:"offset,omitempty"`
	IncludeOutOfStock bool           `json:"includeOutOfStock,omitempty"`
}

// PriceRangeDTO is an inclusive price filter; zero Max means unbounded.
type PriceRangeDTO struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// LocationDTO is the caller's position; zero RadiusKm disables the hard
// radius filter and keeps distance for ordering only.
type LocationDTO struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radiusKm,omitempty"`
}

// DraftOrderRequest is the POST /api/v1/orders/draft body.
type DraftOrderRequest struct {
	Lines []DraftOrderLine `json:"lines"`
}

type DraftOrderLine struct {
	ReferenceID string `json:"referenceId"`
	Quantity    int    `json:"quantity"`
}

// queryFromRequest validates the wire request into a domain query.
func queryFromRequest(req SearchRequest) (query.Query, error) {
	kinds := make([]entity.Kind, 0, len(req.Kinds))
	for _, k := range req.Kinds {
		kind := entity.Kind(k)
		if !kind.IsValid() {
			return query.Query{}, fmt.Errorf("unknown entity kind %q", k)
		}
		kinds = append(kinds, kind)
	}

	var pr *query.PriceRange
	if req.PriceRange != nil {
		pr = &query.PriceRange{Min: req.PriceRange.Min, Max: req.PriceRange.Max}
	}

	var loc *query.Location
	if req.Location != nil {
		loc = &query.Location{
			Point:    geo.Point{Lat: req.Location.Lat, Lng: req.Location.Lng},
			RadiusKm: req.Location.RadiusKm,
		}
	}

	return query.New(
		req.Query, kinds, req.Category, pr, loc,
		query.Sort(req.Sort), req.Limit, req.Offset, req.IncludeOutOfStock,
	)
}

func orderLinesFromRequest(req DraftOrderRequest) []orderuc.Line {
	lines := make([]orderuc.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = orderuc.Line{ReferenceID: l.ReferenceID, Quantity: l.Quantity}
	}
	return lines
}

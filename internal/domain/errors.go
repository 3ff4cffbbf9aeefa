package domain

import "errors"

var (
	// ErrEntityNotFound signals a grammar-valid reference ID with no catalog entry.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrInvalidReferenceID signals a malformed reference ID on an explicit lookup.
	ErrInvalidReferenceID = errors.New("invalid reference id")
	// ErrCatalogUnavailable signals that no catalog snapshot could be delivered.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrSearchCancelled signals a caller deadline or cancellation fired mid-ranking.
	ErrSearchCancelled = errors.New("search cancelled")
	// ErrInvalidOrder signals a draft order that cannot be assembled.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrItemUnavailable signals an out-of-stock line in a draft order.
	ErrItemUnavailable = errors.New("item unavailable")
)

package entity

import (
	"fmt"
	"regexp"

	"github.com/localmart/khoj/internal/domain/geo"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Attrs carries the optional fields of an entity. Which of them are
// meaningful depends on the kind: products and menu items carry price and
// stock, shops and offices carry address/location/opening hours, services
// carry a price range and highlights.
type Attrs struct {
	LocalizedName string
	Category      string
	Brand         string
	Tags          []string
	Description   string

	Price                float64
	PriceRange           string
	Stock                int
	AvailabilityOverride *bool
	Rating               float64
	CreatedAt            int64 // unix millis

	Address     string
	Location    *geo.Point
	OpeningTime string
	ClosingTime string

	Highlights []string

	ParentShopID string
}

// Entity is one searchable catalog record (immutable value object).
// The ranking engine only ever reads entities; their lifecycle belongs
// to the catalog store.
type Entity struct {
	kind  Kind
	id    string
	ref   ReferenceID
	name  string
	attrs Attrs
}

// New validates and creates an Entity.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. The reference ID prefix must agree
// with the kind.
func New(kind Kind, id string, ref ReferenceID, name string, attrs Attrs) (Entity, error) {
	if !kind.IsValid() {
		return Entity{}, fmt.Errorf("invalid entity kind %q", kind)
	}
	if id == "" {
		return Entity{}, fmt.Errorf("entity ID is required")
	}
	if len(id) > 256 {
		return Entity{}, fmt.Errorf("entity ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Entity{}, fmt.Errorf("entity ID must be alphanumeric with underscores and hyphens")
	}
	if ref.IsZero() {
		return Entity{}, fmt.Errorf("reference ID is required")
	}
	if ref.Kind() != kind {
		return Entity{}, fmt.Errorf("reference ID %s does not match kind %q", ref, kind)
	}
	if name == "" {
		return Entity{}, fmt.Errorf("entity name is required")
	}
	attrs.Tags = cloneStrings(attrs.Tags)
	attrs.Highlights = cloneStrings(attrs.Highlights)
	return Entity{kind: kind, id: id, ref: ref, name: name, attrs: attrs}, nil
}

// Reconstruct creates an Entity without validation (storage hydration).
func Reconstruct(kind Kind, id string, ref ReferenceID, name string, attrs Attrs) Entity {
	return Entity{kind: kind, id: id, ref: ref, name: name, attrs: attrs}
}

// Kind returns the entity kind.
func (e *Entity) Kind() Kind { return e.kind }

// ID returns the identifier, unique within the kind.
func (e *Entity) ID() string { return e.id }

// Ref returns the globally unique reference ID.
func (e *Entity) Ref() ReferenceID { return e.ref }

// Name returns the primary display name.
func (e *Entity) Name() string { return e.name }

// LocalizedName returns the secondary-script name, if any.
func (e *Entity) LocalizedName() string { return e.attrs.LocalizedName }

// Category returns the category label.
func (e *Entity) Category() string { return e.attrs.Category }

// Brand returns the brand label, if any.
func (e *Entity) Brand() string { return e.attrs.Brand }

// Tags returns the tag set.
func (e *Entity) Tags() []string { return e.attrs.Tags }

// Description returns the free-text description, if any.
func (e *Entity) Description() string { return e.attrs.Description }

// Price returns the unit price (products, menu items).
func (e *Entity) Price() float64 { return e.attrs.Price }

// PriceRange returns the display price range (services).
func (e *Entity) PriceRange() string { return e.attrs.PriceRange }

// Stock returns the stock counter (products, menu items).
func (e *Entity) Stock() int { return e.attrs.Stock }

// Rating returns the aggregate rating.
func (e *Entity) Rating() float64 { return e.attrs.Rating }

// CreatedAt returns the creation time in unix millis.
func (e *Entity) CreatedAt() int64 { return e.attrs.CreatedAt }

// Address returns the street address (shops, offices).
func (e *Entity) Address() string { return e.attrs.Address }

// Location returns the coordinates, or nil when unknown.
func (e *Entity) Location() *geo.Point { return e.attrs.Location }

// OpeningTime returns the opening time string (shops, offices).
func (e *Entity) OpeningTime() string { return e.attrs.OpeningTime }

// ClosingTime returns the closing time string (shops, offices).
func (e *Entity) ClosingTime() string { return e.attrs.ClosingTime }

// Highlights returns the service highlight lines.
func (e *Entity) Highlights() []string { return e.attrs.Highlights }

// ParentShopID returns the owning shop's ID for products, menu items
// and services; empty for shops and offices.
func (e *Entity) ParentShopID() string { return e.attrs.ParentShopID }

// Available reports whether the entity can be offered right now.
// Products and menu items are available when an availability override says
// so, or otherwise when stock is positive. Other kinds are always available.
func (e *Entity) Available() bool {
	if e.kind != Product && e.kind != MenuItem {
		return true
	}
	if e.attrs.AvailabilityOverride != nil {
		return *e.attrs.AvailabilityOverride
	}
	return e.attrs.Stock > 0
}

// HasAvailabilityOverride reports whether availability is pinned
// independently of stock.
func (e *Entity) HasAvailabilityOverride() bool { return e.attrs.AvailabilityOverride != nil }

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/geo"
)

// listSep joins multi-valued fields inside a flat hash. Unit separator:
// never appears in catalog text.
const listSep = "\x1f"

// buildHashFields converts an Entity into a flat map[string]string for HSET.
// Empty optional fields are omitted so hashes stay small.
func buildHashFields(e *entity.Entity) map[string]string {
	m := map[string]string{
		"ref":  e.Ref().String(),
		"name": e.Name(),
	}
	setIf := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	setIf("localized_name", e.LocalizedName())
	setIf("category", e.Category())
	setIf("brand", e.Brand())
	setIf("tags", strings.Join(e.Tags(), listSep))
	setIf("description", e.Description())
	setIf("price_range", e.PriceRange())
	setIf("address", e.Address())
	setIf("opening_time", e.OpeningTime())
	setIf("closing_time", e.ClosingTime())
	setIf("highlights", strings.Join(e.Highlights(), listSep))
	setIf("parent_shop_id", e.ParentShopID())

	if e.Price() != 0 {
		m["price"] = strconv.FormatFloat(e.Price(), 'f', -1, 64)
	}
	if e.Stock() != 0 {
		m["stock"] = strconv.Itoa(e.Stock())
	}
	if e.HasAvailabilityOverride() {
		m["available"] = strconv.FormatBool(e.Available())
	}
	if e.Rating() != 0 {
		m["rating"] = strconv.FormatFloat(e.Rating(), 'f', -1, 64)
	}
	if e.CreatedAt() != 0 {
		m["created_at"] = strconv.FormatInt(e.CreatedAt(), 10)
	}
	if loc := e.Location(); loc != nil {
		m["location"] = fmt.Sprintf("%s,%s",
			strconv.FormatFloat(loc.Lat, 'f', -1, 64),
			strconv.FormatFloat(loc.Lng, 'f', -1, 64),
		)
	}
	return m
}

// parseHashFields converts a flat hash back into an Entity. kind and id come
// from the storage key; the reference ID inside the hash must agree with
// the kind or the record is rejected.
func parseHashFields(kind entity.Kind, id string, m map[string]string) (entity.Entity, error) {
	ref, err := entity.ParseReferenceID(m["ref"])
	if err != nil {
		return entity.Entity{}, fmt.Errorf("entity %s/%s: %w", kind, id, err)
	}
	if ref.Kind() != kind {
		return entity.Entity{}, fmt.Errorf("entity %s/%s: reference %s has wrong prefix", kind, id, ref)
	}
	name := m["name"]
	if name == "" {
		return entity.Entity{}, fmt.Errorf("entity %s/%s: name missing", kind, id)
	}

	attrs := entity.Attrs{
		LocalizedName: m["localized_name"],
		Category:      m["category"],
		Brand:         m["brand"],
		Description:   m["description"],
		PriceRange:    m["price_range"],
		Address:       m["address"],
		OpeningTime:   m["opening_time"],
		ClosingTime:   m["closing_time"],
		ParentShopID:  m["parent_shop_id"],
	}
	if v := m["tags"]; v != "" {
		attrs.Tags = strings.Split(v, listSep)
	}
	if v := m["highlights"]; v != "" {
		attrs.Highlights = strings.Split(v, listSep)
	}
	if v := m["price"]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			attrs.Price = f
		}
	}
	if v := m["stock"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			attrs.Stock = n
		}
	}
	if v := m["available"]; v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			attrs.AvailabilityOverride = &b
		}
	}
	if v := m["rating"]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			attrs.Rating = f
		}
	}
	if v := m["created_at"]; v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			attrs.CreatedAt = n
		}
	}
	if v := m["location"]; v != "" {
		if p, ok := parseLocation(v); ok {
			attrs.Location = p
		}
	}

	return entity.Reconstruct(kind, id, ref, name, attrs), nil
}

func parseLocation(v string) (*geo.Point, bool) {
	latStr, lngStr, ok := strings.Cut(v, ",")
	if !ok {
		return nil, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil, false
	}
	return &p, true
}

package search

import (
	"sort"
	"strings"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/geo"
	"github.com/localmart/khoj/internal/domain/search/match"
	"github.com/localmart/khoj/internal/domain/search/result"
)

const maxRelatedSearches = 6

// EntityRef identifies a matched entity to the caller.
type EntityRef struct {
	Kind        entity.Kind `json:"kind"`
	ID          string      `json:"id"`
	ReferenceID string      `json:"referenceId"`
	Name        string      `json:"name"`
}

// ResultItem is one ranked hit in a response.
type ResultItem struct {
	EntityRef     EntityRef  `json:"entityRef"`
	Score         float64    `json:"score"`
	MatchType     match.Type `json:"matchType"`
	MatchedFields []string   `json:"matchedFields"`
	DistanceKm    *float64   `json:"distanceKm,omitempty"`
}

// Categorized buckets the results per entity kind for storefront tabs.
type Categorized struct {
	Products  []ResultItem `json:"products"`
	Shops     []ResultItem `json:"shops"`
	MenuItems []ResultItem `json:"menuItems"`
	Services  []ResultItem `json:"services"`
	Offices   []ResultItem `json:"offices"`
}

// Response is the full transport-agnostic search outcome.
type Response struct {
	Results         []ResultItem `json:"results"`
	TotalResults    int          `json:"totalResults"`
	SearchTimeMs    int64        `json:"searchTimeMs"`
	Suggestions     []string     `json:"suggestions"`
	DidYouMean      []string     `json:"didYouMean"`
	RelatedSearches []string     `json:"relatedSearches"`
	Categorized     Categorized  `json:"categorized"`
	Degraded        bool         `json:"degraded,omitempty"`
}

// EntityDetail is the full public view of one catalog entity, returned by
// reference-ID lookups.
type EntityDetail struct {
	EntityRef     EntityRef  `json:"entityRef"`
	LocalizedName string     `json:"localizedName,omitempty"`
	Category      string     `json:"category,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price,omitempty"`
	PriceRange    string     `json:"priceRange,omitempty"`
	Rating        float64    `json:"rating,omitempty"`
	Available     bool       `json:"available"`
	Address       string     `json:"address,omitempty"`
	Location      *geo.Point `json:"location,omitempty"`
	OpeningTime   string     `json:"openingTime,omitempty"`
	ClosingTime   string     `json:"closingTime,omitempty"`
	Highlights    []string   `json:"highlights,omitempty"`
	ParentShopID  string     `json:"parentShopId,omitempty"`
}

func detailFromEntity(e *entity.Entity) EntityDetail {
	return EntityDetail{
		EntityRef: EntityRef{
			Kind:        e.Kind(),
			ID:          e.ID(),
			ReferenceID: e.Ref().String(),
			Name:        e.Name(),
		},
		LocalizedName: e.LocalizedName(),
		Category:      e.Category(),
		Brand:         e.Brand(),
		Tags:          e.Tags(),
		Description:   e.Description(),
		Price:         e.Price(),
		PriceRange:    e.PriceRange(),
		Rating:        e.Rating(),
		Available:     e.Available(),
		Address:       e.Address(),
		Location:      e.Location(),
		OpeningTime:   e.OpeningTime(),
		ClosingTime:   e.ClosingTime(),
		Highlights:    e.Highlights(),
		ParentShopID:  e.ParentShopID(),
	}
}

func itemFromMatch(m *result.Match) ResultItem {
	e := m.Entity()
	return ResultItem{
		EntityRef: EntityRef{
			Kind:        e.Kind(),
			ID:          e.ID(),
			ReferenceID: e.Ref().String(),
			Name:        e.Name(),
		},
		Score:         m.Score(),
		MatchType:     m.MatchType(),
		MatchedFields: m.MatchedFields(),
		DistanceKm:    m.DistanceKm(),
	}
}

func categorize(items []ResultItem) Categorized {
	var c Categorized
	for _, item := range items {
		switch item.EntityRef.Kind {
		case entity.Product:
			c.Products = append(c.Products, item)
		case entity.Shop:
			c.Shops = append(c.Shops, item)
		case entity.MenuItem:
			c.MenuItems = append(c.MenuItems, item)
		case entity.Service:
			c.Services = append(c.Services, item)
		case entity.Office:
			c.Offices = append(c.Offices, item)
		}
	}
	return c
}

// relatedSearches harvests categories and brands from the ranked matches,
// skipping anything equal to the query itself.
func relatedSearches(matches []result.Match, queryText string) []string {
	normQuery := normalizeText(queryText)
	seen := make(map[string]string)
	for i := range matches {
		e := matches[i].Entity()
		for _, s := range []string{e.Category(), e.Brand()} {
			key := normalizeText(s)
			if key == "" || key == normQuery {
				continue
			}
			if _, ok := seen[key]; !ok {
				seen[key] = strings.TrimSpace(s)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > maxRelatedSearches {
		out = out[:maxRelatedSearches]
	}
	return out
}

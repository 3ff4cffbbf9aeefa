package search

import (
	"testing"
	"time"

	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/query"
)

// testEntity builds one catalog record for tests, failing fast on
// malformed fixture data.
func testEntity(t *testing.T, kind entity.Kind, id, rawRef, name string, attrs entity.Attrs) entity.Entity {
	t.Helper()
	ref, err := entity.ParseReferenceID(rawRef)
	if err != nil {
		t.Fatalf("bad fixture ref %q: %v", rawRef, err)
	}
	e, err := entity.New(kind, id, ref, name, attrs)
	if err != nil {
		t.Fatalf("bad fixture entity %q: %v", id, err)
	}
	return e
}

func testSnapshot(t *testing.T, entities ...entity.Entity) *entity.Snapshot {
	t.Helper()
	return entity.NewSnapshot(entities, time.Now())
}

// marketSnapshot is a small mixed catalog used across ranking tests.
func marketSnapshot(t *testing.T) *entity.Snapshot {
	t.Helper()
	return testSnapshot(t,
		testEntity(t, entity.Product, "basmati-1kg", "PRD-MAN-001", "Basmati Rice 1kg", entity.Attrs{
			LocalizedName: "बासमती चावल",
			Category:      "Groceries",
			Brand:         "India Gate",
			Tags:          []string{"rice", "grain"},
			Price:         180,
			Stock:         12,
			Rating:        4.4,
			CreatedAt:     1700000000000,
		}),
		testEntity(t, entity.Product, "brown-rice", "PRD-MAN-002", "Brown Rice 1kg", entity.Attrs{
			Category:  "Groceries",
			Brand:     "Daawat",
			Tags:      []string{"rice", "healthy"},
			Price:     220,
			Stock:     4,
			Rating:    4.1,
			CreatedAt: 1710000000000,
		}),
		testEntity(t, entity.Product, "poha-500g", "PRD-MAN-003", "Poha 500g", entity.Attrs{
			Category: "Groceries",
			Price:    45,
			Stock:    0, // out of stock
		}),
		testEntity(t, entity.MenuItem, "veg-biryani", "MNU-DOS-001", "Veg Biryani", entity.Attrs{
			Category:     "Main Course",
			Tags:         []string{"rice", "spicy"},
			Price:        150,
			Stock:        20,
			Rating:       4.6,
			ParentShopID: "annapurna",
		}),
		testEntity(t, entity.Shop, "sharma-kirana", "SHP-KIR-001", "Sharma Kirana Store", entity.Attrs{
			Category: "Groceries",
			Address:  "12 Gandhi Road",
			Tags:     []string{"kirana", "daily needs"},
			Rating:   4.2,
		}),
		testEntity(t, entity.Service, "quick-plumber", "SRV-PLM-001", "Quick Plumbing", entity.Attrs{
			Category:   "Home Services",
			Highlights: []string{"24x7 emergency"},
			PriceRange: "₹₹",
			Rating:     3.9,
		}),
		testEntity(t, entity.Office, "passport-office", "OFF-GOV-001", "Passport Seva Kendra", entity.Attrs{
			Category: "Government",
			Address:  "Sector 15",
		}),
	)
}

func mustQuery(t *testing.T, text string, opts ...func(*queryOpts)) *query.Query {
	t.Helper()
	o := queryOpts{}
	for _, opt := range opts {
		opt(&o)
	}
	q, err := query.New(text, o.kinds, o.category, o.priceRange, o.location, o.sort, o.limit, o.offset, o.includeOOS)
	if err != nil {
		t.Fatalf("query.New(%q): %v", text, err)
	}
	return &q
}

type queryOpts struct {
	kinds      []entity.Kind
	category   string
	priceRange *query.PriceRange
	location   *query.Location
	sort       query.Sort
	limit      int
	offset     int
	includeOOS bool
}

func withKinds(kinds ...entity.Kind) func(*queryOpts) {
	return func(o *queryOpts) { o.kinds = kinds }
}

func withSort(s query.Sort) func(*queryOpts) {
	return func(o *queryOpts) { o.sort = s }
}

func withLocation(loc *query.Location) func(*queryOpts) {
	return func(o *queryOpts) { o.location = loc }
}

func withPriceRange(pr *query.PriceRange) func(*queryOpts) {
	return func(o *queryOpts) { o.priceRange = pr }
}

func withPage(limit, offset int) func(*queryOpts) {
	return func(o *queryOpts) { o.limit = limit; o.offset = offset }
}

func withOutOfStock() func(*queryOpts) {
	return func(o *queryOpts) { o.includeOOS = true }
}

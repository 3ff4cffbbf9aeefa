package search

import (
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/domain/search/match"
)

// weightedField binds one scorable entity field to its ranking weight and
// the match classification reported when that field wins.
type weightedField struct {
	name      string
	weight    float64
	matchType match.Type
	values    func(e *entity.Entity) []string
}

// maxFieldWeight is the top weight in every table. Entity scores are
// normalized against it so that an exact match on a top-weight field is
// exactly 10, which is what flags the result as exact.
const maxFieldWeight = 3.0

func nameFields() []weightedField {
	return []weightedField{
		{"name", 3, match.Partial, func(e *entity.Entity) []string { return []string{e.Name()} }},
		{"localizedName", 3, match.Partial, func(e *entity.Entity) []string { return []string{e.LocalizedName()} }},
	}
}

// itemFields covers products and menu items: brand matters, address does not.
func itemFields() []weightedField {
	return append(nameFields(), []weightedField{
		{"category", 2, match.Category, func(e *entity.Entity) []string { return []string{e.Category()} }},
		{"brand", 2, match.Brand, func(e *entity.Entity) []string { return []string{e.Brand()} }},
		{"tags", 1, match.Tag, func(e *entity.Entity) []string { return e.Tags() }},
		{"description", 1, match.Related, func(e *entity.Entity) []string { return []string{e.Description()} }},
	}...)
}

// placeFields covers shops and offices.
func placeFields() []weightedField {
	return append(nameFields(), []weightedField{
		{"category", 2, match.Category, func(e *entity.Entity) []string { return []string{e.Category()} }},
		{"address", 1, match.Related, func(e *entity.Entity) []string { return []string{e.Address()} }},
		{"tags", 1, match.Tag, func(e *entity.Entity) []string { return e.Tags() }},
		{"description", 1, match.Related, func(e *entity.Entity) []string { return []string{e.Description()} }},
	}...)
}

func serviceFields() []weightedField {
	return append(nameFields(), []weightedField{
		{"category", 2, match.Category, func(e *entity.Entity) []string { return []string{e.Category()} }},
		{"highlights", 1, match.Related, func(e *entity.Entity) []string { return e.Highlights() }},
		{"tags", 1, match.Tag, func(e *entity.Entity) []string { return e.Tags() }},
		{"description", 1, match.Related, func(e *entity.Entity) []string { return []string{e.Description()} }},
	}...)
}

// fieldTables maps each entity kind to its weighted field set. Adding a new
// kind means adding a table here; the scorer and ranker stay untouched.
var fieldTables = map[entity.Kind][]weightedField{
	entity.Product:  itemFields(),
	entity.MenuItem: itemFields(),
	entity.Shop:     placeFields(),
	entity.Office:   placeFields(),
	entity.Service:  serviceFields(),
}

// entityScore is the outcome of scoring one entity against a query.
type entityScore struct {
	score         float64
	matchType     match.Type
	matchedFields []string
}

// scoreEntity applies the match scorer across the entity's weighted fields
// and keeps the best single signal rather than a sum, so a long tag list
// cannot drown out one clean name match. Scores are normalized back to the
// 0..10 scale; an exact hit on a top-weight field stays exactly 10.
func scoreEntity(e *entity.Entity, queryText string) entityScore {
	fields, ok := fieldTables[e.Kind()]
	if !ok {
		return entityScore{}
	}

	best := entityScore{}
	for _, f := range fields {
		for _, value := range f.values(e) {
			raw := scoreText(value, queryText)
			if raw == 0 {
				continue
			}
			weighted := raw * f.weight / maxFieldWeight
			if weighted > best.score {
				mt := f.matchType
				if raw >= scoreExact && f.weight == maxFieldWeight {
					mt = match.Exact
				}
				best = entityScore{
					score:         weighted,
					matchType:     mt,
					matchedFields: []string{f.name},
				}
			} else if weighted == best.score && best.score > 0 && !containsField(best.matchedFields, f.name) {
				best.matchedFields = append(best.matchedFields, f.name)
			}
		}
	}
	return best
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

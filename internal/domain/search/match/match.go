package match

// Type classifies how a result matched the query.
type Type string

// Match type constants.
const (
	// Exact means the normalized candidate equalled the normalized query,
	// or the query was a direct reference-ID lookup.
	Exact    Type = "exact"
	Partial  Type = "partial"
	Tag      Type = "tag"
	Category Type = "category"
	Brand    Type = "brand"
	// Related covers weak signals such as description matches.
	Related Type = "related"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case Exact, Partial, Tag, Category, Brand, Related:
		return true
	}
	return false
}

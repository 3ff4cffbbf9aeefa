package entity

// Kind is the catalog entity type.
type Kind string

// Catalog entity kinds.
const (
	Product  Kind = "product"
	Shop     Kind = "shop"
	MenuItem Kind = "menu_item"
	Service  Kind = "service"
	Office   Kind = "office"
)

// Kinds lists all entity kinds in ranking tie-break priority order:
// sellable items first, then the places that sell them.
var Kinds = []Kind{Product, MenuItem, Shop, Service, Office}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Product || k == Shop || k == MenuItem || k == Service || k == Office
}

// Orderable reports whether entities of this kind can appear on an order line.
func (k Kind) Orderable() bool {
	return k == Product || k == MenuItem || k == Service
}

// RefPrefix returns the reference-ID prefix for the kind.
func (k Kind) RefPrefix() string {
	switch k {
	case Shop:
		return "SHP"
	case Product:
		return "PRD"
	case MenuItem:
		return "MNU"
	case Service:
		return "SRV"
	case Office:
		return "OFF"
	}
	return ""
}

// KindFromRefPrefix maps a reference-ID prefix to its entity kind.
func KindFromRefPrefix(prefix string) (Kind, bool) {
	switch prefix {
	case "SHP":
		return Shop, true
	case "PRD":
		return Product, true
	case "MNU":
		return MenuItem, true
	case "SRV":
		return Service, true
	case "OFF":
		return Office, true
	}
	return "", false
}

// priority is the tie-break rank of a kind; lower sorts first.
func (k Kind) priority() int {
	for i, kind := range Kinds {
		if kind == k {
			return i
		}
	}
	return len(Kinds)
}

// Before reports whether k outranks other in the final tie-break.
func (k Kind) Before(other Kind) bool {
	return k.priority() < other.priority()
}

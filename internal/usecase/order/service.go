// Package order assembles draft orders from reference IDs. A draft is an
// unpersisted quote: lines are resolved against the current catalog
// snapshot, grouped by shop, and priced. Nothing is reserved.
package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
)

const maxLines = 50

// SnapshotProvider hands out the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
}

// Line is one requested item: a reference ID plus a quantity.
type Line struct {
	ReferenceID string
	Quantity    int
}

// DraftLine is a resolved, priced line.
type DraftLine struct {
	ReferenceID string  `json:"referenceId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// ShopGroup collects the lines belonging to one shop.
type ShopGroup struct {
	ShopID   string      `json:"shopId,omitempty"`
	Lines    []DraftLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

// Draft is an assembled, unpersisted order.
type Draft struct {
	ID        string      `json:"draftId"`
	Groups    []ShopGroup `json:"groups"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Service struct {
	snapshots SnapshotProvider
}

func New(snapshots SnapshotProvider) *Service {
	return &Service{snapshots: snapshots}
}

// Assemble resolves the requested lines into a draft. Every line must name
// an orderable, currently available entity; the whole draft fails on the
// first bad line so the caller gets a precise error.
func (s *Service) Assemble(ctx context.Context, lines []Line) (*Draft, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", domain.ErrInvalidOrder)
	}
	if len(lines) > maxLines {
		return nil, fmt.Errorf("%w: too many lines (max %d)", domain.ErrInvalidOrder, maxLines)
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byShop := make(map[string]*ShopGroup)
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", domain.ErrInvalidOrder, i+1, line.Quantity)
		}
		ref, err := entity.ParseReferenceID(line.ReferenceID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ref.Kind().Orderable() {
			return nil, fmt.Errorf("%w: %s is not orderable", domain.ErrInvalidOrder, ref)
		}
		ent, ok := snap.ByRef(ref)
		if !ok {
			return nil, fmt.Errorf("%s: %w", ref, domain.ErrEntityNotFound)
		}
		if !ent.Available() {
			return nil, fmt.Errorf("%s: %w", ref, domain.ErrItemUnavailable)
		}

		dl := DraftLine{
			ReferenceID: ref.String(),
			Name:        ent.Name(),
			Quantity:    line.Quantity,
			UnitPrice:   ent.Price(),
			LineTotal:   ent.Price() * float64(line.Quantity),
		}
		shopID := ent.ParentShopID()
		group, ok := byShop[shopID]
		if !ok {
			group = &ShopGroup{ShopID: shopID}
			byShop[shopID] = group
		}
		group.Lines = append(group.Lines, dl)
		group.Subtotal += dl.LineTotal
	}

	groups := make([]ShopGroup, 0, len(byShop))
	var total float64
	for _, g := range byShop {
		groups = append(groups, *g)
		total += g.Subtotal
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ShopID < groups[j].ShopID })

	return &Draft{
		ID:        uuid.NewString(),
		Groups:    groups,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}, nil
}

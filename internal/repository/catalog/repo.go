// Package catalog persists catalog entities as flat hashes and loads them
// in bulk for snapshot construction. One hash per entity, keyed
// "<prefix>entity:<kind>:<id>".
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/db"
	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
	"github.com/localmart/khoj/internal/logger"
)

const loadBatchSize = 200

type Repository struct {
	store     db.HashStore
	keyPrefix string
}

func New(store db.HashStore, keyPrefix string) *Repository {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repository{store: store, keyPrefix: keyPrefix}
}

func (r *Repository) entityKey(kind entity.Kind, id string) string {
	return fmt.Sprintf("%sentity:%s:%s", r.keyPrefix, kind, id)
}

// Load fetches every stored entity. Malformed records are skipped with a
// warning so one bad hash cannot block a catalog refresh.
func (r *Repository) Load(ctx context.Context) ([]entity.Entity, error) {
	log := logger.FromContext(ctx)

	keys, err := r.store.Scan(ctx, r.keyPrefix+"entity:*")
	if err != nil {
		return nil, fmt.Errorf("scan catalog keys: %w", err)
	}

	entities := make([]entity.Entity, 0, len(keys))
	for start := 0; start < len(keys); start += loadBatchSize {
		end := min(start+loadBatchSize, len(keys))
		batch := keys[start:end]

		hashes, err := r.store.HGetAllMulti(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("load catalog batch: %w", err)
		}
		for i, fields := range hashes {
			if len(fields) == 0 {
				continue
			}
			kind, id, ok := r.splitEntityKey(batch[i])
			if !ok {
				log.Warn("skipping catalog key with unexpected shape", zap.String("key", batch[i]))
				continue
			}
			e, err := parseHashFields(kind, id, fields)
			if err != nil {
				log.Warn("skipping malformed catalog record", zap.String("key", batch[i]), zap.Error(err))
				continue
			}
			entities = append(entities, e)
		}
	}
	return entities, nil
}

// Put upserts a batch of entities. Used by seed tooling and tests.
func (r *Repository) Put(ctx context.Context, entities []entity.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(entities))
	for i := range entities {
		e := &entities[i]
		items = append(items, db.HashSetItem{
			Key:    r.entityKey(e.Kind(), e.ID()),
			Fields: buildHashFields(e),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store catalog entities: %w", err)
	}
	return nil
}

// Delete removes a single entity record.
func (r *Repository) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if err := r.store.Del(ctx, r.entityKey(kind, id)); err != nil {
		return fmt.Errorf("delete catalog entity: %w", err)
	}
	return nil
}

func (r *Repository) splitEntityKey(key string) (entity.Kind, string, bool) {
	rest, found := strings.CutPrefix(key, r.keyPrefix+"entity:")
	if !found {
		return "", "", false
	}
	kindStr, id, ok := strings.Cut(rest, ":")
	if !ok || id == "" {
		return "", "", false
	}
	kind := entity.Kind(kindStr)
	if !kind.IsValid() {
		return "", "", false
	}
	return kind, id, true
}

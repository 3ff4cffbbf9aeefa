package entity

import "time"

// Snapshot is an immutable point-in-time view of the catalog. A snapshot is
// built once by the loader and then shared read-only across concurrent
// ranking operations; a refresh swaps in a whole new snapshot rather than
// mutating this one.
type Snapshot struct {
	entities []Entity
	byRef    map[string]int
	byKindID map[kindID]int
	loadedAt time.Time
}

type kindID struct {
	kind Kind
	id   string
}

// NewSnapshot indexes the given entities. When the same reference ID or
// (kind, id) pair appears twice the first occurrence wins; duplicates are
// a catalog anomaly, not a reason to fail the whole load.
func NewSnapshot(entities []Entity, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		entities: entities,
		byRef:    make(map[string]int, len(entities)),
		byKindID: make(map[kindID]int, len(entities)),
		loadedAt: loadedAt,
	}
	for i := range entities {
		ref := entities[i].Ref().String()
		if _, ok := s.byRef[ref]; !ok {
			s.byRef[ref] = i
		}
		key := kindID{kind: entities[i].Kind(), id: entities[i].ID()}
		if _, ok := s.byKindID[key]; !ok {
			s.byKindID[key] = i
		}
	}
	return s
}

// Entities returns the full entity slice. Callers must treat it as read-only.
func (s *Snapshot) Entities() []Entity { return s.entities }

// Len returns the number of entities in the snapshot.
func (s *Snapshot) Len() int { return len(s.entities) }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// ByRef looks up an entity by its normalized reference ID.
func (s *Snapshot) ByRef(ref ReferenceID) (*Entity, bool) {
	i, ok := s.byRef[ref.String()]
	if !ok {
		return nil, false
	}
	return &s.entities[i], true
}

// ByKindID looks up an entity by its (kind, id) pair.
func (s *Snapshot) ByKindID(kind Kind, id string) (*Entity, bool) {
	i, ok := s.byKindID[kindID{kind: kind, id: id}]
	if !ok {
		return nil, false
	}
	return &s.entities[i], true
}

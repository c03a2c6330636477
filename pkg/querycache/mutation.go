package querycache

import "errors"

// ErrMutationSettled is returned when a mutation is used after it has
// been committed or rolled back.
var ErrMutationSettled = errors.New("the mutation has already been settled")

type snapshot struct {
	value   any
	existed bool
}

// Mutation is an optimistic cache transaction. It runs in three phases:
//
//  1. snapshot: the first write to a key records its previous value
//  2. apply: writes patch the store so readers see the optimistic value
//  3. settle: Commit discards the snapshots, Rollback restores them
//
// A Mutation is not safe for concurrent use. Two mutations touching the
// same key can still race, callers serialize them per key.
type Mutation struct {
	store     *Store
	snapshots map[Key]snapshot
	settled   bool
}

// BeginMutation starts an optimistic transaction on the store.
func (s *Store) BeginMutation() *Mutation {
	return &Mutation{
		store:     s,
		snapshots: make(map[Key]snapshot),
	}
}

// Set optimistically writes a value. The previous value is snapshotted
// the first time a key is touched.
func (m *Mutation) Set(key Key, value any) error {
	if m.settled {
		return ErrMutationSettled
	}

	if _, ok := m.snapshots[key]; !ok {
		previous, existed := m.store.Get(key)
		m.snapshots[key] = snapshot{value: previous, existed: existed}
	}

	m.store.Set(key, value)
	return nil
}

// Commit keeps the optimistic values and discards the snapshots.
func (m *Mutation) Commit() error {
	if m.settled {
		return ErrMutationSettled
	}

	m.settled = true
	m.snapshots = nil
	return nil
}

// Rollback restores every touched key to its snapshotted state. Keys
// that did not exist before the mutation are removed again.
func (m *Mutation) Rollback() error {
	if m.settled {
		return ErrMutationSettled
	}

	for key, previous := range m.snapshots {
		if previous.existed {
			m.store.Set(key, previous.value)
		} else {
			m.store.Delete(key)
		}
	}

	m.settled = true
	m.snapshots = nil
	return nil
}

// Package prefs implements types.Preferences as an in-memory map with an
// optional write-through hook. Editors collect changes and Commit hands them
// to the hook before publishing them to readers.
package prefs

import (
	"sync"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// Kind tags the type of a stored value.
type Kind string

const (
	KindString Kind = "string"
	KindInt64  Kind = "int64"
	KindBool   Kind = "bool"
)

// Value is a typed preference value.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Bool bool
}

// Change is one pending edit. A nil Value removes the key.
type Change struct {
	Key   string
	Value *Value
}

// PersistFunc durably applies a batch of changes. It must apply all of them
// or none.
type PersistFunc func(changes []Change) error

var _ types.Preferences = (*Store)(nil)

// Store is a concurrency-safe preferences map.
type Store struct {
	mu      sync.RWMutex
	values  map[string]Value
	persist PersistFunc
}

// New returns a Store seeded with initial values. persist may be nil for a
// purely in-memory store.
func New(initial map[string]Value, persist PersistFunc) *Store {
	values := make(map[string]Value, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{values: values, persist: persist}
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Store {
	return New(nil, nil)
}

func (s *Store) get(key string, kind Kind) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok || v.Kind != kind {
		return Value{}, false
	}
	return v, true
}

func (s *Store) GetString(key string) (string, bool) {
	v, ok := s.get(key, KindString)
	return v.Str, ok
}

func (s *Store) GetInt64(key string) (int64, bool) {
	v, ok := s.get(key, KindInt64)
	return v.Int, ok
}

func (s *Store) GetBool(key string) (bool, bool) {
	v, ok := s.get(key, KindBool)
	return v.Bool, ok
}

func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Store) Edit() types.Editor {
	return &editor{store: s}
}

func (s *Store) commit(changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist(changes); err != nil {
			return err
		}
	}
	for _, c := range changes {
		if c.Value == nil {
			delete(s.values, c.Key)
			continue
		}
		s.values[c.Key] = *c.Value
	}
	return nil
}

type editor struct {
	store   *Store
	changes []Change
}

func (e *editor) put(key string, v Value) types.Editor {
	e.changes = append(e.changes, Change{Key: key, Value: &v})
	return e
}

func (e *editor) PutString(key, value string) types.Editor {
	return e.put(key, Value{Kind: KindString, Str: value})
}

func (e *editor) PutInt64(key string, value int64) types.Editor {
	return e.put(key, Value{Kind: KindInt64, Int: value})
}

func (e *editor) PutBool(key string, value bool) types.Editor {
	return e.put(key, Value{Kind: KindBool, Bool: value})
}

func (e *editor) Remove(key string) types.Editor {
	e.changes = append(e.changes, Change{Key: key})
	return e
}

// Commit applies the collected changes. The editor is reset afterwards, even
// on failure.
func (e *editor) Commit() error {
	changes := e.changes
	e.changes = nil
	return e.store.commit(changes)
}

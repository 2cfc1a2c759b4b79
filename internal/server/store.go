package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CK6170/lll-go/lattice"
)

// LatticeRecord is a stored lattice. A Lattice is not safe for concurrent
// use, so every access goes through the record mutex.
type LatticeRecord struct {
	ID      string
	Created time.Time

	mu sync.Mutex
	l  *lattice.Lattice
}

// LatticeStore keeps lattices in memory, keyed by ID.
type LatticeStore struct {
	mu sync.RWMutex
	m  map[string]*LatticeRecord
}

func NewLatticeStore() *LatticeStore {
	return &LatticeStore{m: make(map[string]*LatticeRecord)}
}

func newID() string { return uuid.NewString() }

// Put stores l under id.
func (s *LatticeStore) Put(id string, l *lattice.Lattice) *LatticeRecord {
	rec := &LatticeRecord{ID: id, Created: time.Now(), l: l}
	s.mu.Lock()
	s.m[id] = rec
	s.mu.Unlock()
	return rec
}

func (s *LatticeStore) Get(id string) (*LatticeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	return r, ok
}

// Delete removes id and reports whether it was present.
func (s *LatticeStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	delete(s.m, id)
	return ok
}

func (s *LatticeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// With runs fn on the lattice stored under id while holding its record lock.
func (s *LatticeStore) With(id string, fn func(l *lattice.Lattice) error) error {
	r, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("lattice %s: %w", id, errNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.l)
}

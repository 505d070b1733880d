package store

import (
	"sync"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/entities"
)

// Store is the keyed collection of certificate records shared by the
// sync controller, the mutation coordinator and the view projector.
// Records are keyed by domain; each mutation is a single atomic
// transition, scoped to one key or to the whole collection, so callers
// never merge against a stale copy.
type Store struct {
	mu    sync.RWMutex
	byKey map[string]entities.Certificate
	order []string
}

// New returns an empty Store ready to use.
func New() *Store {
	return &Store{
		byKey: make(map[string]entities.Certificate),
	}
}

// GetAll returns a snapshot of all records in insertion order. The
// slice is a copy; mutating it does not affect the store.
func (s *Store) GetAll() []entities.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Certificate, 0, len(s.order))
	for _, domain := range s.order {
		out = append(out, s.byKey[domain])
	}

	return out
}

// Get returns the record stored under the domain key, if any.
func (s *Store) Get(domain string) (entities.Certificate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cert, ok := s.byKey[domain]
	return cert, ok
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byKey)
}

// ReplaceAll swaps the entire collection for the given records. Later
// duplicates of a domain key overwrite earlier ones, keeping the
// one-record-per-key invariant even on a malformed input.
func (s *Store) ReplaceAll(records []entities.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey = make(map[string]entities.Certificate, len(records))
	s.order = s.order[:0]
	for _, cert := range records {
		if _, seen := s.byKey[cert.Domain]; !seen {
			s.order = append(s.order, cert.Domain)
		}
		s.byKey[cert.Domain] = cert
	}
}

// Upsert inserts the record or replaces the one sharing its domain key.
// No other key is touched.
func (s *Store) Upsert(cert entities.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.byKey[cert.Domain]; !seen {
		s.order = append(s.order, cert.Domain)
	}
	s.byKey[cert.Domain] = cert
}

// Remove deletes the record under the domain key. Unknown keys are a
// no-op.
func (s *Store) Remove(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[domain]; !ok {
		return
	}

	delete(s.byKey, domain)
	for i, d := range s.order {
		if d == domain {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Package snapshot holds the in-memory projection of every property that
// the read endpoints serve from.  The projection is rebuilt by a
// background refresher and swapped wholesale; readers always see either
// the previous complete snapshot or the new one, never a mix.
package snapshot

import (
	"sort"
	"sync"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

// Store is the process-scoped snapshot container.  It starts empty and
// stays readable at all times; Replace installs a fresh projection.
type Store struct {
	mu          sync.RWMutex
	summaries   map[string]model.PropertySummary
	rooms       map[string]model.RoomsView
	lastRefresh time.Time
}

func NewStore() *Store {
	return &Store{
		summaries: map[string]model.PropertySummary{},
		rooms:     map[string]model.RoomsView{},
	}
}

// Replace swaps in a complete new projection.  Both maps are installed
// under one lock so a reader never pairs a summary from one cycle with
// rooms from another.
func (s *Store) Replace(summaries map[string]model.PropertySummary, rooms map[string]model.RoomsView, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = summaries
	s.rooms = rooms
	s.lastRefresh = at
}

// Summaries returns every property summary ordered by code.
func (s *Store) Summaries() []model.PropertySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PropertySummary, 0, len(s.summaries))
	for _, v := range s.summaries {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *Store) Summary(code string) (model.PropertySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.summaries[code]
	return v, ok
}

func (s *Store) Rooms(code string) (model.RoomsView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.rooms[code]
	return v, ok
}

// LastRefresh reports when the current projection was installed; zero
// until the first successful cycle.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

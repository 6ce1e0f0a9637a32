// Package booking implements the request/confirm workflow: a guest
// submits a booking intent, the property's Telegram channel receives an
// interactive confirm/reject message, and the request record tracks the
// outcome for the lifetime of the process.
package booking

import (
	"sync"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

// Store keeps booking requests in memory keyed by request id.  Records
// are created once and mutated only by Resolve; nothing is ever deleted.
type Store struct {
	mu   sync.Mutex
	reqs map[string]model.BookingRequest
}

func NewStore() *Store {
	return &Store{reqs: map[string]model.BookingRequest{}}
}

func (s *Store) Put(r model.BookingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs[r.ID] = r
}

func (s *Store) Get(id string) (model.BookingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	return r, ok
}

// SetStatus updates a request's status in place and returns the updated
// record.  Unknown ids report ok=false and change nothing.
func (s *Store) SetStatus(id, status string) (model.BookingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	if !ok {
		return model.BookingRequest{}, false
	}
	r.Status = status
	s.reqs[id] = r
	return r, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

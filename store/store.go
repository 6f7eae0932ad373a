package store

import (
	"fmt"
	"sync"
)

var (
	ErrNotFound    = fmt.Errorf("poll not found")
	ErrDuplicateID = fmt.Errorf("poll id already exists")
	ErrOutOfRange  = fmt.Errorf("poll index out of range")
)

// PollStore is the source of truth for the poll collection. It keeps
// polls in insertion order and does no validation; state transitions are
// validated by the mutation engine before they are committed here.
type PollStore struct {
	mtx   sync.RWMutex
	polls []*Poll
}

func New() *PollStore {
	return &PollStore{}
}

// GetAll returns every poll in insertion order.
func (s *PollStore) GetAll() []*Poll {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	out := make([]*Poll, len(s.polls))
	for i, p := range s.polls {
		out[i] = p.Copy()
	}
	return out
}

// GetByID returns the poll with the given id, or nil.
func (s *PollStore) GetByID(id string) *Poll {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	for _, p := range s.polls {
		if p.ID == id {
			return p.Copy()
		}
	}
	return nil
}

// GetByCreator returns the polls owned by the given identity, in
// insertion order.
func (s *PollStore) GetByCreator(identity string) []*Poll {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	out := []*Poll{}
	for _, p := range s.polls {
		if p.CreatedBy == identity {
			out = append(out, p.Copy())
		}
	}
	return out
}

// IndexOf returns the position of the poll with the given id, or -1.
func (s *PollStore) IndexOf(id string) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.indexOf(id)
}

func (s *PollStore) indexOf(id string) int {
	for i, p := range s.polls {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Insert appends a poll. Ids are unique within the store.
func (s *PollStore) Insert(p *Poll) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.indexOf(p.ID) != -1 {
		return ErrDuplicateID
	}
	s.polls = append(s.polls, p.Copy())
	return nil
}

// Replace overwrites the poll at the given position.
func (s *PollStore) Replace(pos int, p *Poll) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if pos < 0 || pos >= len(s.polls) {
		return ErrOutOfRange
	}
	s.polls[pos] = p.Copy()
	return nil
}

// Commit re-resolves the poll's current position by id and replaces it,
// atomically. Mutators use this instead of IndexOf+Replace so a
// concurrent removal of another poll cannot shift positions between the
// lookup and the write.
func (s *PollStore) Commit(p *Poll) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	pos := s.indexOf(p.ID)
	if pos == -1 {
		return ErrNotFound
	}
	s.polls[pos] = p.Copy()
	return nil
}

// Remove removes the poll with the given id and returns the removed
// snapshot.
func (s *PollStore) Remove(id string) (*Poll, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	pos := s.indexOf(id)
	if pos == -1 {
		return nil, ErrNotFound
	}
	removed := s.polls[pos]
	s.polls = append(s.polls[:pos], s.polls[pos+1:]...)
	return removed, nil
}

// RemoveAt removes and returns the poll at the given position.
func (s *PollStore) RemoveAt(pos int) (*Poll, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if pos < 0 || pos >= len(s.polls) {
		return nil, ErrOutOfRange
	}
	removed := s.polls[pos]
	s.polls = append(s.polls[:pos], s.polls[pos+1:]...)
	return removed, nil
}

// Len returns the number of stored polls.
func (s *PollStore) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.polls)
}

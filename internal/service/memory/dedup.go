package memory

import "sync"

// AnsweredSet tracks message ids that already received a generated reply,
// giving the at-most-once guarantee for reply threading. It keeps its own
// FIFO bound instead of growing for the process lifetime.
//
// The bound is deliberately independent of the context window: a parent can
// stay answerable long after it left the window, and an answered mark must
// outlive the parent's window slot.
type AnsweredSet struct {
	mu       sync.Mutex
	capacity int
	order    []int
	seen     map[int]struct{}
}

func NewAnsweredSet(capacity int) *AnsweredSet {
	if capacity < 1 {
		capacity = 1
	}
	return &AnsweredSet{
		capacity: capacity,
		seen:     make(map[int]struct{}, capacity),
	}
}

// Mark records id as answered. Marking twice is a no-op.
func (s *AnsweredSet) Mark(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return
	}

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}

	s.order = append(s.order, id)
	s.seen[id] = struct{}{}
}

func (s *AnsweredSet) Seen(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seen[id]
	return ok
}

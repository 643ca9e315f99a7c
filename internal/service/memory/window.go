package memory

import (
	"sync"
	"time"
)

// StoredMessage is one retained chat message. Values are immutable after
// insertion; only eviction removes them.
type StoredMessage struct {
	ID         int
	AuthorID   int64
	Text       string
	ReceivedAt time.Time
}

// Window holds the most recent messages of a chat in insertion order, bounded
// by a fixed capacity. The oldest entry is evicted when a new one arrives at
// capacity, so the bound is never exceeded.
//
// Telebot runs each handler on its own goroutine, so the window serializes
// all access internally.
type Window struct {
	mu       sync.Mutex
	capacity int
	order    []int
	byID     map[int]StoredMessage
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		order:    make([]int, 0, capacity),
		byID:     make(map[int]StoredMessage, capacity),
	}
}

// Record inserts msg, evicting the oldest entry first when at capacity.
// Re-recording an already present id refreshes its position.
func (w *Window) Record(msg StoredMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byID[msg.ID]; ok {
		w.removeLocked(msg.ID)
	}

	if len(w.order) >= w.capacity {
		w.removeLocked(w.order[0])
	}

	w.order = append(w.order, msg.ID)
	w.byID[msg.ID] = msg
}

// Lookup returns the retained message for id, or ok=false when it was never
// recorded or has been evicted.
func (w *Window) Lookup(id int) (StoredMessage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg, ok := w.byID[id]
	return msg, ok
}

// Texts returns the retained message bodies oldest first.
func (w *Window) Texts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	texts := make([]string, 0, len(w.order))
	for _, id := range w.order {
		texts = append(texts, w.byID[id].Text)
	}
	return texts
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

func (w *Window) removeLocked(id int) {
	delete(w.byID, id)
	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

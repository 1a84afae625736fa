package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// DefaultHistorySize is the number of committed layouts kept for browsing.
const DefaultHistorySize = 20

// Entry is one committed layout.
type Entry struct {
	ID     uuid.UUID      `json:"id"`
	At     time.Time      `json:"at"`
	Result *layout.Result `json:"result"`
}

// History is a bounded ring buffer of committed layouts with a cursor.
// Pushing while the cursor is behind the newest entry drops the entries
// after the cursor, like an editor's undo stack.
type History struct {
	mu      sync.Mutex
	entries []Entry
	start   int // index of the oldest entry
	count   int
	cursor  int // logical index of the current entry, -1 when empty
}

// NewHistory returns a history holding at most size entries. A size below
// one selects DefaultHistorySize.
func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{entries: make([]Entry, size), cursor: -1}
}

// Cap returns the capacity.
func (h *History) Cap() int { return len(h.entries) }

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *History) at(i int) Entry {
	return h.entries[(h.start+i)%len(h.entries)]
}

// Push records r as the newest entry and moves the cursor to it.
func (h *History) Push(r *layout.Result) Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	// drop redo entries
	h.count = h.cursor + 1

	e := Entry{ID: uuid.New(), At: time.Now(), Result: r}
	if h.count == len(h.entries) {
		h.entries[h.start] = e
		h.start = (h.start + 1) % len(h.entries)
	} else {
		h.entries[(h.start+h.count)%len(h.entries)] = e
		h.count++
	}
	h.cursor = h.count - 1
	return e
}

// Entries returns the stored entries oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, h.count)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}

// Current returns the entry under the cursor.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor < 0 {
		return Entry{}, false
	}
	return h.at(h.cursor), true
}

// Back moves the cursor to the previous entry.
func (h *History) Back() (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor <= 0 {
		return Entry{}, errors.New(errors.ErrCodeHistoryEmpty, "no earlier layout in history")
	}
	h.cursor--
	return h.at(h.cursor), nil
}

// Forward moves the cursor to the next entry.
func (h *History) Forward() (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= h.count-1 {
		return Entry{}, errors.New(errors.ErrCodeHistoryEmpty, "no later layout in history")
	}
	h.cursor++
	return h.at(h.cursor), nil
}

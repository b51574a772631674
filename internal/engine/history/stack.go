package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/rte/internal/engine/doc"
)

// DefaultMaxEntries is the snapshot cap used when none is given.
const DefaultMaxEntries = 50

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry is one snapshot with its capture time.
type entry struct {
	value     doc.Value
	timestamp time.Time
}

// History is a bounded list of document snapshots with a current index.
type History struct {
	mu sync.Mutex

	entries    []entry
	index      int
	maxEntries int
}

// New creates a history whose only snapshot is initial. maxEntries <= 0
// selects DefaultMaxEntries.
func New(initial doc.Value, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		entries:    []entry{{value: initial.Clone(), timestamp: time.Now()}},
		maxEntries: maxEntries,
	}
}

// Push records v as the newest snapshot. Redo entries are discarded. A
// snapshot equal to the current one is not recorded and Push reports false.
func (h *History) Push(v doc.Value) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entries[h.index].value.Equal(v) {
		return false
	}

	h.entries = append(h.entries[:h.index+1], entry{value: v.Clone(), timestamp: time.Now()})

	// Enforce max entries
	if excess := len(h.entries) - h.maxEntries; excess > 0 {
		h.entries = h.entries[excess:]
	}
	h.index = len(h.entries) - 1
	return true
}

// Undo steps back one snapshot and returns it.
func (h *History) Undo() (doc.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == 0 {
		return nil, ErrNothingToUndo
	}
	h.index--
	return h.entries[h.index].value.Clone(), nil
}

// Redo steps forward one snapshot and returns it.
func (h *History) Redo() (doc.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index >= len(h.entries)-1 {
		return nil, ErrNothingToRedo
	}
	h.index++
	return h.entries[h.index].value.Clone(), nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Current returns the snapshot at the current index.
func (h *History) Current() doc.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].value.Clone()
}

// Index returns the current index.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// LastModified returns when the current snapshot was captured.
func (h *History) LastModified() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].timestamp
}

// Reset discards all snapshots and starts over from v.
func (h *History) Reset(v doc.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = []entry{{value: v.Clone(), timestamp: time.Now()}}
	h.index = 0
}

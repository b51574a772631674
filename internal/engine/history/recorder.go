package history

import (
	"sync"
	"time"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
)

// DefaultDebounce is the quiet period after which a pending change is
// recorded.
const DefaultDebounce = 500 * time.Millisecond

// Recorder debounces observed values into a History.
type Recorder struct {
	mu sync.Mutex

	hist  *History
	delay time.Duration
	log   *logging.Logger

	timer      *time.Timer
	generation uint64
	pending    doc.Value
	hasPending bool
	suppress   bool
	closed     bool

	onCommit func(doc.Value)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the recorder's logger.
func WithLogger(l *logging.Logger) RecorderOption {
	return func(r *Recorder) {
		r.log = l
	}
}

// WithCommitHook sets a function called after each snapshot is pushed. It
// runs without the recorder's lock held.
func WithCommitHook(fn func(doc.Value)) RecorderOption {
	return func(r *Recorder) {
		r.onCommit = fn
	}
}

// NewRecorder creates a recorder feeding h. delay <= 0 selects
// DefaultDebounce.
func NewRecorder(h *History, delay time.Duration, opts ...RecorderOption) *Recorder {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	r := &Recorder{hist: h, delay: delay, log: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("history")
	return r
}

// Observe reports a new live value and restarts the debounce timer. If
// SuppressNext was called, this one value is ignored and the flag clears.
func (r *Recorder) Observe(v doc.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.suppress {
		r.suppress = false
		return
	}

	r.pending = v
	r.hasPending = true
	r.generation++
	gen := r.generation
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() { r.fire(gen) })
}

// SuppressNext makes the next Observe a no-op.
func (r *Recorder) SuppressNext() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppress = true
}

// Flush records the pending value now. It reports whether a snapshot was
// pushed.
func (r *Recorder) Flush() bool {
	r.mu.Lock()
	v, ok := r.takeLocked()
	r.mu.Unlock()

	if !ok {
		return false
	}
	return r.commit(v)
}

// Cancel drops the pending value without recording it.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takeLocked()
}

// Pending reports whether a value is waiting to be recorded.
func (r *Recorder) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasPending
}

// Close stops the timer and drops any pending value. Later observations are
// ignored.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takeLocked()
	r.closed = true
}

func (r *Recorder) fire(gen uint64) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	v, ok := r.takeLocked()
	r.mu.Unlock()

	if ok {
		r.commit(v)
	}
}

// takeLocked clears and returns the pending value, stopping the timer.
func (r *Recorder) takeLocked() (doc.Value, bool) {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.generation++
	if !r.hasPending {
		return nil, false
	}
	v := r.pending
	r.pending = nil
	r.hasPending = false
	return v, true
}

func (r *Recorder) commit(v doc.Value) bool {
	if !r.hist.Push(v) {
		r.log.Debug("snapshot unchanged, skipped")
		return false
	}
	r.log.Debug("snapshot %d recorded", r.hist.Index())
	if r.onCommit != nil {
		r.onCommit(v)
	}
	return true
}

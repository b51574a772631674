package session

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/engine/history"
	"github.com/dshills/rte/internal/engine/marks"
	"github.com/dshills/rte/internal/engine/offset"
	"github.com/dshills/rte/internal/htmlbridge"
	"github.com/dshills/rte/internal/logging"
	"github.com/dshills/rte/internal/notify"
	"github.com/dshills/rte/internal/plugin"
)

// Errors returned by session operations.
var (
	// ErrClosed indicates the session has been closed.
	ErrClosed = errors.New("session closed")

	// ErrUnknownMark indicates no plugin is registered for a mark name.
	ErrUnknownMark = errors.New("unknown mark")
)

// Host is the editing surface a session drives.
type Host interface {
	// Selection returns the surface's current selection as absolute
	// offsets, or false when the surface has no selection.
	Selection() (offset.Selection, bool)
	// SetSelection moves the surface's selection. It must not call back
	// into the session's selection methods.
	SetSelection(start, end int)
	// OnChange receives every new document.
	OnChange(v doc.Value)
}

// Session is one editor's live state.
type Session struct {
	mu sync.Mutex
	// hostMu orders selection moves sent to the host. It is taken before mu.
	hostMu sync.Mutex

	id       string
	host     Host
	reg      *plugin.Registry
	bridge   *htmlbridge.Bridge
	hist     *history.History
	rec      *history.Recorder
	notifier *notify.Notifier
	base     *logging.Logger
	log      *logging.Logger

	value doc.Value
	sel   offset.Selection

	// Marks the next inserted text takes or drops at a collapsed caret.
	pending doc.Marks
	cleared map[string]bool

	saved         *offset.Selection
	restoreDelay  time.Duration
	restoreGen    uint64
	restoreCancel func()
	restores      sync.WaitGroup

	historyLimit   int
	debounce       time.Duration
	ownsNotifier   bool
	customRegistry bool

	closers []io.Closer
	closed  bool
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the plugin registry. The default holds the built-in
// marks.
func WithRegistry(reg *plugin.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.reg = reg
			s.customRegistry = true
		}
	}
}

// WithValue sets the initial document.
func WithValue(v doc.Value) Option {
	return func(s *Session) {
		s.value = v.Clone()
	}
}

// WithHistoryLimit caps the number of undo snapshots.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		s.historyLimit = n
	}
}

// WithDebounce sets the quiet period before an edit is recorded.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithRestoreDelay postpones selection restoration, giving the host time to
// re-render.
func WithRestoreDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.restoreDelay = d
		}
	}
}

// WithLogger sets the session's logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		s.base = l
	}
}

// WithNotifier publishes changes to n. The session does not close it.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// New creates a session driving host. host may be nil, in which case the
// session tracks the selection itself.
func New(host Host, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		host:     host,
		base:     logging.Nop(),
		debounce: history.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.reg == nil {
		s.reg = plugin.NewDefaultRegistry()
	}
	if s.notifier == nil {
		s.notifier = notify.New(notify.WithLogger(s.base))
		s.ownsNotifier = true
	}
	if len(s.value) == 0 {
		s.value = doc.Empty()
	}
	s.value = doc.Normalize(s.value)

	s.log = s.base.WithComponent("session").WithField("session", s.id)
	s.bridge = htmlbridge.New(s.reg, htmlbridge.WithLogger(s.base))
	s.hist = history.New(s.value, s.historyLimit)
	s.rec = history.NewRecorder(s.hist, s.debounce, history.WithLogger(s.base))

	s.log.Debug("session created with %d blocks", len(s.value))
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Registry returns the session's plugin registry.
func (s *Session) Registry() *plugin.Registry { return s.reg }

// Notifier returns the notifier changes are published to.
func (s *Session) Notifier() *notify.Notifier { return s.notifier }

// Value returns a copy of the current document.
func (s *Session) Value() doc.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value.Clone()
}

// HTML serializes the current document.
func (s *Session) HTML(inline bool) string {
	s.mu.Lock()
	v := s.value
	s.mu.Unlock()
	return s.bridge.Serialize(v, inline)
}

// SetValue replaces the document, as after an edit made on the host
// surface.
func (s *Session) SetValue(v doc.Value) error {
	if len(v) == 0 {
		v = doc.Empty()
	}
	return s.replace(doc.Normalize(v.Clone()), notify.KindEdit)
}

// LoadHTML replaces the document with parsed HTML, as when the host syncs
// its surface content.
func (s *Session) LoadHTML(src string) error {
	return s.replace(s.bridge.Parse(src), notify.KindLoad)
}

func (s *Session) replace(v doc.Value, kind notify.Kind) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if v.Equal(s.value) {
		s.mu.Unlock()
		return nil
	}
	s.value = v
	s.sel = s.sel.Clamp(v)
	s.mu.Unlock()

	s.publish(v, kind, "")
	return nil
}

// InsertText replaces the selection with text and puts the caret after it.
// Newlines split blocks. The text takes the marks a caret at the start of
// the selection types with, adjusted by formatting applied at the caret.
func (s *Session) InsertText(text string) error {
	sel := s.GetSelection()

	s.hostMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.hostMu.Unlock()
		return ErrClosed
	}
	r := offset.ToRange(s.value, sel)
	start := marks.AbsolutePosition(s.value, r.StartBlock, r.StartOffset)
	v, caret := marks.ReplaceText(s.value, r, text)

	if text != "" && (len(s.pending) > 0 || len(s.cleared) > 0) {
		inserted := marks.RangeFromAbsolute(v, start, caret)
		v = marks.ApplyToRange(v, inserted, s.pending)
		for name := range s.cleared {
			v = marks.RemoveFromRange(v, inserted, name)
		}
	}
	s.clearPendingLocked()
	s.cancelRestoreLocked()
	s.value = v
	s.sel = offset.Caret(caret)
	s.mu.Unlock()

	s.moveHostSelection(caret, caret)
	s.hostMu.Unlock()
	s.publish(v, notify.KindEdit, "")
	return nil
}

// DeleteSelection removes the selected text. A collapsed selection is left
// alone.
func (s *Session) DeleteSelection() error {
	sel := s.GetSelection()
	if sel.Collapsed() {
		return s.closedErr()
	}
	return s.splice(sel, func(v doc.Value, r marks.Range) (doc.Value, int) {
		return marks.DeleteRange(v, r)
	})
}

// PasteHTML parses src and puts the result in place of the selection,
// keeping the pasted formatting.
func (s *Session) PasteHTML(src string) error {
	frag := s.bridge.Parse(src)
	return s.splice(s.GetSelection(), func(v doc.Value, r marks.Range) (doc.Value, int) {
		return marks.ReplaceWithFragment(v, r, frag)
	})
}

func (s *Session) splice(sel offset.Selection, edit func(doc.Value, marks.Range) (doc.Value, int)) error {
	s.hostMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.hostMu.Unlock()
		return ErrClosed
	}
	v, caret := edit(s.value, offset.ToRange(s.value, sel))
	s.clearPendingLocked()
	s.cancelRestoreLocked()
	s.value = v
	s.sel = offset.Caret(caret)
	s.mu.Unlock()

	s.moveHostSelection(caret, caret)
	s.hostMu.Unlock()
	s.publish(v, notify.KindEdit, "")
	return nil
}

// Undo restores the previous snapshot. A pending edit is recorded first, so
// undo always steps back from what the user sees.
func (s *Session) Undo() error {
	return s.step(s.hist.Undo, notify.KindUndo)
}

// Redo restores the next snapshot.
func (s *Session) Redo() error {
	return s.step(s.hist.Redo, notify.KindRedo)
}

func (s *Session) step(move func() (doc.Value, error), kind notify.Kind) error {
	if err := s.closedErr(); err != nil {
		return err
	}
	s.rec.Flush()

	v, err := move()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.value = v
	s.sel = s.sel.Clamp(v)
	s.clearPendingLocked()
	s.mu.Unlock()

	s.rec.SuppressNext()
	s.publish(v, kind, "")
	s.log.Debug("%s to snapshot %d", kind, s.hist.Index())
	return nil
}

// CanUndo reports whether Undo would change the document.
func (s *Session) CanUndo() bool {
	return s.hist.CanUndo() || s.rec.Pending()
}

// CanRedo reports whether Redo would change the document.
func (s *Session) CanRedo() bool {
	return s.hist.CanRedo() && !s.rec.Pending()
}

// Flush records a pending edit in the history without waiting for the
// debounce period.
func (s *Session) Flush() bool {
	return s.rec.Flush()
}

// Close cancels a pending selection restore, stops the history recorder
// and releases plugin resources. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelRestoreLocked()
	s.mu.Unlock()

	s.restores.Wait()
	s.rec.Close()
	if s.ownsNotifier {
		s.notifier.Close()
	}

	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.Debug("session closed")
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

func (s *Session) closedErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// publish hands v to the history recorder, the host and observers. It must
// be called without s.mu held.
func (s *Session) publish(v doc.Value, kind notify.Kind, mark string) {
	s.rec.Observe(v)
	if s.host != nil {
		s.host.OnChange(v.Clone())
	}
	s.notifier.Notify(notify.Change{Kind: kind, Session: s.id, Value: v.Clone(), Mark: mark})
}

func (s *Session) moveHostSelection(start, end int) {
	if s.host != nil {
		s.host.SetSelection(start, end)
	}
}

func (s *Session) clearPendingLocked() {
	s.pending = nil
	s.cleared = nil
}

func markNames(m doc.Marks) string {
	return strings.Join(m.Keys(), ",")
}

package session

import (
	"context"
	"time"

	"github.com/dshills/rte/internal/engine/offset"
)

// GetSelection returns the current selection, refreshed from the host when
// the host has one.
func (s *Session) GetSelection() offset.Selection {
	var hostSel offset.Selection
	var ok bool
	if s.host != nil {
		hostSel, ok = s.host.Selection()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.setSelectionLocked(hostSel)
	}
	return s.sel
}

// SetSelection moves the selection and the host's caret, cancelling a
// pending restore. Offsets are clamped to the document.
func (s *Session) SetSelection(start, end int) {
	s.hostMu.Lock()
	defer s.hostMu.Unlock()

	s.mu.Lock()
	s.setSelectionLocked(offset.Selection{Start: start, End: end})
	s.cancelRestoreLocked()
	sel := s.sel
	s.mu.Unlock()

	s.moveHostSelection(sel.Start, sel.End)
}

// setSelectionLocked stores sel. Formatting queued at the caret is dropped
// when the selection moves.
func (s *Session) setSelectionLocked(sel offset.Selection) {
	sel = sel.Clamp(s.value)
	if sel != s.sel {
		s.clearPendingLocked()
	}
	s.sel = sel
}

// SaveSelection remembers the current selection for RestoreSelection.
func (s *Session) SaveSelection() offset.Selection {
	sel := s.GetSelection()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &sel
	return sel
}

// RestoreSelection moves the host's selection back to the saved one after
// the restore delay. Only one restore is pending at a time: a new call
// cancels the previous one, as do Close and cancelling ctx. The restored
// offsets are clamped to the document and snapped to grapheme cluster
// starts. It reports whether a restore was scheduled.
func (s *Session) RestoreSelection(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.saved == nil {
		return false
	}
	s.cancelRestoreLocked()

	gen := s.restoreGen
	sel := *s.saved
	rctx, cancel := context.WithCancel(ctx)
	s.restoreCancel = cancel

	s.restores.Add(1)
	go s.restore(rctx, gen, sel)
	return true
}

// RestorePending reports whether a selection restore is scheduled.
func (s *Session) RestorePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreCancel != nil
}

func (s *Session) restore(ctx context.Context, gen uint64, sel offset.Selection) {
	defer s.restores.Done()

	timer := time.NewTimer(s.restoreDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.finishRestore(gen)
		return
	case <-timer.C:
	}

	s.hostMu.Lock()
	defer s.hostMu.Unlock()

	s.mu.Lock()
	if gen != s.restoreGen || s.closed {
		s.mu.Unlock()
		return
	}
	sel = sel.Clamp(s.value)
	sel = offset.Selection{
		Start: offset.SnapToGrapheme(s.value, sel.Start),
		End:   offset.SnapToGrapheme(s.value, sel.End),
	}
	s.sel = sel
	s.restoreCancel()
	s.restoreCancel = nil
	s.mu.Unlock()

	s.moveHostSelection(sel.Start, sel.End)
	s.log.Debug("selection restored to %s", sel)
}

// finishRestore clears the slot if it still belongs to gen.
func (s *Session) finishRestore(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.restoreGen && s.restoreCancel != nil {
		s.restoreCancel()
		s.restoreCancel = nil
	}
}

func (s *Session) cancelRestoreLocked() {
	s.restoreGen++
	if s.restoreCancel != nil {
		s.restoreCancel()
		s.restoreCancel = nil
	}
}

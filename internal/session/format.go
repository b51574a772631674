package session

import (
	"context"
	"fmt"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/engine/marks"
	"github.com/dshills/rte/internal/engine/offset"
	"github.com/dshills/rte/internal/notify"
	"github.com/dshills/rte/internal/plugin"
)

// Session implements plugin.Context for the plugins it runs.
var _ plugin.Context = (*Session)(nil)

// ApplyFormat runs the named plugin's Apply with value over the selection,
// then restores the selection once the host has re-rendered. On a
// collapsed selection the mark is applied to the next inserted text.
func (s *Session) ApplyFormat(name string, value doc.MarkValue) error {
	p, err := s.plugin(name)
	if err != nil {
		return err
	}
	s.SaveSelection()
	p.ApplyTo(s, value)
	s.RestoreSelection(context.Background())
	return nil
}

// ToggleFormat turns a boolean mark off when it is active over the
// selection and on otherwise.
func (s *Session) ToggleFormat(name string) error {
	p, err := s.plugin(name)
	if err != nil {
		return err
	}
	return s.ApplyFormat(name, doc.Bool(!p.Active(s)))
}

// RemoveFormat removes a mark from the selection.
func (s *Session) RemoveFormat(name string) error {
	if _, err := s.plugin(name); err != nil {
		return err
	}
	s.SaveSelection()
	s.RemoveMark(name)
	s.RestoreSelection(context.Background())
	return nil
}

// AdjustFontSize adds delta to the font size over the selection.
func (s *Session) AdjustFontSize(delta float64) error {
	return s.rewrite(doc.FontSize, func(v doc.Value, r marks.Range) doc.Value {
		return marks.AdjustFontSizes(v, r, delta)
	})
}

// AdjustFontWeight adds delta to the font weight over the selection.
func (s *Session) AdjustFontWeight(delta float64) error {
	return s.rewrite(doc.FontWeight, func(v doc.Value, r marks.Range) doc.Value {
		return marks.AdjustFontWeights(v, r, delta)
	})
}

// GetActiveMarks returns the marks of the selection. For a collapsed
// selection these are the marks the next inserted text will take.
func (s *Session) GetActiveMarks() doc.Marks {
	return s.ActiveMarks().Marks
}

// IsActive reports whether a mark is on over the selection, using the
// plugin's own query when one is registered.
func (s *Session) IsActive(name string) bool {
	if p, ok := s.reg.Get(name); ok {
		return p.Active(s)
	}
	return s.GetActiveMarks().Truthy(name)
}

// ApplyMarks merges m over the selection.
func (s *Session) ApplyMarks(m doc.Marks) {
	if len(m) == 0 {
		return
	}
	sel := s.GetSelection()
	if sel.Collapsed() {
		s.mu.Lock()
		s.pending = s.pending.Merge(m)
		for name := range m {
			delete(s.cleared, name)
		}
		s.mu.Unlock()
		return
	}
	s.rewriteSelection(sel, markNames(m), func(v doc.Value, r marks.Range) doc.Value {
		return marks.ApplyToRange(v, r, m)
	})
}

// RemoveMark deletes one mark from the selection.
func (s *Session) RemoveMark(name string) {
	sel := s.GetSelection()
	if sel.Collapsed() {
		s.mu.Lock()
		s.pending = s.pending.Without(name)
		if s.cleared == nil {
			s.cleared = make(map[string]bool)
		}
		s.cleared[name] = true
		s.mu.Unlock()
		return
	}
	s.rewriteSelection(sel, name, func(v doc.Value, r marks.Range) doc.Value {
		return marks.RemoveFromRange(v, r, name)
	})
}

// ActiveMarks reports the marks of the selection.
func (s *Session) ActiveMarks() marks.Query {
	sel := s.GetSelection()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !sel.Collapsed() {
		return marks.InRange(s.value, offset.ToRange(s.value, sel))
	}

	block, off := marks.BlockPosition(s.value, sel.End)
	at := marks.MarksAt(s.value, block, off).Merge(s.pending)
	for name := range s.cleared {
		at = at.Without(name)
	}
	at = at.Clone()
	if at == nil {
		at = doc.Marks{}
	}
	return marks.Query{Marks: at, Mixed: map[string]bool{}}
}

func (s *Session) plugin(name string) (plugin.Plugin, error) {
	if err := s.closedErr(); err != nil {
		return plugin.Plugin{}, err
	}
	p, ok := s.reg.Get(name)
	if !ok {
		return plugin.Plugin{}, fmt.Errorf("%w: %s", ErrUnknownMark, name)
	}
	return p, nil
}

func (s *Session) rewrite(mark string, fn func(doc.Value, marks.Range) doc.Value) error {
	if err := s.closedErr(); err != nil {
		return err
	}
	sel := s.GetSelection()
	if sel.Collapsed() {
		return nil
	}
	s.rewriteSelection(sel, mark, fn)
	return nil
}

// rewriteSelection replaces the document with fn applied over sel and
// publishes a format change. The selection itself does not move.
func (s *Session) rewriteSelection(sel offset.Selection, mark string, fn func(doc.Value, marks.Range) doc.Value) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	v := fn(s.value, offset.ToRange(s.value, sel))
	if v.Equal(s.value) {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.mu.Unlock()

	s.publish(v, notify.KindFormat, mark)
}

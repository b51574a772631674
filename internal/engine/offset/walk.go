// Package offset maps between host caret positions and absolute document
// offsets.
//
// A host describes its rendered document as a Walk: the text runs in
// document order, each tagged with the block it belongs to. Offsets are
// counted in runes, and one separator is counted between blocks, so walk
// offsets and document absolute offsets agree.
package offset

import (
	"unicode/utf8"

	"github.com/dshills/rte/internal/engine/doc"
)

// Run is one rendered text run.
type Run struct {
	Block int
	Text  string
}

// Len returns the run length in runes.
func (r Run) Len() int {
	return utf8.RuneCountInString(r.Text)
}

// Walk is the sequence of text runs of a rendered document.
type Walk []Run

// Locator identifies a position inside a walk.
type Locator struct {
	Run    int
	Offset int
}

// WalkFromValue builds the walk a faithful renderer of v would produce: one
// run per text node, and one empty run for a block without text.
func WalkFromValue(v doc.Value) Walk {
	var w Walk
	for i, b := range v {
		if b.Len() == 0 {
			w = append(w, Run{Block: i})
			continue
		}
		for _, n := range b.Content {
			if n.Text == "" {
				continue
			}
			w = append(w, Run{Block: i, Text: n.Text})
		}
	}
	return w
}

// starts returns the absolute offset at which each run begins.
func (w Walk) starts() []int {
	out := make([]int, len(w))
	pos := 0
	for i, r := range w {
		if i > 0 && r.Block > w[i-1].Block {
			pos += r.Block - w[i-1].Block
		}
		out[i] = pos
		pos += r.Len()
	}
	return out
}

// Len returns the absolute length of the walked document.
func (w Walk) Len() int {
	if len(w) == 0 {
		return 0
	}
	starts := w.starts()
	last := len(w) - 1
	return starts[last] + w[last].Len()
}

// TextOffset returns the absolute offset of offset within run. Out of range
// runs and offsets are clamped.
func TextOffset(w Walk, run, offset int) int {
	if len(w) == 0 {
		return 0
	}
	if run < 0 {
		return 0
	}
	if run >= len(w) {
		return w.Len()
	}
	return w.starts()[run] + clamp(offset, 0, w[run].Len())
}

// Locate returns the position of abs in w. At a boundary between runs the
// earliest run whose end reaches abs wins. Offsets outside the document
// clamp to its start or end.
func Locate(w Walk, abs int) Locator {
	if len(w) == 0 || abs <= 0 {
		return Locator{}
	}
	starts := w.starts()
	for i, r := range w {
		if abs <= starts[i]+r.Len() {
			return Locator{Run: i, Offset: clamp(abs-starts[i], 0, r.Len())}
		}
	}
	last := len(w) - 1
	return Locator{Run: last, Offset: w[last].Len()}
}

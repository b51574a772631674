package offset

import (
	"fmt"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/engine/marks"
)

// Selection is a pair of absolute offsets exchanged with the host. Start is
// where the selection was anchored and End is where the caret is, so End
// may precede Start for a backward selection.
// Selection is an immutable value type.
type Selection struct {
	Start int
	End   int
}

// Caret returns a collapsed selection at abs.
func Caret(abs int) Selection {
	return Selection{Start: abs, End: abs}
}

// Collapsed reports whether the selection has no extent.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Len returns the number of characters selected, separators included.
func (s Selection) Len() int {
	if s.Start <= s.End {
		return s.End - s.Start
	}
	return s.Start - s.End
}

// IsForward reports whether the caret is at or after the anchor.
func (s Selection) IsForward() bool {
	return s.End >= s.Start
}

// Normalized returns the selection with Start <= End.
func (s Selection) Normalized() Selection {
	if s.Start <= s.End {
		return s
	}
	return Selection{Start: s.End, End: s.Start}
}

// Clamp limits both ends to [0, v.Len()].
func (s Selection) Clamp(v doc.Value) Selection {
	n := v.Len()
	return Selection{Start: clamp(s.Start, 0, n), End: clamp(s.End, 0, n)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("Selection[%d:%d]", s.Start, s.End)
}

// ToRange converts sel to an ordered block range of v.
func ToRange(v doc.Value, sel Selection) marks.Range {
	sel = sel.Normalized()
	return marks.RangeFromAbsolute(v, sel.Start, sel.End)
}

// FromRange converts a block range of v to a forward selection.
func FromRange(v doc.Value, r marks.Range) Selection {
	r = r.Ordered()
	return Selection{
		Start: marks.AbsolutePosition(v, r.StartBlock, r.StartOffset),
		End:   marks.AbsolutePosition(v, r.EndBlock, r.EndOffset),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

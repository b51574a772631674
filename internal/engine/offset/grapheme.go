package offset

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/engine/marks"
)

// SnapToGrapheme moves abs back to the start of the grapheme cluster it
// falls inside, so a restored caret never splits an emoji or a combining
// sequence. Offsets on a cluster boundary are returned unchanged, clamped to
// the document.
func SnapToGrapheme(v doc.Value, abs int) int {
	abs = clamp(abs, 0, v.Len())
	block, offset := marks.BlockPosition(v, abs)
	if len(v) == 0 || offset == 0 {
		return abs
	}

	pos := 0
	state := -1
	rest := v[block].Text()
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)
		if offset < pos+n {
			return abs - (offset - pos)
		}
		pos += n
	}
	return abs
}

// GraphemeCount returns the number of user-perceived characters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

package marks

import "github.com/dshills/rte/internal/engine/doc"

// Range is a span of the document in block coordinates. Offsets are rune
// offsets within their block.
type Range struct {
	StartBlock  int
	StartOffset int
	EndBlock    int
	EndOffset   int
}

// Collapsed reports whether the range selects nothing.
func (r Range) Collapsed() bool {
	return r.StartBlock == r.EndBlock && r.StartOffset == r.EndOffset
}

// Ordered returns r with its endpoints swapped if the end precedes the start.
func (r Range) Ordered() Range {
	if r.EndBlock < r.StartBlock || (r.EndBlock == r.StartBlock && r.EndOffset < r.StartOffset) {
		return Range{StartBlock: r.EndBlock, StartOffset: r.EndOffset, EndBlock: r.StartBlock, EndOffset: r.StartOffset}
	}
	return r
}

// AbsolutePosition converts a block/offset pair into an absolute offset: the
// lengths of all preceding blocks, plus one separator per preceding block,
// plus offset.
func AbsolutePosition(v doc.Value, block, offset int) int {
	if block > len(v) {
		block = len(v)
	}
	pos := 0
	for i := 0; i < block; i++ {
		pos += v[i].Len() + 1
	}
	return pos + offset
}

// BlockPosition converts an absolute offset into a block index and an offset
// within that block. It never fails: negative offsets resolve to the start
// of the document and offsets past the end resolve to the end of the last
// block.
func BlockPosition(v doc.Value, abs int) (block, offset int) {
	if len(v) == 0 || abs <= 0 {
		return 0, 0
	}
	acc := 0
	for i, b := range v {
		n := b.Len()
		if abs <= acc+n {
			return i, abs - acc
		}
		acc += n + 1
	}
	last := len(v) - 1
	return last, v[last].Len()
}

// RangeFromAbsolute builds an ordered block range from two absolute offsets.
func RangeFromAbsolute(v doc.Value, start, end int) Range {
	if end < start {
		start, end = end, start
	}
	sb, so := BlockPosition(v, start)
	eb, eo := BlockPosition(v, end)
	return Range{StartBlock: sb, StartOffset: so, EndBlock: eb, EndOffset: eo}
}

// clampRange limits r to the blocks and offsets that exist in v.
func clampRange(v doc.Value, r Range) Range {
	r = r.Ordered()
	if len(v) == 0 {
		return Range{}
	}
	clampBlock := func(b int) int {
		if b < 0 {
			return 0
		}
		if b >= len(v) {
			return len(v) - 1
		}
		return b
	}
	clampOffset := func(b, o int) int {
		if o < 0 {
			return 0
		}
		if n := v[b].Len(); o > n {
			return n
		}
		return o
	}
	if r.StartBlock >= len(v) {
		last := len(v) - 1
		return Range{StartBlock: last, StartOffset: v[last].Len(), EndBlock: last, EndOffset: v[last].Len()}
	}
	if r.EndBlock < 0 {
		return Range{}
	}
	if r.StartBlock < 0 {
		r.StartBlock, r.StartOffset = 0, 0
	}
	if r.EndBlock >= len(v) {
		r.EndBlock = len(v) - 1
		r.EndOffset = v[r.EndBlock].Len()
	}
	r.StartBlock = clampBlock(r.StartBlock)
	r.EndBlock = clampBlock(r.EndBlock)
	r.StartOffset = clampOffset(r.StartBlock, r.StartOffset)
	r.EndOffset = clampOffset(r.EndBlock, r.EndOffset)
	return r
}

// blockSpan returns the intra-block span covered by r in block i.
func blockSpan(v doc.Value, r Range, i int) (start, end int) {
	start, end = 0, v[i].Len()
	if i == r.StartBlock {
		start = r.StartOffset
	}
	if i == r.EndBlock {
		end = r.EndOffset
	}
	return start, end
}

package marks

import (
	"unicode/utf8"

	"github.com/dshills/rte/internal/engine/doc"
)

// rewriteFunc maps the marks of a fully covered fragment to new marks.
type rewriteFunc func(doc.Marks) doc.Marks

// rewriteBlockRange splits every node overlapping [start,end) and rewrites
// the marks of the covered fragments. Untouched fragments keep their
// original mark map. The result is normalized.
func rewriteBlockRange(content []doc.TextNode, start, end int, fn rewriteFunc) []doc.TextNode {
	if start >= end || len(content) == 0 {
		return content
	}

	out := make([]doc.TextNode, 0, len(content)+2)
	changed := false
	pos := 0
	for _, n := range content {
		length := utf8.RuneCountInString(n.Text)
		nodeStart, nodeEnd := pos, pos+length
		pos = nodeEnd

		overlapStart := max(nodeStart, start)
		overlapEnd := min(nodeEnd, end)
		if overlapStart >= overlapEnd {
			out = append(out, n)
			continue
		}

		changed = true
		if overlapStart == nodeStart && overlapEnd == nodeEnd {
			out = append(out, doc.TextNode{Text: n.Text, Marks: fn(n.Marks)})
			continue
		}

		runes := []rune(n.Text)
		from, to := overlapStart-nodeStart, overlapEnd-nodeStart
		if from > 0 {
			out = append(out, doc.TextNode{Text: string(runes[:from]), Marks: n.Marks})
		}
		out = append(out, doc.TextNode{Text: string(runes[from:to]), Marks: fn(n.Marks)})
		if to < length {
			out = append(out, doc.TextNode{Text: string(runes[to:]), Marks: n.Marks})
		}
	}
	if !changed {
		return content
	}
	return doc.NormalizeBlock(out)
}

// rewriteRange applies rewriteBlockRange to every block touched by r. Blocks
// outside the range are passed through unchanged.
func rewriteRange(v doc.Value, r Range, fn rewriteFunc) doc.Value {
	if len(v) == 0 {
		return v
	}
	r = clampRange(v, r)
	out := make(doc.Value, len(v))
	copy(out, v)
	for i := r.StartBlock; i <= r.EndBlock; i++ {
		start, end := blockSpan(v, r, i)
		content := rewriteBlockRange(v[i].Content, start, end, fn)
		out[i] = doc.Block{Type: v[i].Type, Content: content}
	}
	return out
}

// ApplyToBlockRange merges marks over every node fragment within
// [start,end) of one block's content. New values win over existing ones.
func ApplyToBlockRange(content []doc.TextNode, start, end int, marks doc.Marks) []doc.TextNode {
	return rewriteBlockRange(content, start, end, func(m doc.Marks) doc.Marks {
		return m.Merge(marks)
	})
}

// ApplyToRange merges marks over the range r.
func ApplyToRange(v doc.Value, r Range, marks doc.Marks) doc.Value {
	return rewriteRange(v, r, func(m doc.Marks) doc.Marks {
		return m.Merge(marks)
	})
}

// RemoveFromBlockRange deletes key from every node fragment within
// [start,end). A mark set left empty becomes nil.
func RemoveFromBlockRange(content []doc.TextNode, start, end int, key string) []doc.TextNode {
	return rewriteBlockRange(content, start, end, func(m doc.Marks) doc.Marks {
		return m.Without(key)
	})
}

// RemoveFromRange deletes key from every node fragment in r.
func RemoveFromRange(v doc.Value, r Range, key string) doc.Value {
	return rewriteRange(v, r, func(m doc.Marks) doc.Marks {
		return m.Without(key)
	})
}

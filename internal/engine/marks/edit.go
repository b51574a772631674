package marks

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/rte/internal/engine/doc"
)

// ReplaceText replaces the text in r with text. Newlines in text split
// blocks. Inserted text takes the marks a caret at the start of r would type
// with (see MarksAt). It returns the new document and the absolute offset of
// the caret placed after the inserted text.
func ReplaceText(v doc.Value, r Range, text string) (doc.Value, int) {
	if len(v) == 0 {
		v = doc.Empty()
	}
	r = clampRange(v, r)
	inherited := MarksAt(v, r.StartBlock, r.StartOffset)

	head := sliceContent(v[r.StartBlock].Content, 0, r.StartOffset)
	tail := sliceContent(v[r.EndBlock].Content, r.EndOffset, v[r.EndBlock].Len())

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	blocks := make([]doc.Block, 0, len(lines))
	for i, line := range lines {
		var content []doc.TextNode
		if i == 0 {
			content = append(content, head...)
		}
		if line != "" {
			content = append(content, doc.TextNode{Text: line, Marks: inherited})
		}
		if i == len(lines)-1 {
			content = append(content, tail...)
		}
		blocks = append(blocks, makeBlock(content))
	}

	out := make(doc.Value, 0, len(v)-(r.EndBlock-r.StartBlock)+len(blocks)-1)
	out = append(out, v[:r.StartBlock]...)
	out = append(out, blocks...)
	out = append(out, v[r.EndBlock+1:]...)

	caretBlock := r.StartBlock + len(lines) - 1
	caretOffset := utf8.RuneCountInString(lines[len(lines)-1])
	if len(lines) == 1 {
		caretOffset += r.StartOffset
	}
	return out, AbsolutePosition(out, caretBlock, caretOffset)
}

// DeleteRange removes the text in r, joining the boundary blocks.
func DeleteRange(v doc.Value, r Range) (doc.Value, int) {
	return ReplaceText(v, r, "")
}

// ReplaceWithFragment replaces the text in r with the blocks of frag,
// keeping the fragment's own marks. The first fragment block joins the text
// before r and the last joins the text after it. It returns the new document
// and the absolute offset just past the inserted content.
func ReplaceWithFragment(v doc.Value, r Range, frag doc.Value) (doc.Value, int) {
	if len(frag) == 0 {
		return DeleteRange(v, r)
	}
	if len(v) == 0 {
		v = doc.Empty()
	}
	r = clampRange(v, r)

	head := sliceContent(v[r.StartBlock].Content, 0, r.StartOffset)
	tail := sliceContent(v[r.EndBlock].Content, r.EndOffset, v[r.EndBlock].Len())

	blocks := make([]doc.Block, 0, len(frag))
	for i, b := range frag {
		var content []doc.TextNode
		if i == 0 {
			content = append(content, head...)
		}
		for _, n := range b.Content {
			if n.Text != "" {
				content = append(content, n)
			}
		}
		if i == len(frag)-1 {
			content = append(content, tail...)
		}
		blocks = append(blocks, makeBlock(content))
	}

	out := make(doc.Value, 0, len(v)-(r.EndBlock-r.StartBlock)+len(blocks)-1)
	out = append(out, v[:r.StartBlock]...)
	out = append(out, blocks...)
	out = append(out, v[r.EndBlock+1:]...)

	caretBlock := r.StartBlock + len(frag) - 1
	caretOffset := frag[len(frag)-1].Len()
	if len(frag) == 1 {
		caretOffset += r.StartOffset
	}
	return out, AbsolutePosition(out, caretBlock, caretOffset)
}

// sliceContent returns the fragments of content within [from,to), keeping
// each fragment's original marks.
func sliceContent(content []doc.TextNode, from, to int) []doc.TextNode {
	var out []doc.TextNode
	pos := 0
	for _, n := range content {
		length := utf8.RuneCountInString(n.Text)
		nodeStart, nodeEnd := pos, pos+length
		pos = nodeEnd

		s, e := max(nodeStart, from), min(nodeEnd, to)
		if s >= e {
			continue
		}
		if s == nodeStart && e == nodeEnd {
			out = append(out, n)
			continue
		}
		runes := []rune(n.Text)
		out = append(out, doc.TextNode{Text: string(runes[s-nodeStart : e-nodeStart]), Marks: n.Marks})
	}
	return out
}

func makeBlock(content []doc.TextNode) doc.Block {
	if len(content) == 0 {
		return doc.EmptyBlock()
	}
	return doc.Block{Type: doc.ParagraphType, Content: doc.NormalizeBlock(content)}
}

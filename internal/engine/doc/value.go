package doc

import (
	"strings"
	"unicode/utf8"
)

// ParagraphType is the only block type.
const ParagraphType = "paragraph"

// TextNode is a run of text sharing one mark set.
type TextNode struct {
	Text  string
	Marks Marks
}

// Len returns the length of the node in runes.
func (n TextNode) Len() int { return utf8.RuneCountInString(n.Text) }

// Block is a paragraph-level unit of the document.
type Block struct {
	Type    string
	Content []TextNode
}

// Len returns the sum of the node lengths in runes.
func (b Block) Len() int {
	total := 0
	for _, n := range b.Content {
		total += n.Len()
	}
	return total
}

// Text returns the concatenated text of the block.
func (b Block) Text() string {
	if len(b.Content) == 1 {
		return b.Content[0].Text
	}
	var sb strings.Builder
	for _, n := range b.Content {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the block holds no text.
func (b Block) IsEmpty() bool {
	for _, n := range b.Content {
		if n.Text != "" {
			return false
		}
	}
	return true
}

// Value is a complete document.
type Value []Block

// EmptyBlock returns a blank line: a single unmarked node with no text.
func EmptyBlock() Block {
	return Block{Type: ParagraphType, Content: []TextNode{{}}}
}

// Empty returns a document holding one blank line.
func Empty() Value {
	return Value{EmptyBlock()}
}

// NewBlock returns a paragraph holding the given nodes.
func NewBlock(nodes ...TextNode) Block {
	if len(nodes) == 0 {
		return EmptyBlock()
	}
	return Block{Type: ParagraphType, Content: nodes}
}

// FromPlainText creates a document with one block per line.
func FromPlainText(s string) Value {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make(Value, len(lines))
	for i, line := range lines {
		out[i] = Block{Type: ParagraphType, Content: []TextNode{{Text: line}}}
	}
	return out
}

// Len returns the absolute length of the document, counting one separator
// between consecutive blocks.
func (v Value) Len() int {
	if len(v) == 0 {
		return 0
	}
	total := len(v) - 1
	for _, b := range v {
		total += b.Len()
	}
	return total
}

// PlainText returns the document text with blocks joined by newlines.
func (v Value) PlainText() string {
	parts := make([]string, len(v))
	for i, b := range v {
		parts[i] = b.Text()
	}
	return strings.Join(parts, "\n")
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	for i, b := range v {
		content := make([]TextNode, len(b.Content))
		for j, n := range b.Content {
			content[j] = TextNode{Text: n.Text, Marks: n.Marks.Clone()}
		}
		out[i] = Block{Type: b.Type, Content: content}
	}
	return out
}

// Equal reports deep equality of two documents.
func (v Value) Equal(o Value) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Equal reports deep equality of two blocks.
func (b Block) Equal(o Block) bool {
	if b.Type != o.Type || len(b.Content) != len(o.Content) {
		return false
	}
	for i := range b.Content {
		if b.Content[i].Text != o.Content[i].Text || !b.Content[i].Marks.Equal(o.Content[i].Marks) {
			return false
		}
	}
	return true
}

package doc

// NormalizeBlock merges consecutive nodes whose marks are equal. Order is
// preserved. Inputs with fewer than two nodes are returned unchanged.
func NormalizeBlock(content []TextNode) []TextNode {
	if len(content) < 2 {
		return content
	}

	out := make([]TextNode, 0, len(content))
	out = append(out, content[0])
	for _, n := range content[1:] {
		last := &out[len(out)-1]
		if last.Marks.Equal(n.Marks) {
			last.Text += n.Text
			continue
		}
		out = append(out, n)
	}
	return out
}

// Normalize applies NormalizeBlock to every block. The block count and
// order are preserved, and so is every block that needed no merging.
func Normalize(v Value) Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	for i, b := range v {
		content := NormalizeBlock(b.Content)
		typ := b.Type
		if typ == "" {
			typ = ParagraphType
		}
		out[i] = Block{Type: typ, Content: content}
	}
	return out
}

// IsNormalized reports whether no block holds two adjacent nodes with equal
// marks.
func IsNormalized(v Value) bool {
	for _, b := range v {
		for i := 1; i < len(b.Content); i++ {
			if b.Content[i-1].Marks.Equal(b.Content[i].Marks) {
				return false
			}
		}
	}
	return true
}

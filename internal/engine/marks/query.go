package marks

import (
	"unicode/utf8"

	"github.com/dshills/rte/internal/engine/doc"
)

// Query is the result of inspecting the marks of a range.
type Query struct {
	// Marks holds every key all overlapping nodes agree on, plus boolean keys
	// that are mixed but on somewhere.
	Marks doc.Marks
	// Mixed holds the keys whose value differs across the range or that are
	// only set on some of the nodes.
	Mixed map[string]bool
}

// IsMixed reports whether key is in a mixed state across the range.
func (q Query) IsMixed(key string) bool { return q.Mixed[key] }

// emptyQuery returns a query with no marks and no mixed keys.
func emptyQuery() Query {
	return Query{Marks: doc.Marks{}, Mixed: map[string]bool{}}
}

// InRange collects the marks of every node that overlaps r and reports which
// keys are consistent and which are mixed. A collapsed range yields an empty
// query.
func InRange(v doc.Value, r Range) Query {
	if len(v) == 0 {
		return emptyQuery()
	}
	r = clampRange(v, r)
	if r.Collapsed() {
		return emptyQuery()
	}

	var collected []doc.Marks
	for i := r.StartBlock; i <= r.EndBlock; i++ {
		start, end := blockSpan(v, r, i)
		pos := 0
		for _, n := range v[i].Content {
			length := utf8.RuneCountInString(n.Text)
			nodeStart, nodeEnd := pos, pos+length
			pos = nodeEnd
			if nodeStart < end && nodeEnd > start {
				collected = append(collected, n.Marks)
			}
		}
	}
	return summarize(collected)
}

// summarize folds the collected mark sets into a Query.
func summarize(collected []doc.Marks) Query {
	q := emptyQuery()
	if len(collected) == 0 {
		return q
	}

	keys := make(map[string]struct{})
	for _, m := range collected {
		for k := range m {
			keys[k] = struct{}{}
		}
	}

	for key := range keys {
		first, consistent := collected[0].Get(key)
		anyBool := false
		for _, m := range collected {
			v, ok := m.Get(key)
			if ok && v.Kind() == doc.KindBool {
				anyBool = true
			}
			if consistent && (!ok || !v.Equal(first)) {
				consistent = false
			}
		}
		if consistent {
			q.Marks[key] = first
			continue
		}
		// A mixed flag is reported on so toggling clears it everywhere.
		q.Mixed[key] = true
		if anyBool {
			q.Marks[key] = doc.Bool(true)
		}
	}
	return q
}

// MarksAt returns the marks a caret at block/offset types with: those of the
// character before the caret, or of the first character when the caret sits
// at the start of the block.
func MarksAt(v doc.Value, block, offset int) doc.Marks {
	if block < 0 || block >= len(v) {
		return nil
	}
	content := v[block].Content
	pos := 0
	for i, n := range content {
		length := utf8.RuneCountInString(n.Text)
		if offset > pos && offset <= pos+length {
			return n.Marks
		}
		if offset <= 0 && i == 0 {
			return n.Marks
		}
		pos += length
	}
	if len(content) > 0 {
		return content[len(content)-1].Marks
	}
	return nil
}

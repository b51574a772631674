package terminal

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
)

// Cell is one grapheme cluster placed on screen.
type Cell struct {
	// Cluster is the text drawn in the cell.
	Cluster string
	// Width is the number of columns the cluster occupies.
	Width int
	// Style is the terminal style of the cluster.
	Style tcell.Style
	// Offset is the absolute document offset of the cluster's first
	// character, or -1 for padding inserted by letter spacing.
	Offset int
}

// Line is one screen row.
type Line []Cell

// Width returns the number of columns the line occupies.
func (l Line) Width() int {
	w := 0
	for _, c := range l {
		w += c.Width
	}
	return w
}

// String returns the line's text.
func (l Line) String() string {
	var sb strings.Builder
	for _, c := range l {
		sb.WriteString(c.Cluster)
	}
	return sb.String()
}

// Layout breaks v into screen rows at most width columns wide. Each block
// starts a new row; long blocks wrap at cluster boundaries. width <= 0
// disables wrapping.
func Layout(v doc.Value, width int) []Line {
	var lines []Line
	abs := 0
	for _, b := range v {
		var line Line
		emit := func(c Cell) {
			if width > 0 && len(line) > 0 && line.Width()+c.Width > width {
				lines = append(lines, line)
				line = nil
			}
			line = append(line, c)
		}

		for _, n := range b.Content {
			style := Style(n.Marks)
			wide := isWide(n.Marks)
			shown := Transform(n.Text, n.Marks)

			// Offsets follow the source clusters unless the transform
			// changed how many there are.
			exact := uniseg.GraphemeClusterCount(shown) == uniseg.GraphemeClusterCount(n.Text)
			src, srcState := n.Text, -1
			offset := abs

			rest, state := shown, -1
			for rest != "" {
				var cluster string
				var w int
				cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
				if w == 0 {
					w = 1
				}
				emit(Cell{Cluster: cluster, Width: w, Style: style, Offset: offset})
				if wide {
					emit(Cell{Cluster: " ", Width: 1, Style: style, Offset: -1})
				}
				if exact {
					var srcCluster string
					srcCluster, src, _, srcState = uniseg.FirstGraphemeClusterInString(src, srcState)
					offset += utf8.RuneCountInString(srcCluster)
				}
			}
			abs += n.Len()
		}
		lines = append(lines, line)
		abs++ // block separator
	}
	return lines
}

// Transform applies the textTransform mark to s.
func Transform(s string, m doc.Marks) string {
	t, ok := m.Str(doc.TextTransform)
	if !ok {
		return s
	}
	switch t {
	case "uppercase":
		return cases.Upper(language.Und).String(s)
	case "lowercase":
		return cases.Lower(language.Und).String(s)
	case "capitalize":
		return cases.Title(language.Und, cases.NoLower).String(s)
	default:
		return s
	}
}

func isWide(m doc.Marks) bool {
	s, ok := m.Str(doc.LetterSpacing)
	return ok && s == plugin.SpacingWide
}

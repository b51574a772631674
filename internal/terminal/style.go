// Package terminal renders documents on a character terminal.
//
// Marks map onto terminal attributes where one exists: weights from 600
// are bold, colors are converted to true color, textTransform rewrites the
// text, and wide letter spacing inserts a blank cell after each character.
// Marks with no terminal equivalent, such as fontSize, are ignored.
package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
)

// boldWeight is the lowest numeric weight drawn bold.
const boldWeight = 600

// Style converts the marks of a text node to a terminal style.
func Style(m doc.Marks) tcell.Style {
	style := tcell.StyleDefault

	if c, ok := convertColor(m, doc.Color); ok {
		style = style.Foreground(c)
	}
	if c, ok := convertColor(m, doc.BackgroundColor); ok {
		style = style.Background(c)
	}

	if isBold(m) {
		style = style.Bold(true)
	}
	if m.Truthy(doc.Italic) {
		style = style.Italic(true)
	}
	if m.Truthy(doc.Underline) {
		style = style.Underline(true)
	}
	if m.Truthy(doc.Strikethrough) {
		style = style.StrikeThrough(true)
	}
	if m.Truthy(doc.Subscript) || m.Truthy(doc.Superscript) {
		style = style.Dim(true)
	}

	return style
}

func isBold(m doc.Marks) bool {
	if w, ok := m.Number(doc.FontWeight); ok {
		return w >= boldWeight
	}
	return m.Bool(doc.Bold)
}

// convertColor reads a color mark as a true-color terminal color.
func convertColor(m doc.Marks, key string) (tcell.Color, bool) {
	s, ok := m.Str(key)
	if !ok || s == "" {
		return tcell.ColorDefault, false
	}
	c, err := colorful.Hex(plugin.NormalizeColor(s))
	if err != nil {
		// Named colors
		named := tcell.GetColor(s)
		return named, named != tcell.ColorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), true
}

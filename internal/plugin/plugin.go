package plugin

import (
	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/engine/marks"
)

// Type describes the kind of value a mark holds. Toolbars use it to pick a
// control.
type Type int

const (
	// TypeBoolean is an on/off flag.
	TypeBoolean Type = iota
	// TypeColor is a color string.
	TypeColor
	// TypeSelect is one of a fixed set of options.
	TypeSelect
	// TypeNumber is a numeric value.
	TypeNumber
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeColor:
		return "color"
	case TypeSelect:
		return "select"
	case TypeNumber:
		return "number"
	default:
		return "unknown"
	}
}

// ParseType parses a type name. Unknown names map to TypeBoolean.
func ParseType(s string) (Type, bool) {
	switch s {
	case "boolean", "bool":
		return TypeBoolean, true
	case "color":
		return TypeColor, true
	case "select":
		return TypeSelect, true
	case "number":
		return TypeNumber, true
	default:
		return TypeBoolean, false
	}
}

// Context is the editing surface a plugin acts on. The session implements it.
type Context interface {
	// ApplyMarks merges m over the current selection.
	ApplyMarks(m doc.Marks)
	// RemoveMark deletes one mark key from the current selection.
	RemoveMark(name string)
	// ActiveMarks reports the marks of the current selection.
	ActiveMarks() marks.Query
}

// Element is a parsed HTML element as seen by ParseHTML hooks.
type Element interface {
	// Tag returns the upper-case tag name, e.g. "STRONG".
	Tag() string
	// Attr returns an attribute value, or "" when absent.
	Attr(name string) string
	// InlineStyle returns a declaration from the element's own style
	// attribute, or "" when absent.
	InlineStyle(prop string) string
	// ComputedStyle resolves a property from the inline style, the tag's
	// default presentation, and the parent chain, in that order.
	ComputedStyle(prop string) string
}

// Plugin defines one mark. Every hook is optional.
type Plugin struct {
	// Name is the mark key the plugin owns.
	Name string
	// Type selects the toolbar control.
	Type Type
	// Structural plugins change layout (superscript, subscript) and wrap
	// outside decorative ones when rendered.
	Structural bool
	// Options lists the allowed values of a select mark.
	Options []string
	// KeyboardShortcut is a hint for hosts, e.g. "mod+b".
	KeyboardShortcut string

	// Apply changes the selection. When nil, booleans are set or removed
	// and other values are merged in.
	Apply func(ctx Context, value doc.MarkValue)
	// IsActive reports whether the mark is on for the selection. When nil
	// the mark is active if the selection reports it truthy.
	IsActive func(ctx Context) bool
	// ParseHTML extracts marks from an element. inherited holds the marks
	// accumulated from ancestors. A false boolean clears an inherited flag.
	ParseHTML func(el Element, inherited doc.Marks) doc.Marks
	// GetStyles contributes CSS declarations for a node carrying the mark.
	GetStyles func(m doc.Marks) Styles
	// Render wraps already rendered HTML content.
	Render func(content string, m doc.Marks) string
}

// ApplyTo runs the plugin's Apply hook or the default behaviour.
func (p Plugin) ApplyTo(ctx Context, value doc.MarkValue) {
	if p.Apply != nil {
		p.Apply(ctx, value)
		return
	}
	defaultApply(p.Name, ctx, value)
}

// Active runs the plugin's IsActive hook or the default query.
func (p Plugin) Active(ctx Context) bool {
	if p.IsActive != nil {
		return p.IsActive(ctx)
	}
	return ctx.ActiveMarks().Marks.Truthy(p.Name)
}

func defaultApply(name string, ctx Context, value doc.MarkValue) {
	if b, ok := value.AsBool(); ok && !b {
		ctx.RemoveMark(name)
		return
	}
	ctx.ApplyMarks(doc.Marks{name: value})
}

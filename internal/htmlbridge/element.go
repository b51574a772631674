package htmlbridge

import (
	"strings"

	"github.com/dshills/rte/internal/plugin"
	"golang.org/x/net/html"
)

// tagDefaults is the user-agent presentation of inline formatting tags.
var tagDefaults = map[string]plugin.Styles{
	"STRONG": {{Property: "font-weight", Value: "700"}},
	"B":      {{Property: "font-weight", Value: "700"}},
	"EM":     {{Property: "font-style", Value: "italic"}},
	"I":      {{Property: "font-style", Value: "italic"}},
	"U":      {{Property: "text-decoration", Value: "underline"}},
	"S":      {{Property: "text-decoration", Value: "line-through"}},
	"STRIKE": {{Property: "text-decoration", Value: "line-through"}},
	"DEL":    {{Property: "text-decoration", Value: "line-through"}},
	"SUP":    {{Property: "vertical-align", Value: "super"}},
	"SUB":    {{Property: "vertical-align", Value: "sub"}},
}

// element adapts an *html.Node to plugin.Element. Computed styles resolve
// from the inline style, then the tag's defaults, then the parent.
type element struct {
	node   *html.Node
	parent *element
	tag    string
	inline plugin.Styles
}

func newElement(n *html.Node, parent *element) *element {
	el := &element{
		node:   n,
		parent: parent,
		tag:    strings.ToUpper(n.Data),
	}
	if style := el.Attr("style"); style != "" {
		el.inline = plugin.ParseStyleAttr(style)
	}
	return el
}

func (e *element) Tag() string { return e.tag }

func (e *element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (e *element) InlineStyle(prop string) string {
	v, _ := e.inline.Get(strings.ToLower(prop))
	return v
}

func (e *element) ComputedStyle(prop string) string {
	prop = strings.ToLower(prop)
	for el := e; el != nil; el = el.parent {
		if v, ok := el.inline.Get(prop); ok && !strings.EqualFold(v, "inherit") {
			return v
		}
		if v, ok := tagDefaults[el.tag].Get(prop); ok {
			return v
		}
	}
	return ""
}

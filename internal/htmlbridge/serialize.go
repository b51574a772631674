package htmlbridge

import (
	"strings"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
	"golang.org/x/net/html"
)

// Serialize renders v as HTML. Each block becomes a <div>; an empty block
// renders as <div><br></div>. With inline set, block contents are joined by
// a single space and no block wrappers are emitted.
func (b *Bridge) Serialize(v doc.Value, inline bool) string {
	plugins := b.reg.Plugins()

	var sb strings.Builder
	for i, blk := range v {
		if inline {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeBlockContent(&sb, plugins, blk)
			continue
		}
		sb.WriteString("<div>")
		if blk.IsEmpty() {
			sb.WriteString("<br>")
		} else {
			writeBlockContent(&sb, plugins, blk)
		}
		sb.WriteString("</div>")
	}
	return sb.String()
}

func writeBlockContent(sb *strings.Builder, plugins []plugin.Plugin, blk doc.Block) {
	for _, n := range blk.Content {
		if n.Text == "" {
			continue
		}
		sb.WriteString(SerializeNode(plugins, n))
	}
}

// SerializeNode renders one text node. Render hooks of decorative plugins
// wrap the escaped text first, in registry order, so the first registered is
// innermost; structural plugins wrap outside them. A <span> carrying the
// merged styles of all contributing plugins wraps the result.
func SerializeNode(plugins []plugin.Plugin, n doc.TextNode) string {
	content := html.EscapeString(n.Text)
	if n.Marks.IsEmpty() {
		return content
	}

	var styles plugin.Styles
	var structural []plugin.Plugin
	for _, p := range plugins {
		if !n.Marks.Truthy(p.Name) {
			continue
		}
		if p.GetStyles != nil {
			styles = styles.Merge(p.GetStyles(n.Marks))
		}
		if p.Render == nil {
			continue
		}
		if p.Structural {
			structural = append(structural, p)
			continue
		}
		content = p.Render(content, n.Marks)
	}
	for _, p := range structural {
		content = p.Render(content, n.Marks)
	}

	if len(styles) == 0 {
		return content
	}
	return `<span style="` + html.EscapeString(styles.String()) + `">` + content + "</span>"
}

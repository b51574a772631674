package htmlbridge

import (
	"strings"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
	"github.com/dshills/rte/internal/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skippedTags have contents that never become document text.
var skippedTags = map[string]bool{
	"SCRIPT":   true,
	"STYLE":    true,
	"HEAD":     true,
	"TEMPLATE": true,
	"NOSCRIPT": true,
	"TITLE":    true,
}

// blockTags flush the pending run before and after their contents.
var blockTags = map[string]bool{
	"DIV": true,
	"P":   true,
}

// Parse converts an HTML fragment to a document. Parse is total: malformed
// input yields whatever could be recovered, and a result without blocks is
// a single empty paragraph.
func (b *Bridge) Parse(src string) (v doc.Value) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("parse panic: %v", r)
			v = doc.Empty()
		}
	}()

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		b.log.Warn("parse fragment: %v", err)
		return doc.Empty()
	}

	p := &parser{plugins: b.reg.Plugins(), log: b.log}
	for _, n := range nodes {
		p.walk(n, nil, nil)
	}
	p.flush()

	if len(p.blocks) == 0 {
		return doc.Empty()
	}
	b.log.Debug("parsed %d blocks", len(p.blocks))
	return p.blocks
}

type parser struct {
	plugins []plugin.Plugin
	log     *logging.Logger
	blocks  []doc.Block
	run     []doc.TextNode
}

func (p *parser) flush() {
	if len(p.run) == 0 {
		return
	}
	p.blocks = append(p.blocks, doc.Block{
		Type:    doc.ParagraphType,
		Content: doc.NormalizeBlock(p.run),
	})
	p.run = nil
}

func (p *parser) walk(n *html.Node, parent *element, inherited doc.Marks) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, inherited)
	case html.ElementNode:
		p.element(n, parent, inherited)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, parent, inherited)
		}
	}
}

func (p *parser) text(s string, inherited doc.Marks) {
	if s == "" {
		return
	}
	if strings.TrimSpace(s) == "" && strings.ContainsAny(s, "\r\n") {
		return
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	p.run = append(p.run, doc.TextNode{Text: s, Marks: settled(inherited)})
}

func (p *parser) element(n *html.Node, parent *element, inherited doc.Marks) {
	tag := strings.ToUpper(n.Data)
	if skippedTags[tag] {
		return
	}
	if tag == "BR" {
		if len(p.run) > 0 {
			p.flush()
		} else {
			p.blocks = append(p.blocks, doc.EmptyBlock())
		}
		return
	}

	el := newElement(n, parent)
	m := inherited
	for _, pl := range p.plugins {
		if pl.ParseHTML == nil {
			continue
		}
		m = m.Merge(p.parseHook(pl, el, inherited))
	}

	block := blockTags[tag]
	if block {
		p.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, el, m)
	}
	if block {
		p.flush()
	}
}

// parseHook runs one plugin's ParseHTML. A panicking hook contributes
// nothing.
func (p *parser) parseHook(pl plugin.Plugin, el *element, inherited doc.Marks) (m doc.Marks) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("plugin %s parse panic: %v", pl.Name, r)
			m = nil
		}
	}()
	return pl.ParseHTML(el, inherited)
}

// settled drops false flags. They only exist to cancel an inherited mark
// and are never stored.
func settled(m doc.Marks) doc.Marks {
	out := m
	for k, v := range m {
		if b, ok := v.AsBool(); ok && !b {
			out = out.Without(k)
		}
	}
	return out
}

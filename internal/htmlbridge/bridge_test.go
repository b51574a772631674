package htmlbridge

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
)

func node(text string, m doc.Marks) doc.TextNode {
	return doc.TextNode{Text: text, Marks: m}
}

func TestSerialize(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	tests := []struct {
		name   string
		value  doc.Value
		inline bool
		want   string
	}{
		{
			name:  "style span outside decorative wrapper",
			value: doc.Value{doc.NewBlock(node("Hi", doc.Marks{doc.Italic: doc.Bool(true), doc.Color: doc.String("#ff0000")}))},
			want:  `<div><span style="color:#ff0000"><em>Hi</em></span></div>`,
		},
		{
			name:  "structural outside decorative",
			value: doc.Value{doc.NewBlock(node("Hi", doc.Marks{doc.Bold: doc.Bool(true), doc.Superscript: doc.Bool(true)}))},
			want:  `<div><sup><strong>Hi</strong></sup></div>`,
		},
		{
			name:  "decorative in registry order",
			value: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.Underline: doc.Bool(true), doc.Bold: doc.Bool(true), doc.Italic: doc.Bool(true)}))},
			want:  `<div><u><em><strong>x</strong></em></u></div>`,
		},
		{
			name:  "styles merged in registry order",
			value: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.FontSize: doc.Number(14), doc.Color: doc.String("rgb(0, 0, 255)")}))},
			want:  `<div><span style="color:#0000ff;font-size:14px">x</span></div>`,
		},
		{
			name:  "false flag renders nothing",
			value: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.Bold: doc.Bool(false)}))},
			want:  `<div>x</div>`,
		},
		{
			name:  "empty block",
			value: doc.Value{doc.NewBlock(node("a", nil)), doc.EmptyBlock()},
			want:  `<div>a</div><div><br></div>`,
		},
		{
			name:  "escaping",
			value: doc.Value{doc.NewBlock(node(`<b> & "q"`, nil))},
			want:  `<div>&lt;b&gt; &amp; &#34;q&#34;</div>`,
		},
		{
			name:   "inline",
			value:  doc.Value{doc.NewBlock(node("a", doc.Marks{doc.Bold: doc.Bool(true)})), doc.EmptyBlock(), doc.NewBlock(node("b", nil))},
			inline: true,
			want:   `<strong>a</strong>  b`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(reg, tt.value, tt.inline); got != tt.want {
				t.Errorf("Serialize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	bold := doc.Marks{doc.Bold: doc.Bool(true)}
	tests := []struct {
		name string
		html string
		want doc.Value
	}{
		{
			name: "tag marks",
			html: `<div><strong>Hello</strong> world</div>`,
			want: doc.Value{doc.NewBlock(node("Hello", bold), node(" world", nil))},
		},
		{
			name: "paragraphs",
			html: `<p>a</p><p>b</p>`,
			want: doc.Value{doc.NewBlock(node("a", nil)), doc.NewBlock(node("b", nil))},
		},
		{
			name: "br flushes pending run",
			html: `<div>a<br>b</div>`,
			want: doc.Value{doc.NewBlock(node("a", nil)), doc.NewBlock(node("b", nil))},
		},
		{
			name: "br alone is an empty block",
			html: `<div>a</div><div><br></div><div>b</div>`,
			want: doc.Value{doc.NewBlock(node("a", nil)), doc.EmptyBlock(), doc.NewBlock(node("b", nil))},
		},
		{
			name: "child cancels inherited bold",
			html: `<b>x<span style="font-weight: normal">y</span></b>`,
			want: doc.Value{doc.NewBlock(node("x", bold), node("y", nil))},
		},
		{
			name: "numeric weight",
			html: `<strong style="font-weight:300">x</strong>`,
			want: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.FontWeight: doc.Number(300)}))},
		},
		{
			name: "css bold",
			html: `<span style="font-weight: 700">x</span>`,
			want: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.FontWeight: doc.Number(700)}))},
		},
		{
			name: "rgb color normalized",
			html: `<span style="color: rgb(255, 0, 0)">x</span>`,
			want: doc.Value{doc.NewBlock(node("x", doc.Marks{doc.Color: doc.String("#ff0000")}))},
		},
		{
			name: "layout whitespace skipped",
			html: "<div>a</div>\n   <div>b</div>\n",
			want: doc.Value{doc.NewBlock(node("a", nil)), doc.NewBlock(node("b", nil))},
		},
		{
			name: "script and style ignored",
			html: `<style>p{color:red}</style><div>a<script>alert(1)</script></div>`,
			want: doc.Value{doc.NewBlock(node("a", nil))},
		},
		{
			name: "unknown tags are transparent",
			html: `<section><article>a <mark>b</mark></article></section>`,
			want: doc.Value{doc.NewBlock(node("a b", nil))},
		},
		{
			name: "superscript clears subscript",
			html: `<sub>a<sup>b</sup></sub>`,
			want: doc.Value{doc.NewBlock(
				node("a", doc.Marks{doc.Subscript: doc.Bool(true)}),
				node("b", doc.Marks{doc.Superscript: doc.Bool(true)}),
			)},
		},
		{
			name: "malformed",
			html: `<div><b>unclosed`,
			want: doc.Value{doc.NewBlock(node("unclosed", bold))},
		},
		{
			name: "empty input",
			html: ``,
			want: doc.Empty(),
		},
		{
			name: "only markup",
			html: `<div></div><span></span>`,
			want: doc.Empty(),
		},
		{
			name: "entities",
			html: `<div>&lt;b&gt; &amp;</div>`,
			want: doc.Value{doc.NewBlock(node("<b> &", nil))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(reg, tt.html)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	rich := doc.Marks{
		doc.Bold:            doc.Bool(true),
		doc.Italic:          doc.Bool(true),
		doc.Underline:       doc.Bool(true),
		doc.Strikethrough:   doc.Bool(true),
		doc.Superscript:     doc.Bool(true),
		doc.Color:           doc.String("#ff0000"),
		doc.BackgroundColor: doc.String("#eeeeee"),
		doc.FontSize:        doc.Number(20),
		doc.FontFamily:      doc.String("Georgia"),
		doc.LetterSpacing:   doc.String("tight"),
		doc.TextTransform:   doc.String("uppercase"),
		doc.LineHeight:      doc.Number(1.5),
	}
	value := doc.Value{
		doc.NewBlock(node("Hi", rich), node(" there", nil)),
		doc.EmptyBlock(),
		doc.NewBlock(node("wide", doc.Marks{doc.LetterSpacing: doc.String("wide"), doc.Subscript: doc.Bool(true)})),
	}

	out := Serialize(reg, value, false)
	got := Parse(reg, out)
	if diff := cmp.Diff(value, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\nhtml: %s", diff, out)
	}
}

func TestCustomPlugin(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	err := reg.Register(plugin.Plugin{
		Name: "highlight",
		Type: plugin.TypeColor,
		ParseHTML: func(el plugin.Element, _ doc.Marks) doc.Marks {
			if el.Tag() == "MARK" {
				return doc.Marks{"highlight": doc.Bool(true)}
			}
			return nil
		},
		Render: func(content string, _ doc.Marks) string {
			return "<mark>" + content + "</mark>"
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	value := doc.Value{doc.NewBlock(node("x", doc.Marks{"highlight": doc.Bool(true), doc.Bold: doc.Bool(true)}))}
	out := Serialize(reg, value, false)
	if !strings.Contains(out, "<mark><strong>x</strong></mark>") {
		t.Errorf("Serialize() = %s", out)
	}
	if diff := cmp.Diff(value, Parse(reg, out)); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecoversFromPluginPanic(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	_ = reg.Register(plugin.Plugin{
		Name: "boom",
		ParseHTML: func(plugin.Element, doc.Marks) doc.Marks {
			panic("bad plugin")
		},
	})
	got := Parse(reg, `<strong>x</strong>`)
	want := doc.Value{doc.NewBlock(doc.TextNode{Text: "x", Marks: doc.Marks{doc.Bold: doc.Bool(true)}})}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFontFamilyWithSemicolon(t *testing.T) {
	got := Parse(plugin.NewDefaultRegistry(), `<span style="font-family: 'A;B', serif">x</span>`)
	family, ok := got[0].Content[0].Marks.Str(doc.FontFamily)
	if !ok || family != "'A;B', serif" {
		t.Errorf("fontFamily = %q, %v; want 'A;B', serif", family, ok)
	}
}

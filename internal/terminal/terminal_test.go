package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
)

func node(text string, m doc.Marks) doc.TextNode {
	return doc.TextNode{Text: text, Marks: m}
}

func TestStyle(t *testing.T) {
	tests := []struct {
		name  string
		marks doc.Marks
		check func(t *testing.T, fg, bg tcell.Color, attrs tcell.AttrMask)
	}{
		{"plain", nil, func(t *testing.T, fg, bg tcell.Color, attrs tcell.AttrMask) {
			assert.Equal(t, tcell.ColorDefault, fg)
			assert.Equal(t, tcell.AttrNone, attrs)
		}},
		{"bold flag", doc.Marks{doc.Bold: doc.Bool(true)}, func(t *testing.T, _, _ tcell.Color, attrs tcell.AttrMask) {
			assert.NotZero(t, attrs&tcell.AttrBold)
		}},
		{"heavy weight", doc.Marks{doc.FontWeight: doc.Number(700)}, func(t *testing.T, _, _ tcell.Color, attrs tcell.AttrMask) {
			assert.NotZero(t, attrs&tcell.AttrBold)
		}},
		{"light weight overrides bold", doc.Marks{doc.FontWeight: doc.Number(300), doc.Bold: doc.Bool(true)}, func(t *testing.T, _, _ tcell.Color, attrs tcell.AttrMask) {
			assert.Zero(t, attrs&tcell.AttrBold)
		}},
		{"italic underline strike", doc.Marks{
			doc.Italic:        doc.Bool(true),
			doc.Underline:     doc.Bool(true),
			doc.Strikethrough: doc.Bool(true),
		}, func(t *testing.T, _, _ tcell.Color, attrs tcell.AttrMask) {
			assert.NotZero(t, attrs&tcell.AttrItalic)
			assert.NotZero(t, attrs&tcell.AttrUnderline)
			assert.NotZero(t, attrs&tcell.AttrStrikeThrough)
		}},
		{"script is dim", doc.Marks{doc.Superscript: doc.Bool(true)}, func(t *testing.T, _, _ tcell.Color, attrs tcell.AttrMask) {
			assert.NotZero(t, attrs&tcell.AttrDim)
		}},
		{"hex colors", doc.Marks{
			doc.Color:           doc.String("#ff0000"),
			doc.BackgroundColor: doc.String("#00f"),
		}, func(t *testing.T, fg, bg tcell.Color, _ tcell.AttrMask) {
			assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
			assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)
		}},
		{"named color", doc.Marks{doc.Color: doc.String("red")}, func(t *testing.T, fg, _ tcell.Color, _ tcell.AttrMask) {
			assert.Equal(t, tcell.GetColor("red"), fg)
		}},
		{"unknown color", doc.Marks{doc.Color: doc.String("not-a-color")}, func(t *testing.T, fg, _ tcell.Color, _ tcell.AttrMask) {
			assert.Equal(t, tcell.ColorDefault, fg)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg, bg, attrs := Style(tt.marks).Decompose()
			tt.check(t, fg, bg, attrs)
		})
	}
}

func TestTransform(t *testing.T) {
	tests := []struct {
		value string
		in    string
		want  string
	}{
		{"uppercase", "hello world", "HELLO WORLD"},
		{"lowercase", "Hello World", "hello world"},
		{"capitalize", "hello wORLD", "Hello WORLD"},
		{"none", "Hello", "Hello"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			m := doc.Marks{doc.TextTransform: doc.String(tt.value)}
			assert.Equal(t, tt.want, Transform(tt.in, m))
		})
	}
	assert.Equal(t, "abc", Transform("abc", nil))
}

func TestLayoutBlocksAndOffsets(t *testing.T) {
	v := doc.FromPlainText("ab\ncd")
	lines := Layout(v, 0)
	require.Len(t, lines, 2)
	assert.Equal(t, "ab", lines[0].String())
	assert.Equal(t, "cd", lines[1].String())

	// The block separator occupies offset 2.
	assert.Equal(t, 0, lines[0][0].Offset)
	assert.Equal(t, 1, lines[0][1].Offset)
	assert.Equal(t, 3, lines[1][0].Offset)
	assert.Equal(t, 4, lines[1][1].Offset)
}

func TestLayoutWraps(t *testing.T) {
	lines := Layout(doc.FromPlainText("abcdefg"), 3)
	require.Len(t, lines, 3)
	assert.Equal(t, "abc", lines[0].String())
	assert.Equal(t, "def", lines[1].String())
	assert.Equal(t, "g", lines[2].String())
	assert.Equal(t, 6, lines[2][0].Offset)
}

func TestLayoutEmptyBlock(t *testing.T) {
	lines := Layout(doc.Empty(), 10)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0])
}

func TestLayoutClusters(t *testing.T) {
	family := "\U0001F468\u200d\U0001F469\u200d\U0001F467"
	v := doc.Value{doc.NewBlock(node("a"+family+"b", nil))}
	lines := Layout(v, 0)
	require.Len(t, lines, 1)
	require.Len(t, lines[0], 3)

	assert.Equal(t, family, lines[0][1].Cluster)
	assert.Equal(t, 2, lines[0][1].Width)
	assert.Equal(t, 1, lines[0][1].Offset)
	// The family emoji is five code points.
	assert.Equal(t, 6, lines[0][2].Offset)
}

func TestLayoutWideSpacing(t *testing.T) {
	m := doc.Marks{doc.LetterSpacing: doc.String(plugin.SpacingWide)}
	v := doc.Value{doc.NewBlock(node("ab", m), node("c", nil))}
	line := Layout(v, 0)[0]

	assert.Equal(t, "a b c", line.String())
	assert.Equal(t, 5, line.Width())
	assert.Equal(t, -1, line[1].Offset)
	assert.Equal(t, 1, line[2].Offset)
	assert.Equal(t, 2, line[4].Offset)
}

func TestLayoutTransformedOffsets(t *testing.T) {
	m := doc.Marks{doc.TextTransform: doc.String("uppercase")}
	v := doc.Value{doc.NewBlock(node("ab", m), node("c", nil))}
	line := Layout(v, 0)[0]

	assert.Equal(t, "ABc", line.String())
	assert.Equal(t, []int{0, 1, 2}, []int{line[0].Offset, line[1].Offset, line[2].Offset})
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	return s
}

func TestPreviewDraw(t *testing.T) {
	s := newScreen(t, 10, 4)
	defer s.Fini()

	v := doc.Value{doc.NewBlock(node("hi", doc.Marks{doc.Bold: doc.Bool(true)}))}
	p := NewPreview(s, v, WithTitle("demo"))
	p.Draw()

	mainc, _, style, _ := s.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'h', mainc)
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)

	mainc, _, _, _ = s.GetContent(0, 3) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'd', mainc)
}

func TestPreviewScroll(t *testing.T) {
	s := newScreen(t, 10, 3)
	defer s.Fini()

	p := NewPreview(s, doc.FromPlainText("1\n2\n3\n4\n5"))
	p.Draw()

	// Two body rows, five lines: top may reach 3.
	for i := 0; i < 10; i++ {
		p.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
		p.Draw()
	}
	assert.Equal(t, 3, p.Top())

	mainc, _, _, _ := s.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, '4', mainc)

	p.handleKey(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	p.Draw()
	assert.Equal(t, 0, p.Top())
}

func TestPreviewQuitKeys(t *testing.T) {
	s := newScreen(t, 10, 3)
	defer s.Fini()
	p := NewPreview(s, doc.Empty())

	assert.True(t, p.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, p.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, p.handleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
}

func TestPreviewRunQuits(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	p := NewPreview(s, doc.FromPlainText("hello"))

	errc := make(chan error, 1)
	go func() { errc <- p.Run(context.Background()) }()

	// Events posted before Run initializes the screen are dropped, so keep
	// posting until it returns.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-errc:
			assert.NoError(t, err)
			return
		case <-tick.C:
			_ = s.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
		case <-deadline:
			t.Fatal("Run did not return after Esc")
		}
	}
}

func TestPreviewRunContextCancel(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	p := NewPreview(s, doc.FromPlainText("hello"))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

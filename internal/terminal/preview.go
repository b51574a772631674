package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
)

// Preview shows a document on a terminal screen until the user quits with
// q or Esc. Arrow keys and PgUp/PgDn scroll.
type Preview struct {
	mu sync.Mutex

	screen tcell.Screen
	value  doc.Value
	lines  []Line
	top    int
	title  string
	log    *logging.Logger
}

// PreviewOption configures a Preview.
type PreviewOption func(*Preview)

// WithTitle sets the text shown in the status row.
func WithTitle(title string) PreviewOption {
	return func(p *Preview) {
		p.title = title
	}
}

// WithLogger sets the preview's logger.
func WithLogger(l *logging.Logger) PreviewOption {
	return func(p *Preview) {
		p.log = l
	}
}

// NewPreview creates a preview of v drawn on screen. The screen is
// initialized by Run.
func NewPreview(screen tcell.Screen, v doc.Value, opts ...PreviewOption) *Preview {
	p := &Preview{screen: screen, value: v.Clone(), log: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("terminal")
	return p
}

// SetValue replaces the document and redraws.
func (p *Preview) SetValue(v doc.Value) {
	p.mu.Lock()
	p.value = v.Clone()
	p.mu.Unlock()
	_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run initializes the screen, draws, and handles input until the user
// quits or ctx is done. The screen is finalized on return.
func (p *Preview) Run(ctx context.Context) error {
	if err := p.screen.Init(); err != nil {
		return err
	}
	defer p.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = p.screen.PostEvent(tcell.NewEventInterrupt(ctx))
		case <-done:
		}
	}()

	p.Draw()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			w, h := e.Size()
			p.log.Debug("resize %dx%d", w, h)
			p.screen.Sync()
			p.Draw()
		case *tcell.EventKey:
			if p.handleKey(e) {
				return nil
			}
			p.Draw()
		case *tcell.EventInterrupt:
			if e.Data() == ctx && ctx.Err() != nil {
				return ctx.Err()
			}
			p.Draw()
		}
	}
}

// handleKey applies a key press and reports whether to quit.
func (p *Preview) handleKey(e *tcell.EventKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, height := p.screen.Size()
	page := max(height-2, 1)

	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		if e.Rune() == 'q' {
			return true
		}
	case tcell.KeyUp:
		p.top--
	case tcell.KeyDown:
		p.top++
	case tcell.KeyPgUp:
		p.top -= page
	case tcell.KeyPgDn:
		p.top += page
	case tcell.KeyHome:
		p.top = 0
	}
	return false
}

// Draw lays out the document for the current screen size and shows it.
func (p *Preview) Draw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	width, height := p.screen.Size()
	p.lines = Layout(p.value, width)

	body := max(height-1, 0)
	maxTop := max(len(p.lines)-body, 0)
	p.top = min(max(p.top, 0), maxTop)

	p.screen.Clear()
	for row := 0; row < body && p.top+row < len(p.lines); row++ {
		x := 0
		for _, c := range p.lines[p.top+row] {
			runes := []rune(c.Cluster)
			p.screen.SetContent(x, row, runes[0], runes[1:], c.Style)
			x += c.Width
		}
	}
	if height > 0 {
		p.drawStatus(width, height-1)
	}
	p.screen.Show()
}

func (p *Preview) drawStatus(width, row int) {
	style := tcell.StyleDefault.Reverse(true)
	status := p.title
	if status == "" {
		status = "rte"
	}
	status += "  q: quit"

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		p.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		p.screen.SetContent(x, row, ' ', nil, style)
	}
}

// Top returns the index of the first visible line.
func (p *Preview) Top() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

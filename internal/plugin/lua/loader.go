package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
	"github.com/dshills/rte/internal/plugin"
	lua "github.com/yuin/gopher-lua"
)

// Loader turns Lua scripts into mark plugins. Each script gets its own
// sandboxed State, which stays open until the Loader is closed.
//
// A script declares marks by calling the global mark function:
//
//	mark {
//	    name = "highlight",
//	    type = "color",
//	    styles = function(marks)
//	        return { ["background-color"] = marks.highlight }
//	    end,
//	}
type Loader struct {
	mu     sync.Mutex
	states []*State
	opts   []StateOption
	log    *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for hook failures.
func WithLogger(l *logging.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.log = l
	}
}

// WithStateOptions sets the options for every State the loader creates.
func WithStateOptions(opts ...StateOption) LoaderOption {
	return func(ld *Loader) {
		ld.opts = append(ld.opts, opts...)
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{log: logging.Nop()}
	for _, opt := range opts {
		opt(ld)
	}
	ld.log = ld.log.WithComponent("plugin.lua")
	return ld
}

// LoadString runs a script and returns the marks it declares in order.
func (ld *Loader) LoadString(name, src string) ([]plugin.Plugin, error) {
	st := NewState(ld.opts...)

	var (
		plugins []plugin.Plugin
		declErr error
	)
	st.RegisterFunc("mark", func(L *lua.LState) int {
		t := L.CheckTable(1)
		p, err := ld.declare(st, name, t)
		if err != nil {
			if declErr == nil {
				declErr = err
			}
			return 0
		}
		plugins = append(plugins, p)
		return 0
	})

	if err := st.DoString(name, src); err != nil {
		st.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if declErr != nil {
		st.Close()
		return nil, declErr
	}

	ld.mu.Lock()
	ld.states = append(ld.states, st)
	ld.mu.Unlock()
	return plugins, nil
}

// LoadFile loads one script from disk.
func (ld *Loader) LoadFile(path string) ([]plugin.Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ld.LoadString(filepath.Base(path), string(data))
}

// LoadDir loads every *.lua file in dir in name order and registers the
// marks they declare. A script that fails is logged and skipped; the
// returned error reports only an unreadable directory.
func (ld *Loader) LoadDir(dir string, reg *plugin.Registry) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("load plugins from %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	count := 0
	for _, n := range names {
		plugins, err := ld.LoadFile(filepath.Join(dir, n))
		if err != nil {
			ld.log.Warn("skipping %s: %v", n, err)
			continue
		}
		for _, p := range plugins {
			if err := reg.Register(p); err != nil {
				ld.log.Warn("register %s from %s: %v", p.Name, n, err)
				continue
			}
			count++
		}
	}
	return count, nil
}

// Close closes every state created by the loader. Hooks of loaded plugins
// become no-ops.
func (ld *Loader) Close() error {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	for _, st := range ld.states {
		_ = st.Close()
	}
	ld.states = nil
	return nil
}

// declare builds a plugin from a mark{...} table. It runs inside the
// script's DoString, so it uses the bridge directly.
func (ld *Loader) declare(st *State, script string, t *lua.LTable) (plugin.Plugin, error) {
	b := st.bridge
	name, ok := b.GetTableString(t, "name")
	if !ok || name == "" {
		return plugin.Plugin{}, fmt.Errorf("%w: %s: missing name", ErrInvalidMark, script)
	}
	typ := plugin.TypeBoolean
	if s, ok := b.GetTableString(t, "type"); ok {
		if typ, ok = plugin.ParseType(s); !ok {
			return plugin.Plugin{}, fmt.Errorf("%w: %s: mark %q has unknown type %q", ErrInvalidMark, script, name, s)
		}
	}
	structural, _ := b.GetTableBool(t, "structural")
	shortcut, _ := b.GetTableString(t, "shortcut")

	p := plugin.Plugin{
		Name:             name,
		Type:             typ,
		Structural:       structural,
		Options:          b.GetTableStrings(t, "options"),
		KeyboardShortcut: shortcut,
	}
	log := ld.log.WithField("mark", name)

	if fn, ok := b.GetTableFunc(t, "styles"); ok {
		p.GetStyles = func(m doc.Marks) plugin.Styles {
			var out plugin.Styles
			err := st.Call(fn,
				func(b *Bridge) []lua.LValue { return []lua.LValue{b.MarksToTable(m)} },
				func(b *Bridge, ret lua.LValue) {
					if rt, ok := ret.(*lua.LTable); ok {
						out = b.StylesFromTable(rt)
					}
				})
			if err != nil {
				log.Warn("styles: %v", err)
				return nil
			}
			return out
		}
	}

	if fn, ok := b.GetTableFunc(t, "render"); ok {
		p.Render = func(content string, m doc.Marks) string {
			out := content
			err := st.Call(fn,
				func(b *Bridge) []lua.LValue { return []lua.LValue{lua.LString(content), b.MarksToTable(m)} },
				func(_ *Bridge, ret lua.LValue) {
					if s, ok := ret.(lua.LString); ok {
						out = string(s)
					}
				})
			if err != nil {
				log.Warn("render: %v", err)
				return content
			}
			return out
		}
	}

	if fn, ok := b.GetTableFunc(t, "parse"); ok {
		p.ParseHTML = func(el plugin.Element, inherited doc.Marks) doc.Marks {
			var out doc.Marks
			err := st.Call(fn,
				func(b *Bridge) []lua.LValue { return []lua.LValue{b.ElementToTable(el), b.MarksToTable(inherited)} },
				func(b *Bridge, ret lua.LValue) {
					switch v := ret.(type) {
					case *lua.LTable:
						out = b.MarksFromTable(v)
					case *lua.LNilType:
					default:
						if mv, ok := b.MarkFromLua(v); ok {
							out = doc.Marks{name: mv}
						}
					}
				})
			if err != nil {
				log.Warn("parse: %v", err)
				return nil
			}
			return out
		}
	}

	return p, nil
}

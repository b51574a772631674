package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
	glua "github.com/yuin/gopher-lua"
)

const highlightScript = `
mark {
    name = "highlight",
    type = "color",
    shortcut = "mod+h",
    styles = function(marks)
        return { ["background-color"] = marks.highlight, ["border-radius"] = 2 }
    end,
    parse = function(el, inherited)
        if el.tag == "MARK" then
            return el.attr("data-color")
        end
        return nil
    end,
}

mark {
    name = "smallcaps",
    structural = true,
    render = function(content, marks)
        return "<span class=\"sc\">" .. content .. "</span>"
    end,
}
`

type element struct {
	tag   string
	attrs map[string]string
}

func (e element) Tag() string { return e.tag }

func (e element) Attr(name string) string { return e.attrs[name] }

func (e element) InlineStyle(string) string { return "" }

func (e element) ComputedStyle(string) string { return "" }

func TestLoadString(t *testing.T) {
	ld := NewLoader()
	defer ld.Close()

	plugins, err := ld.LoadString("highlight.lua", highlightScript)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if len(plugins) != 2 {
		t.Fatalf("len(plugins) = %d, want 2", len(plugins))
	}

	hl := plugins[0]
	if hl.Name != "highlight" || hl.Type != plugin.TypeColor || hl.KeyboardShortcut != "mod+h" {
		t.Errorf("highlight = %+v", hl)
	}
	styles := hl.GetStyles(doc.Marks{"highlight": doc.String("#ff0")})
	if got := styles.String(); got != "background-color:#ff0;border-radius:2" {
		t.Errorf("GetStyles() = %q", got)
	}

	got := hl.ParseHTML(element{tag: "MARK", attrs: map[string]string{"data-color": "#0f0"}}, nil)
	if !got.Equal(doc.Marks{"highlight": doc.String("#0f0")}) {
		t.Errorf("ParseHTML(MARK) = %v", got)
	}
	if got := hl.ParseHTML(element{tag: "SPAN"}, nil); got != nil {
		t.Errorf("ParseHTML(SPAN) = %v, want nil", got)
	}

	sc := plugins[1]
	if !sc.Structural || sc.Type != plugin.TypeBoolean {
		t.Errorf("smallcaps = %+v", sc)
	}
	if got := sc.Render("Hi", nil); got != `<span class="sc">Hi</span>` {
		t.Errorf("Render() = %q", got)
	}
}

func TestLoadStringErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{"syntax", `mark {`, false},
		{"runtime", `error("boom")`, false},
		{"missing name", `mark { type = "color" }`, true},
		{"bad type", `mark { name = "x", type = "matrix" }`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ld := NewLoader()
			defer ld.Close()
			_, err := ld.LoadString(tt.name, tt.src)
			if err == nil {
				t.Fatal("LoadString() error = nil")
			}
			if tt.invalid != errors.Is(err, ErrInvalidMark) {
				t.Errorf("errors.Is(err, ErrInvalidMark) = %v, err = %v", !tt.invalid, err)
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	st := NewState()
	defer st.Close()

	for _, src := range []string{
		`dofile("/etc/passwd")`,
		`require("os")`,
		`io.open("/etc/passwd")`,
		`os.exit(1)`,
	} {
		if err := st.DoString("probe", src); err == nil {
			t.Errorf("DoString(%q) error = nil", src)
		}
	}
	if err := st.DoString("ok", `x = string.upper("a") .. math.floor(1.5)`); err != nil {
		t.Errorf("DoString() error = %v", err)
	}
	if got := st.GetGlobal("x"); got.String() != "A1" {
		t.Errorf("x = %v, want A1", got)
	}
}

func TestExecutionTimeout(t *testing.T) {
	ld := NewLoader(WithStateOptions(WithExecutionTimeout(20 * time.Millisecond)))
	defer ld.Close()

	plugins, err := ld.LoadString("spin.lua", `
mark {
    name = "spin",
    render = function(content) while true do end end,
}`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if got := plugins[0].Render("x", nil); got != "x" {
		t.Errorf("Render() = %q, want content unchanged", got)
	}
}

func TestClosedStateHooks(t *testing.T) {
	ld := NewLoader()
	plugins, err := ld.LoadString("hl.lua", highlightScript)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	ld.Close()

	if got := plugins[0].GetStyles(doc.Marks{"highlight": doc.String("#ff0")}); got != nil {
		t.Errorf("GetStyles() after Close = %v, want nil", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.lua", highlightScript)
	write("b.lua", `mark {`)
	write("c.lua", `mark { name = "bold", type = "boolean" }`)
	write("notes.txt", `mark { name = "ignored" }`)

	reg := plugin.NewDefaultRegistry()
	builtins := reg.Len()

	ld := NewLoader()
	defer ld.Close()
	n, err := ld.LoadDir(dir, reg)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if n != 3 {
		t.Errorf("LoadDir() = %d, want 3", n)
	}
	if reg.Len() != builtins+2 {
		t.Errorf("Len() = %d, want %d", reg.Len(), builtins+2)
	}
	if reg.Names()[0] != doc.Bold {
		t.Errorf("bold moved: %v", reg.Names())
	}
	if reg.Has("ignored") {
		t.Error("non-lua file was loaded")
	}

	if _, err := ld.LoadDir(filepath.Join(dir, "missing"), reg); err == nil {
		t.Error("LoadDir(missing) error = nil")
	}
}

func TestBridgeMarks(t *testing.T) {
	st := NewState()
	defer st.Close()
	b := NewBridge(st.L)

	in := doc.Marks{
		"bold":     doc.Bool(true),
		"fontSize": doc.Number(12),
		"color":    doc.String("#fff"),
		"family":   doc.Inherit(),
	}
	tbl := b.MarksToTable(in)
	tbl.RawSetString("nested", st.L.NewTable())
	tbl.RawSetInt(1, glua.LString("positional"))

	if got := b.MarksFromTable(tbl); !got.Equal(in) {
		t.Errorf("MarksFromTable() = %v, want %v", got, in)
	}
	if got := b.MarksFromTable(st.L.NewTable()); got != nil {
		t.Errorf("MarksFromTable(empty) = %v, want nil", got)
	}
}

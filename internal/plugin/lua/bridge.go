package lua

import (
	"sort"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
	lua "github.com/yuin/gopher-lua"
)

// Bridge converts between editor values and Lua values.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// MarkToLua converts a mark value. inherit becomes the string "inherit".
func (b *Bridge) MarkToLua(v doc.MarkValue) lua.LValue {
	switch v.Kind() {
	case doc.KindBool:
		bv, _ := v.AsBool()
		return lua.LBool(bv)
	case doc.KindNumber:
		n, _ := v.AsNumber()
		return lua.LNumber(n)
	case doc.KindString:
		s, _ := v.AsString()
		return lua.LString(s)
	case doc.KindInherit:
		return lua.LString(doc.InheritKeyword)
	default:
		return lua.LNil
	}
}

// MarkFromLua converts a Lua value to a mark value. Tables, functions and nil
// have no mark form.
func (b *Bridge) MarkFromLua(lv lua.LValue) (doc.MarkValue, bool) {
	switch v := lv.(type) {
	case lua.LBool:
		return doc.Bool(bool(v)), true
	case lua.LNumber:
		return doc.Number(float64(v)), true
	case lua.LString:
		if string(v) == doc.InheritKeyword {
			return doc.Inherit(), true
		}
		return doc.String(string(v)), true
	default:
		return doc.MarkValue{}, false
	}
}

// MarksToTable converts a marks map to a Lua table keyed by mark name.
func (b *Bridge) MarksToTable(m doc.Marks) *lua.LTable {
	t := b.L.NewTable()
	for k, v := range m {
		t.RawSetString(k, b.MarkToLua(v))
	}
	return t
}

// MarksFromTable reads string-keyed entries of t as marks. Other entries are
// ignored. A nil or empty table gives nil marks.
func (b *Bridge) MarksFromTable(t *lua.LTable) doc.Marks {
	if t == nil {
		return nil
	}
	var out doc.Marks
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		mv, ok := b.MarkFromLua(v)
		if !ok {
			return
		}
		out = out.With(string(key), mv)
	})
	return out
}

// StylesFromTable reads a {property = value} table as CSS declarations
// sorted by property name. Number values are formatted without a unit.
func (b *Bridge) StylesFromTable(t *lua.LTable) plugin.Styles {
	if t == nil {
		return nil
	}
	decls := make(map[string]string)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch v.(type) {
		case lua.LString, lua.LNumber:
			decls[string(key)] = v.String()
		}
	})
	props := make([]string, 0, len(decls))
	for p := range decls {
		props = append(props, p)
	}
	sort.Strings(props)

	var out plugin.Styles
	for _, p := range props {
		out = out.Set(p, decls[p])
	}
	return out
}

// ElementToTable exposes el to Lua as a table with a tag field and the
// functions attr(name), style(prop) and computed(prop).
func (b *Bridge) ElementToTable(el plugin.Element) *lua.LTable {
	t := b.L.NewTable()
	t.RawSetString("tag", lua.LString(el.Tag()))
	t.RawSetString("attr", b.L.NewFunction(stringFunc(el.Attr)))
	t.RawSetString("style", b.L.NewFunction(stringFunc(el.InlineStyle)))
	t.RawSetString("computed", b.L.NewFunction(stringFunc(el.ComputedStyle)))
	return t
}

// stringFunc adapts a string lookup. The lookup key is the last argument so
// both el.style("x") and el:style("x") work.
func stringFunc(fn func(string) string) lua.LGFunction {
	return func(L *lua.LState) int {
		key := L.CheckString(L.GetTop())
		L.Push(lua.LString(fn(key)))
		return 1
	}
}

// GetTableString gets a string field from a Lua table.
func (b *Bridge) GetTableString(t *lua.LTable, key string) (string, bool) {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

// GetTableBool gets a bool field from a Lua table.
func (b *Bridge) GetTableBool(t *lua.LTable, key string) (bool, bool) {
	if v, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(v), true
	}
	return false, false
}

// GetTableFunc gets a function field from a Lua table.
func (b *Bridge) GetTableFunc(t *lua.LTable, key string) (*lua.LFunction, bool) {
	if f, ok := t.RawGetString(key).(*lua.LFunction); ok {
		return f, true
	}
	return nil, false
}

// GetTableStrings gets an array of strings from a Lua table field.
func (b *Bridge) GetTableStrings(t *lua.LTable, key string) []string {
	arr, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= arr.Len(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// Package lua lets marks be defined in Lua scripts.
//
// Each script runs in its own sandboxed gopher-lua State: only the base,
// table, string and math libraries are opened, loaders such as dofile and
// require are removed, and every run is bounded by an execution timeout.
//
// # Declaring marks
//
// A script calls the global mark function once per mark:
//
//	mark {
//	    name = "highlight",
//	    type = "color",             -- boolean, color, select or number
//	    structural = false,
//	    options = { "a", "b" },     -- select marks only
//	    shortcut = "mod+h",
//	    styles = function(marks) return { ["background-color"] = marks.highlight } end,
//	    render = function(content, marks) return "<mark>" .. content .. "</mark>" end,
//	    parse = function(el, inherited)
//	        if el.tag == "MARK" then return { highlight = el.computed("background-color") } end
//	    end,
//	}
//
// parse receives the element as a table with a tag field and the functions
// attr, style and computed. It may return a marks table, a single value for
// the declared mark, or nil.
//
// # Loading
//
//	ld := lua.NewLoader(lua.WithLogger(log))
//	defer ld.Close()
//	n, err := ld.LoadDir("~/.config/rte/marks", registry)
//
// A hook that raises an error or times out is logged and treated as absent.
package lua

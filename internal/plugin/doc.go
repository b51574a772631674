// Package plugin provides the mark plugin registry.
//
// A Plugin is the unit of formatting extensibility: it names one mark and
// contributes how the mark is applied and queried through an editing
// Context, how it is recognised in HTML, and how it is written back out as
// CSS declarations and wrapping elements. The HTML bridge and the session
// drive entirely off a Registry, so a new formatting attribute needs only a
// new Plugin.
//
// # Quick Start
//
//	reg := plugin.NewDefaultRegistry() // the fourteen built-in marks
//	_ = reg.Register(plugin.Plugin{
//	    Name: "highlight",
//	    Type: plugin.TypeColor,
//	    GetStyles: func(m doc.Marks) plugin.Styles {
//	        v, _ := m.Get("highlight")
//	        return plugin.Styles{}.Set("background-color", v.String())
//	    },
//	})
//
// Registering a name that already exists replaces the plugin in place,
// keeping its position in the registry order.
//
// # Ordering
//
// Registry order matters for output: CSS declarations are merged in
// registry order, and decorative wrappers are applied in registry order
// with the first plugin innermost. Structural plugins (superscript,
// subscript) wrap outside all decorative ones.
//
// Scripted plugins written in Lua live in the lua subpackage.
package plugin

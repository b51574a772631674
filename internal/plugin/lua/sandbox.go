package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Sandbox strips globals that would let a mark script reach outside the
// interpreter.
type Sandbox struct {
	L *lua.LState

	removed []string
}

// blockedGlobals are cleared by Install. The io, os, debug and package
// libraries are never opened in the first place.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
	"print",
}

// NewSandbox creates a sandbox for L.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install applies the restrictions.
func (s *Sandbox) Install() {
	for _, name := range blockedGlobals {
		if s.L.GetGlobal(name) != lua.LNil {
			s.removed = append(s.removed, name)
		}
		s.L.SetGlobal(name, lua.LNil)
	}
}

// Removed lists the globals Install cleared.
func (s *Sandbox) Removed() []string {
	out := make([]string, len(s.removed))
	copy(out, s.removed)
	return out
}

// Sandbox returns the state's sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

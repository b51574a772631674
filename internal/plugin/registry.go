package plugin

import (
	"fmt"
	"sync"

	"github.com/tidwall/match"
)

// Registry is an ordered table of mark plugins keyed by name.
//
// A registry is normally populated once at startup and then only read, but
// all methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// NewDefaultRegistry creates a registry seeded with the built-in plugins,
// one per well-known mark.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range Builtins() {
		// built-ins are always valid
		_ = r.Register(p)
	}
	return r
}

// Register adds p. A plugin already registered under the same name is
// replaced in place, keeping its position.
func (r *Registry) Register(p Plugin) error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlugin)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[p.Name]; ok {
		r.plugins[i] = p
		return nil
	}
	r.index[p.Name] = len(r.plugins)
	r.plugins = append(r.plugins, p)
	return nil
}

// Unregister removes the plugin registered under name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	r.plugins = append(r.plugins[:i:i], r.plugins[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.plugins); j++ {
		r.index[r.plugins[j].Name] = j
	}
	return nil
}

// Get returns the plugin registered under name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Plugin{}, false
	}
	return r.plugins[i], true
}

// Has reports whether a plugin is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Plugins returns a snapshot of all plugins in registry order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Names returns the registered names in registry order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.plugins))
	for i, p := range r.plugins {
		out[i] = p.Name
	}
	return out
}

// Match returns the plugins whose name matches a glob pattern such as
// "font*" or "*script".
func (r *Registry) Match(pattern string) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Plugin
	for _, p := range r.plugins {
		if match.Match(p.Name, pattern) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

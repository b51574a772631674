// Package htmlbridge converts documents to and from HTML.
//
// Both directions are driven entirely by a plugin registry: styles, wrapper
// elements and mark inference all come from plugin hooks, so a new mark
// needs only a new plugin.
//
//	b := htmlbridge.New(plugin.NewDefaultRegistry())
//	out := b.Serialize(value, false) // <div><strong>Hi</strong></div>
//	value = b.Parse(out)
package htmlbridge

import (
	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
	"github.com/dshills/rte/internal/plugin"
)

// Bridge serializes and parses documents against a registry.
type Bridge struct {
	reg *plugin.Registry
	log *logging.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger for recovered parse failures.
func WithLogger(l *logging.Logger) Option {
	return func(b *Bridge) {
		b.log = l
	}
}

// New creates a bridge over reg.
func New(reg *plugin.Registry, opts ...Option) *Bridge {
	b := &Bridge{reg: reg, log: logging.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithComponent("htmlbridge")
	return b
}

// Registry returns the registry the bridge renders with.
func (b *Bridge) Registry() *plugin.Registry {
	return b.reg
}

// Serialize renders v with reg. See Bridge.Serialize.
func Serialize(reg *plugin.Registry, v doc.Value, inline bool) string {
	return New(reg).Serialize(v, inline)
}

// Parse converts src with reg. See Bridge.Parse.
func Parse(reg *plugin.Registry, src string) doc.Value {
	return New(reg).Parse(src)
}

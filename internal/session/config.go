package session

import (
	"github.com/dshills/rte/internal/config"
	luaplugin "github.com/dshills/rte/internal/plugin/lua"
)

// NewFromConfig creates a session from settings: history and timing from
// cfg.Editor, built-in marks minus cfg.Plugins.Disabled, and Lua plugins
// from every directory in cfg.Plugins.Paths. Options given here override
// the settings. When WithRegistry is passed the registry is used as is.
func NewFromConfig(host Host, cfg config.Config, opts ...Option) (*Session, error) {
	base := []Option{
		WithHistoryLimit(cfg.Editor.HistoryLimit),
		WithRestoreDelay(cfg.Editor.RestoreDelay),
	}
	if cfg.Editor.SnapshotDebounce > 0 {
		base = append(base, WithDebounce(cfg.Editor.SnapshotDebounce))
	}
	s := New(host, append(base, opts...)...)
	if s.customRegistry {
		return s, nil
	}

	for _, name := range cfg.Plugins.Disabled {
		if err := s.reg.Unregister(name); err != nil {
			s.log.Warn("cannot disable plugin %s: %v", name, err)
		}
	}

	if len(cfg.Plugins.Paths) == 0 {
		return s, nil
	}
	ld := luaplugin.NewLoader(luaplugin.WithLogger(s.base))
	s.closers = append(s.closers, ld)
	for _, dir := range cfg.Plugins.Paths {
		n, err := ld.LoadDir(dir, s.reg)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.log.Info("loaded %d lua plugins from %s", n, dir)
	}
	return s, nil
}

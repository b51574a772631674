package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rte/internal/config/loader"
	"github.com/dshills/rte/internal/logging"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(string) (fs.FileInfo, error) { return nil, fs.ErrNotExist }

func noEnv() Option { return WithEnv(nil) }

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(noEnv())
	require.NoError(t, err)

	assert.Equal(t, DefaultHistoryLimit, cfg.Editor.HistoryLimit)
	assert.Equal(t, DefaultSnapshotDebounce, cfg.Editor.SnapshotDebounce)
	assert.Zero(t, cfg.Editor.RestoreDelay)
	assert.False(t, cfg.Render.Inline)
	assert.Empty(t, cfg.Plugins.Paths)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, logging.FormatConsole, cfg.Logging.Format)
}

func TestLoadLayers(t *testing.T) {
	fsys := memFS{"/rte.yaml": `
editor:
  historyLimit: 20
  snapshotDebounce: 1s
  restoreDelay: 15
render:
  inline: true
logging:
  level: warn
`}
	env := loader.NewEnvLoaderFrom("RTE_", []string{
		"RTE_EDITOR_HISTORY_LIMIT=30",
		"RTE_DISABLE_PLUGINS=[\"fontFamily\"]",
	})

	cfg, err := Load(
		WithFile("/rte.yaml"),
		WithFS(fsys),
		WithEnv(env),
		WithOverrides(map[string]any{"logging": map[string]any{"level": "debug"}}),
	)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Editor.HistoryLimit, "env overrides file")
	assert.Equal(t, time.Second, cfg.Editor.SnapshotDebounce)
	assert.Equal(t, 15*time.Millisecond, cfg.Editor.RestoreDelay, "integers are milliseconds")
	assert.True(t, cfg.Render.Inline)
	assert.Equal(t, "debug", cfg.Logging.Level, "overrides win")
	assert.Equal(t, []string{"fontFamily"}, cfg.Plugins.Disabled)
	assert.False(t, cfg.PluginEnabled("fontFamily"))
	assert.True(t, cfg.PluginEnabled("bold"))
}

func TestLoadTOMLFile(t *testing.T) {
	fsys := memFS{"/rte.toml": `
[plugins]
paths = ["/usr/share/rte/plugins"]

[logging]
format = "json"
file = "/tmp/rte.log"
`}
	cfg, err := Load(WithFile("/rte.toml"), WithFS(fsys), noEnv())
	require.NoError(t, err)

	assert.Equal(t, []string{"/usr/share/rte/plugins"}, cfg.Plugins.Paths)
	assert.Equal(t, logging.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "/tmp/rte.log", cfg.Logging.File)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LevelInfo, lc.Level)
	assert.Equal(t, "/tmp/rte.log", lc.File)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(WithFile("/nope.toml"), WithFS(memFS{}), noEnv())
	require.NoError(t, err)
	assert.Equal(t, Default().Editor, cfg.Editor)
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load(WithFile("/rte.ini"), WithFS(memFS{}), noEnv())
	assert.ErrorIs(t, err, loader.ErrUnknownFormat)
}

func TestLoadParseError(t *testing.T) {
	_, err := Load(WithFile("/rte.toml"), WithFS(memFS{"/rte.toml": "editor = ["}), noEnv())
	var perr *loader.ParseError
	assert.True(t, errors.As(err, &perr), "error = %v", err)
}

func TestLoadTypeMismatch(t *testing.T) {
	_, err := Load(noEnv(), WithOverrides(map[string]any{"editor": map[string]any{"historyLimit": "lots"}}))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Load(noEnv(), WithOverrides(map[string]any{"editor": map[string]any{"restoreDelay": "soon"}}))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"negative history", func(c *Config) { c.Editor.HistoryLimit = -1 }, "editor.historyLimit"},
		{"negative debounce", func(c *Config) { c.Editor.SnapshotDebounce = -time.Second }, "editor.snapshotDebounce"},
		{"negative restore", func(c *Config) { c.Editor.RestoreDelay = -1 }, "editor.restoreDelay"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestFromMapStringList(t *testing.T) {
	cfg, err := FromMap(map[string]any{"plugins": map[string]any{"paths": "/a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, cfg.Plugins.Paths)

	_, err = FromMap(map[string]any{"plugins": map[string]any{"paths": []any{1}}})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

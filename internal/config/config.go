package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/rte/internal/config/loader"
	"github.com/dshills/rte/internal/logging"
)

// Default values.
const (
	DefaultHistoryLimit     = 50
	DefaultSnapshotDebounce = 500 * time.Millisecond
	DefaultLogLevel         = "info"
	DefaultLogFormat        = logging.FormatConsole

	// MaxIncludeDepth bounds nested @include directives in settings files.
	MaxIncludeDepth = 8
)

// Config holds every editor setting.
type Config struct {
	Editor  EditorConfig
	Render  RenderConfig
	Plugins PluginsConfig
	Logging LoggingConfig
}

// EditorConfig holds session behaviour settings.
type EditorConfig struct {
	// HistoryLimit caps the undo history. Zero selects the default.
	HistoryLimit int
	// SnapshotDebounce is the quiet period before an edit is recorded.
	SnapshotDebounce time.Duration
	// RestoreDelay postpones selection restoration after a re-render.
	RestoreDelay time.Duration
}

// RenderConfig holds HTML output settings.
type RenderConfig struct {
	// Inline joins blocks with spaces instead of wrapping them in divs.
	Inline bool
}

// PluginsConfig selects the mark plugins.
type PluginsConfig struct {
	// Paths lists directories scanned for Lua plugin scripts.
	Paths []string
	// Disabled lists built-in marks to unregister.
	Disabled []string
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			HistoryLimit:     DefaultHistoryLimit,
			SnapshotDebounce: DefaultSnapshotDebounce,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// defaultMap returns Default as a layer map.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"editor": map[string]any{
			"historyLimit":     int64(d.Editor.HistoryLimit),
			"snapshotDebounce": d.Editor.SnapshotDebounce,
			"restoreDelay":     d.Editor.RestoreDelay,
		},
		"render": map[string]any{
			"inline": d.Render.Inline,
		},
		"plugins": map[string]any{
			"paths":    []any{},
			"disabled": []any{},
		},
		"logging": map[string]any{
			"level":  d.Logging.Level,
			"format": d.Logging.Format,
			"file":   d.Logging.File,
		},
	}
}

// Validate reports the first unacceptable setting.
func (c Config) Validate() error {
	if c.Editor.HistoryLimit < 0 {
		return &ValidationError{Path: "editor.historyLimit", Message: "must not be negative", Value: c.Editor.HistoryLimit}
	}
	if c.Editor.SnapshotDebounce < 0 {
		return &ValidationError{Path: "editor.snapshotDebounce", Message: "must not be negative", Value: c.Editor.SnapshotDebounce}
	}
	if c.Editor.RestoreDelay < 0 {
		return &ValidationError{Path: "editor.restoreDelay", Message: "must not be negative", Value: c.Editor.RestoreDelay}
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level}
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return &ValidationError{Path: "logging.format", Message: "must be console or json", Value: c.Logging.Format}
	}
	return nil
}

// LoggerConfig converts the logging settings for logging.New.
func (c Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	if level, ok := logging.ParseLevel(c.Logging.Level); ok {
		lc.Level = level
	}
	lc.Format = c.Logging.Format
	lc.File = c.Logging.File
	return lc
}

// PluginEnabled reports whether the named built-in mark is not disabled.
func (c Config) PluginEnabled(name string) bool {
	for _, d := range c.Plugins.Disabled {
		if d == name {
			return false
		}
	}
	return true
}

// Option configures Load.
type Option func(*options)

type options struct {
	file      string
	fsys      loader.FileSystem
	env       *loader.EnvLoader
	overrides []map[string]any
}

// WithFile adds a settings file layer. A missing file is not an error.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithFS sets the file system the settings file is read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithEnv replaces the environment layer. Pass nil to skip it.
func WithEnv(env *loader.EnvLoader) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithOverrides adds a layer above every other source. Later overrides win.
func WithOverrides(m map[string]any) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, m)
	}
}

// Load merges the configured layers and returns the validated result.
func Load(opts ...Option) (Config, error) {
	o := options{
		fsys: loader.OSFS{},
		env:  loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultMap()

	if o.file != "" {
		f, err := loader.NewFile(o.file, loader.WithFS(o.fsys))
		if err != nil {
			return Config{}, err
		}
		m, err := f.LoadWithIncludes(o.file, MaxIncludeDepth)
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	if o.env != nil {
		m, err := o.env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	for _, m := range o.overrides {
		merged = loader.DeepMerge(merged, loader.Clone(m))
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromMap decodes a merged layer map. Missing settings keep their defaults
// and unknown keys are ignored.
func FromMap(m map[string]any) (Config, error) {
	cfg := Default()
	d := decoder{m: m}

	d.int("editor.historyLimit", &cfg.Editor.HistoryLimit)
	d.duration("editor.snapshotDebounce", &cfg.Editor.SnapshotDebounce)
	d.duration("editor.restoreDelay", &cfg.Editor.RestoreDelay)
	d.bool("render.inline", &cfg.Render.Inline)
	d.strings("plugins.paths", &cfg.Plugins.Paths)
	d.strings("plugins.disabled", &cfg.Plugins.Disabled)
	d.string("logging.level", &cfg.Logging.Level)
	d.string("logging.format", &cfg.Logging.Format)
	d.string("logging.file", &cfg.Logging.File)

	if d.err != nil {
		return Config{}, d.err
	}
	return cfg, nil
}

// DefaultFile returns the first settings file found in the user config
// directory, or "" when there is none.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"settings.toml", "settings.yaml", "settings.yml"} {
		path := filepath.Join(dir, "rte", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// decoder reads typed values out of a layer map, keeping the first error.
type decoder struct {
	m   map[string]any
	err error
}

func (d *decoder) lookup(path string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	return loader.Lookup(d.m, path)
}

func (d *decoder) int(path string, dst *int) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		*dst = int(n)
	default:
		d.err = typeError(path, "integer", v)
	}
}

func (d *decoder) duration(path string, dst *time.Duration) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch t := v.(type) {
	case time.Duration:
		*dst = t
	case int64:
		*dst = time.Duration(t) * time.Millisecond
	case int:
		*dst = time.Duration(t) * time.Millisecond
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			d.err = fmt.Errorf("%s: %w: %v", path, ErrTypeMismatch, err)
			return
		}
		*dst = parsed
	default:
		d.err = typeError(path, "duration", v)
	}
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	b, isBool := v.(bool)
	if !isBool {
		d.err = typeError(path, "bool", v)
		return
	}
	*dst = b
}

func (d *decoder) string(path string, dst *string) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	s, isString := v.(string)
	if !isString {
		d.err = typeError(path, "string", v)
		return
	}
	*dst = s
}

func (d *decoder) strings(path string, dst *[]string) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch t := v.(type) {
	case string:
		*dst = nil
		for _, s := range strings.Split(t, string(os.PathListSeparator)) {
			if s != "" {
				*dst = append(*dst, s)
			}
		}
	case []string:
		*dst = append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				d.err = typeError(path, "list of strings", v)
				return
			}
			out = append(out, s)
		}
		*dst = out
	default:
		d.err = typeError(path, "list of strings", v)
	}
}

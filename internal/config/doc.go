// Package config assembles the editor's settings from layered sources.
//
// Layers are applied from lowest to highest priority:
//
//  1. Built-in defaults (Default)
//  2. A settings file, TOML or YAML by extension
//  3. Environment variables with the RTE_ prefix
//  4. Explicit overrides, typically from command-line flags
//
// Each layer is a nested map merged with loader.DeepMerge, then decoded
// into a typed Config and validated:
//
//	cfg, err := config.Load(
//		config.WithFile("rte.toml"),
//		config.WithOverrides(map[string]any{"logging": map[string]any{"level": "debug"}}),
//	)
//
// Durations accept Go duration strings ("500ms") or integer milliseconds.
// String lists accept arrays or a single string split on the OS path list
// separator.
package config

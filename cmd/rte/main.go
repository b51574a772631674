// Package main is the entry point for the rte command line tool.
//
// rte converts documents between HTML, JSON and plain text, applies marks
// to JSON documents, previews them in the terminal and lists the available
// mark plugins.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/rte/internal/config"
	"github.com/dshills/rte/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks command line mistakes; the usage text has already been
// printed.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries what every command needs.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	log *logging.Logger
}

type command struct {
	name    string
	summary string
	run     func(c *cli, args []string) error
}

var commands = []command{
	{"convert", "convert a document between html, json and text", runConvert},
	{"format", "apply or remove a mark over a range of a JSON document", runFormat},
	{"preview", "show a document in the terminal", runPreview},
	{"plugins", "list the registered marks", runPlugins},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rte", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var configPath, logLevel string
	var showVersion bool
	fs.StringVar(&configPath, "config", "", "Path to configuration file")
	fs.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "rte - rich text document tool\n\n")
		fmt.Fprintf(stderr, "Usage: rte [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, cmd := range commands {
			fmt.Fprintf(stderr, "  %-10s %s\n", cmd.name, cmd.summary)
		}
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  rte convert -from html -to json page.html\n")
		fmt.Fprintf(stderr, "  rte format -mark bold -start 0 -end 5 doc.json\n")
		fmt.Fprintf(stderr, "  rte plugins -filter 'font*'\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "rte %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := findCommand(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(configPath, logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	lc := cfg.LoggerConfig()
	lc.Output = stderr
	log := logging.New(lc)
	defer func() { _ = log.Sync() }()

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, cfg: cfg, log: log}
	if err := cmd.run(c, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func findCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

// loadConfig layers the settings file, the environment and the command
// line.
func loadConfig(path, logLevel string) (config.Config, error) {
	if path == "" {
		path = config.DefaultFile()
	}
	var opts []config.Option
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}
	if logLevel != "" {
		if _, ok := logging.ParseLevel(logLevel); !ok {
			return config.Config{}, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", logLevel)
		}
		opts = append(opts, config.WithOverrides(map[string]any{
			"logging": map[string]any{"level": logLevel},
		}))
	}
	return config.Load(opts...)
}

// parseFlags parses a command's flags, mapping parse failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.stderr, format, args...)
}

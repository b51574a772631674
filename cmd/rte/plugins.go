package main

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	luaplugin "github.com/dshills/rte/internal/plugin/lua"
)

func runPlugins(c *cli, args []string) error {
	fs := flag.NewFlagSet("plugins", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	filter := fs.String("filter", "*", "Glob pattern over mark names")
	luaDir := fs.String("lua", "", "Also load Lua plugins from this directory")
	fs.Usage = func() {
		c.usage(fs, "plugins [-filter GLOB] [-lua DIR]")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := c.newSession(nil)
	if err != nil {
		return err
	}
	defer s.Close()
	reg := s.Registry()

	if *luaDir != "" {
		ld := luaplugin.NewLoader(luaplugin.WithLogger(c.log))
		defer ld.Close()
		n, err := ld.LoadDir(*luaDir, reg)
		if err != nil {
			return err
		}
		c.log.Debug("loaded %d lua plugins from %s", n, *luaDir)
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSTRUCTURAL\tSHORTCUT\tOPTIONS")
	for _, p := range reg.Match(*filter) {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n",
			p.Name, p.Type, p.Structural, orDash(p.KeyboardShortcut), orDash(strings.Join(p.Options, ",")))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

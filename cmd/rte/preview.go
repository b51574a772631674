package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rte/internal/terminal"
)

func runPreview(c *cli, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	from := fs.String("from", formatJSON, "Input format (html, json)")
	watch := fs.Bool("watch", false, "Reload whenever the file changes")
	fs.Usage = func() {
		c.usage(fs, "preview [-from html|json] [-watch] [file]")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	path := fs.Arg(0)
	if *watch && (path == "" || path == "-") {
		return errors.New("-watch needs a file")
	}

	s, err := c.newSession(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	load := func() error {
		data, err := c.readInput(path)
		if err != nil {
			return err
		}
		return decode(s, data, *from)
	}
	if err := load(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	title := "stdin"
	if path != "" && path != "-" {
		title = filepath.Base(path)
	}
	p := terminal.NewPreview(screen, s.Value(), terminal.WithTitle(title), terminal.WithLogger(c.log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		c.watchInBackground(ctx, path, func() error {
			if err := load(); err != nil {
				return err
			}
			p.SetValue(s.Value())
			return nil
		})
	}

	err = p.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

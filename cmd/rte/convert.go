package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/rte/internal/watcher"
)

func runConvert(c *cli, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	from := fs.String("from", formatHTML, "Input format (html, json)")
	to := fs.String("to", formatJSON, "Output format (html, json, text)")
	inline := fs.Bool("inline", c.cfg.Render.Inline, "Join blocks with spaces in HTML output")
	prettyJSON := fs.Bool("pretty", false, "Indent JSON output")
	watch := fs.Bool("watch", false, "Convert again whenever the file changes")
	fs.Usage = func() {
		c.usage(fs, "convert [-from html|json] [-to html|json|text] [-inline] [-pretty] [-watch] [file]")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	path := fs.Arg(0)

	opts := encodeOptions{inline: *inline, pretty: *prettyJSON, color: isTerminal(c.stdout)}
	convert := func() error {
		data, err := c.readInput(path)
		if err != nil {
			return err
		}
		s, err := c.newSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := decode(s, data, *from); err != nil {
			return err
		}
		out, err := encode(s, *to, opts)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(out)
		return err
	}

	if err := convert(); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	if path == "" || path == "-" {
		return errors.New("-watch needs a file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(ctx, path, convert)
}

// watch calls fn each time path is written until ctx is done.
func (c *cli) watch(ctx context.Context, path string, fn func() error) error {
	w, err := watcher.New(watcher.WithLogger(c.log))
	if err != nil {
		return err
	}
	defer w.Close()

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			c.log.Warn("%s removed", ev.Path)
			return
		}
		if err := fn(); err != nil {
			c.log.Error("%s: %v", ev.Path, err)
		}
	})
	if err := w.Watch(path); err != nil {
		return err
	}
	c.log.Info("watching %s", path)

	<-ctx.Done()
	return nil
}

// watchInBackground runs watch on its own goroutine. A failure to start
// watching is logged. The returned channel is closed when watching ends.
func (c *cli) watchInBackground(ctx context.Context, path string, fn func() error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.watch(ctx, path, fn); err != nil {
			c.log.Error("watch %s: %v; changes will not be reloaded", path, err)
		}
	}()
	return done
}

// usage prints a command's synopsis and flags.
func (c *cli) usage(fs *flag.FlagSet, synopsis string) {
	c.printf("Usage: rte %s\n\nOptions:\n", synopsis)
	fs.PrintDefaults()
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/plugin"
	"github.com/dshills/rte/internal/session"
)

func runFormat(c *cli, args []string) error {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	mark := fs.String("mark", "", "Mark name, e.g. bold or fontSize")
	value := fs.String("value", "", "Mark value; +N or -N adjusts fontSize and fontWeight")
	remove := fs.Bool("remove", false, "Remove the mark instead of applying it")
	start := fs.Int("start", 0, "Start offset")
	end := fs.Int("end", -1, "End offset (-1 for the end of the document)")
	prettyJSON := fs.Bool("pretty", false, "Indent JSON output")
	fs.Usage = func() {
		c.usage(fs, "format -mark NAME [-value V] [-remove] [-start N] [-end M] [file]")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *mark == "" {
		c.printf("Error: -mark is required\n")
		fs.Usage()
		return errUsage
	}

	data, err := c.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	v, err := doc.Decode(data)
	if err != nil {
		return err
	}

	s, err := c.newSession(v)
	if err != nil {
		return err
	}
	defer s.Close()

	stop := *end
	if stop < 0 {
		stop = s.Value().Len()
	}
	s.SetSelection(*start, stop)

	if err := applyFormat(s, *mark, *value, *remove); err != nil {
		return err
	}

	out, err := encode(s, formatJSON, encodeOptions{pretty: *prettyJSON, color: isTerminal(c.stdout)})
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(out)
	return err
}

// applyFormat runs one formatting request against the session's selection.
func applyFormat(s *session.Session, name, value string, remove bool) error {
	if remove {
		return s.RemoveFormat(name)
	}

	if delta, ok := parseDelta(value); ok {
		switch name {
		case doc.FontSize:
			return s.AdjustFontSize(delta)
		case doc.FontWeight:
			return s.AdjustFontWeight(delta)
		}
	}

	p, ok := s.Registry().Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrUnknownMark, name)
	}
	mv, err := parseMarkValue(p, value)
	if err != nil {
		return err
	}
	return s.ApplyFormat(name, mv)
}

// parseDelta reads a signed adjustment such as "+2" or "-100".
func parseDelta(s string) (float64, bool) {
	if !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-") {
		return 0, false
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

// parseMarkValue converts a command line value to the plugin's type. An
// empty value turns a boolean mark on.
func parseMarkValue(p plugin.Plugin, s string) (doc.MarkValue, error) {
	switch p.Type {
	case plugin.TypeBoolean:
		if s == "" {
			return doc.Bool(true), nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return doc.MarkValue{}, fmt.Errorf("%s: invalid boolean %q", p.Name, s)
		}
		return doc.Bool(b), nil
	case plugin.TypeNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return doc.MarkValue{}, fmt.Errorf("%s: invalid number %q", p.Name, s)
		}
		return doc.Number(n), nil
	default:
		if s == "" {
			return doc.MarkValue{}, errors.New(p.Name + ": -value is required")
		}
		return doc.String(s), nil
	}
}

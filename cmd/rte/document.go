package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/session"
)

// Document formats.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatText = "text"
)

// readInput reads the named file, or stdin when path is "" or "-".
func (c *cli) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(c.stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// newSession creates a session with the configured plugins holding v.
func (c *cli) newSession(v doc.Value) (*session.Session, error) {
	opts := []session.Option{session.WithLogger(c.log)}
	if v != nil {
		opts = append(opts, session.WithValue(v))
	}
	return session.NewFromConfig(nil, c.cfg, opts...)
}

// decode parses data in the given format into s's document.
func decode(s *session.Session, data []byte, from string) error {
	switch from {
	case formatHTML:
		return s.LoadHTML(string(data))
	case formatJSON:
		v, err := doc.Decode(data)
		if err != nil {
			return err
		}
		return s.SetValue(v)
	default:
		return fmt.Errorf("unknown input format %q", from)
	}
}

// encodeOptions controls how documents are written.
type encodeOptions struct {
	inline bool
	pretty bool
	color  bool
}

// encode writes s's document in the given format.
func encode(s *session.Session, to string, opts encodeOptions) ([]byte, error) {
	switch to {
	case formatHTML:
		return []byte(s.HTML(opts.inline) + "\n"), nil
	case formatText:
		return []byte(s.Value().PlainText() + "\n"), nil
	case formatJSON:
		out, err := doc.Encode(s.Value())
		if err != nil {
			return nil, err
		}
		if opts.pretty {
			out = pretty.Pretty(out)
			if opts.color {
				out = pretty.Color(out, nil)
			}
			return out, nil
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", to)
	}
}

// isTerminal reports whether w writes to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package plugin

import "strings"

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Styles is an ordered list of CSS declarations. Order is kept so that
// rendered style attributes are deterministic.
type Styles []Declaration

// Set returns s with prop set to value, replacing an existing declaration in
// place or appending a new one.
func (s Styles) Set(prop, value string) Styles {
	for i, d := range s {
		if d.Property == prop {
			out := make(Styles, len(s))
			copy(out, s)
			out[i].Value = value
			return out
		}
	}
	return append(s[:len(s):len(s)], Declaration{Property: prop, Value: value})
}

// Get returns the value of prop.
func (s Styles) Get(prop string) (string, bool) {
	for _, d := range s {
		if d.Property == prop {
			return d.Value, true
		}
	}
	return "", false
}

// Merge returns s overlaid with o; later declarations win.
func (s Styles) Merge(o Styles) Styles {
	out := s
	for _, d := range o {
		out = out.Set(d.Property, d.Value)
	}
	return out
}

// String renders the declarations as a style attribute value: "a:b;c:d".
func (s Styles) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.Property + ":" + d.Value
	}
	return strings.Join(parts, ";")
}

// ParseStyleAttr parses an inline style attribute. Property names are
// lower-cased; values are trimmed and keep their case. Malformed
// declarations are skipped. Semicolons inside quotes or parentheses do not
// end a declaration.
func ParseStyleAttr(attr string) Styles {
	var out Styles
	for _, decl := range splitDeclarations(attr) {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if prop == "" || value == "" {
			continue
		}
		out = out.Set(prop, value)
	}
	return out
}

// splitDeclarations splits a style attribute on top-level semicolons.
func splitDeclarations(attr string) []string {
	var out []string
	var quote rune
	depth, start := 0, 0
	for i, r := range attr {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'', r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			out = append(out, attr[start:i])
			start = i + 1
		}
	}
	return append(out, attr[start:])
}

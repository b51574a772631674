package plugin

import (
	"strconv"
	"strings"

	"github.com/dshills/rte/internal/engine/doc"
)

// Letter spacing buckets and their CSS lengths.
const (
	SpacingTight  = "tight"
	SpacingNormal = "normal"
	SpacingWide   = "wide"

	tightSpacingCSS = "-0.5em"
	wideSpacingCSS  = "0.5em"
	spacingBucketEm = 0.5
)

// TextTransformOptions are the allowed textTransform values.
var TextTransformOptions = []string{"uppercase", "lowercase", "capitalize", "none"}

// Builtins returns the built-in plugins in registry order.
func Builtins() []Plugin {
	return []Plugin{
		tagPlugin(doc.Bold, "strong", "mod+b", parseBold),
		tagPlugin(doc.Italic, "em", "mod+i", parseFlag("font-style", "italic", "oblique")),
		tagPlugin(doc.Underline, "u", "mod+u", parseDecoration("underline")),
		tagPlugin(doc.Strikethrough, "s", "mod+shift+x", parseDecoration("line-through")),
		scriptPlugin(doc.Superscript, "sup", "super", doc.Subscript, "mod+."),
		scriptPlugin(doc.Subscript, "sub", "sub", doc.Superscript, "mod+,"),
		colorPlugin(doc.Color, "color"),
		colorPlugin(doc.BackgroundColor, "background-color"),
		{
			Name:      doc.FontSize,
			Type:      TypeNumber,
			ParseHTML: parseFontSize,
			GetStyles: styleWith(doc.FontSize, "font-size", func(n float64) string { return formatNumber(n) + "px" }),
		},
		{
			Name:      doc.FontFamily,
			Type:      TypeSelect,
			ParseHTML: parseVerbatim(doc.FontFamily, "font-family", false),
			GetStyles: styleWith(doc.FontFamily, "font-family", formatNumber),
		},
		{
			Name:      doc.FontWeight,
			Type:      TypeNumber,
			ParseHTML: parseFontWeight,
			GetStyles: styleWith(doc.FontWeight, "font-weight", formatNumber),
		},
		{
			Name:      doc.LetterSpacing,
			Type:      TypeSelect,
			Options:   []string{SpacingTight, SpacingNormal, SpacingWide},
			ParseHTML: parseLetterSpacing,
			GetStyles: letterSpacingStyles,
		},
		{
			Name:      doc.TextTransform,
			Type:      TypeSelect,
			Options:   TextTransformOptions,
			ParseHTML: parseTextTransform,
			GetStyles: styleWith(doc.TextTransform, "text-transform", formatNumber),
		},
		{
			Name:      doc.LineHeight,
			Type:      TypeNumber,
			ParseHTML: parseVerbatim(doc.LineHeight, "line-height", true),
			GetStyles: styleWith(doc.LineHeight, "line-height", formatNumber),
		},
	}
}

// tagPlugin builds a decorative boolean mark rendered as a wrapping element.
func tagPlugin(name, tag, shortcut string, parse func(Element, doc.Marks) doc.Marks) Plugin {
	return Plugin{
		Name:             name,
		Type:             TypeBoolean,
		KeyboardShortcut: shortcut,
		ParseHTML:        parse,
		Render:           wrapWith(tag),
	}
}

// scriptPlugin builds superscript or subscript. Turning one on turns the
// other off.
func scriptPlugin(name, tag, verticalAlign, opposite, shortcut string) Plugin {
	return Plugin{
		Name:             name,
		Type:             TypeBoolean,
		Structural:       true,
		KeyboardShortcut: shortcut,
		Apply: func(ctx Context, value doc.MarkValue) {
			if b, ok := value.AsBool(); ok && !b {
				ctx.RemoveMark(name)
				return
			}
			ctx.RemoveMark(opposite)
			ctx.ApplyMarks(doc.Marks{name: doc.Bool(true)})
		},
		ParseHTML: func(el Element, _ doc.Marks) doc.Marks {
			if el.Tag() == strings.ToUpper(tag) || el.InlineStyle("vertical-align") == verticalAlign {
				return doc.Marks{name: doc.Bool(true), opposite: doc.Bool(false)}
			}
			return nil
		},
		Render: wrapWith(tag),
	}
}

func colorPlugin(name, prop string) Plugin {
	return Plugin{
		Name: name,
		Type: TypeColor,
		ParseHTML: func(el Element, _ doc.Marks) doc.Marks {
			v := el.InlineStyle(prop)
			if v == "" && prop == "color" && el.Tag() == "FONT" {
				v = el.Attr("color")
			}
			if v == "" {
				return nil
			}
			if strings.EqualFold(v, doc.InheritKeyword) {
				return doc.Marks{name: doc.Inherit()}
			}
			return doc.Marks{name: doc.String(NormalizeColor(v))}
		},
		GetStyles: func(m doc.Marks) Styles {
			v, ok := m.Get(name)
			if !ok {
				return nil
			}
			return Styles{}.Set(prop, NormalizeColor(v.String()))
		},
	}
}

func wrapWith(tag string) func(string, doc.Marks) string {
	open, closing := "<"+tag+">", "</"+tag+">"
	return func(content string, _ doc.Marks) string {
		return open + content + closing
	}
}

// styleWith emits prop for the mark, formatting numbers with format.
func styleWith(name, prop string, format func(float64) string) func(doc.Marks) Styles {
	return func(m doc.Marks) Styles {
		v, ok := m.Get(name)
		if !ok {
			return nil
		}
		if n, isNum := v.AsNumber(); isNum {
			return Styles{}.Set(prop, format(n))
		}
		return Styles{}.Set(prop, v.String())
	}
}

func letterSpacingStyles(m doc.Marks) Styles {
	v, ok := m.Get(doc.LetterSpacing)
	if !ok {
		return nil
	}
	switch v.String() {
	case SpacingTight:
		return Styles{}.Set("letter-spacing", tightSpacingCSS)
	case SpacingWide:
		return Styles{}.Set("letter-spacing", wideSpacingCSS)
	default:
		return Styles{}.Set("letter-spacing", v.String())
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// parseBold recognises bold from the computed weight. An explicit numeric
// weight on the element belongs to the fontWeight plugin instead; a light
// one still clears an inherited bold.
func parseBold(el Element, _ doc.Marks) doc.Marks {
	inline := el.InlineStyle("font-weight")
	if n, ok := numericWeight(inline); ok {
		if n < 600 {
			return doc.Marks{doc.Bold: doc.Bool(false)}
		}
		return nil
	}
	if isBoldWeight(el.ComputedStyle("font-weight")) {
		return doc.Marks{doc.Bold: doc.Bool(true)}
	}
	if inline != "" {
		return doc.Marks{doc.Bold: doc.Bool(false)}
	}
	return nil
}

func parseFontWeight(el Element, _ doc.Marks) doc.Marks {
	inline := el.InlineStyle("font-weight")
	if strings.EqualFold(inline, doc.InheritKeyword) {
		return doc.Marks{doc.FontWeight: doc.Inherit()}
	}
	if n, ok := numericWeight(inline); ok {
		return doc.Marks{doc.FontWeight: doc.Number(n)}
	}
	return nil
}

func numericWeight(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isBoldWeight(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bold", "bolder":
		return true
	}
	n, ok := numericWeight(s)
	return ok && n >= 600
}

// parseFlag turns a boolean mark on when the computed prop is one of values
// and off when the element itself sets prop to something else.
func parseFlag(prop string, values ...string) func(Element, doc.Marks) doc.Marks {
	return func(el Element, _ doc.Marks) doc.Marks {
		name := flagName(prop)
		computed := strings.ToLower(el.ComputedStyle(prop))
		for _, v := range values {
			if computed == v {
				return doc.Marks{name: doc.Bool(true)}
			}
		}
		if el.InlineStyle(prop) != "" {
			return doc.Marks{name: doc.Bool(false)}
		}
		return nil
	}
}

func flagName(prop string) string {
	if prop == "font-style" {
		return doc.Italic
	}
	return prop
}

// parseDecoration turns a text-decoration line on when the computed
// decoration mentions it.
func parseDecoration(line string) func(Element, doc.Marks) doc.Marks {
	name := doc.Underline
	if line == "line-through" {
		name = doc.Strikethrough
	}
	return func(el Element, _ doc.Marks) doc.Marks {
		deco := strings.ToLower(el.ComputedStyle("text-decoration") + " " + el.ComputedStyle("text-decoration-line"))
		if strings.Contains(deco, line) {
			return doc.Marks{name: doc.Bool(true)}
		}
		return nil
	}
}

func parseFontSize(el Element, _ doc.Marks) doc.Marks {
	v := el.InlineStyle("font-size")
	if v == "" {
		return nil
	}
	if strings.EqualFold(v, doc.InheritKeyword) {
		return doc.Marks{doc.FontSize: doc.Inherit()}
	}
	if px, ok := cssPixels(v); ok {
		return doc.Marks{doc.FontSize: doc.Number(px)}
	}
	return nil
}

// parseVerbatim imports a declaration as is. With numeric set, values that
// parse as plain numbers are stored as numbers.
func parseVerbatim(name, prop string, numeric bool) func(Element, doc.Marks) doc.Marks {
	return func(el Element, _ doc.Marks) doc.Marks {
		v := el.InlineStyle(prop)
		if v == "" {
			return nil
		}
		if strings.EqualFold(v, doc.InheritKeyword) {
			return doc.Marks{name: doc.Inherit()}
		}
		if numeric {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return doc.Marks{name: doc.Number(n)}
			}
		}
		return doc.Marks{name: doc.String(v)}
	}
}

func parseLetterSpacing(el Element, _ doc.Marks) doc.Marks {
	v := strings.ToLower(el.InlineStyle("letter-spacing"))
	switch v {
	case "":
		return nil
	case doc.InheritKeyword:
		return doc.Marks{doc.LetterSpacing: doc.Inherit()}
	case SpacingNormal:
		return doc.Marks{doc.LetterSpacing: doc.String(SpacingNormal)}
	}
	px, ok := cssPixels(v)
	if !ok {
		return nil
	}
	em := px / 16
	switch {
	case em <= -spacingBucketEm:
		return doc.Marks{doc.LetterSpacing: doc.String(SpacingTight)}
	case em >= spacingBucketEm:
		return doc.Marks{doc.LetterSpacing: doc.String(SpacingWide)}
	default:
		return doc.Marks{doc.LetterSpacing: doc.String(SpacingNormal)}
	}
}

func parseTextTransform(el Element, _ doc.Marks) doc.Marks {
	v := strings.ToLower(el.InlineStyle("text-transform"))
	if v == doc.InheritKeyword {
		return doc.Marks{doc.TextTransform: doc.Inherit()}
	}
	for _, opt := range TextTransformOptions {
		if v == opt {
			return doc.Marks{doc.TextTransform: doc.String(v)}
		}
	}
	return nil
}

// cssPixels converts a CSS length to pixels. em and rem assume a 16px base;
// unitless numbers are taken as pixels.
func cssPixels(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	units := []struct {
		suffix string
		factor float64
	}{
		{"rem", 16},
		{"px", 1},
		{"pt", 4.0 / 3.0},
		{"em", 16},
		{"%", 0.16},
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return 0, false
			}
			return n * u.factor, true
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

package plugin

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NormalizeColor converts rgb() and rgba() colors to #rrggbb. Hex colors and
// anything it does not understand (named colors, hsl()) pass through
// unchanged. Alpha is dropped.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return s
	}
	lower := strings.ToLower(s)
	var body string
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		body = lower[len("rgba(") : len(lower)-1]
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		body = lower[len("rgb(") : len(lower)-1]
	default:
		return s
	}

	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	if len(fields) < 3 {
		return s
	}
	var channels [3]float64
	for i := 0; i < 3; i++ {
		c, ok := parseChannel(fields[i])
		if !ok {
			return s
		}
		channels[i] = c
	}
	return colorful.Color{R: channels[0], G: channels[1], B: channels[2]}.Hex()
}

// parseChannel parses "255" or "100%" into the 0..1 range.
func parseChannel(f string) (float64, bool) {
	if pct, ok := strings.CutSuffix(f, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return clampUnit(v / 100), true
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, false
	}
	return clampUnit(v / 255), true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

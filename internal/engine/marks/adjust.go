package marks

import (
	"math"

	"github.com/dshills/rte/internal/engine/doc"
)

// Numeric mark bounds.
const (
	DefaultFontSize = 16
	MinFontSize     = 8
	MaxFontSize     = 200

	NormalWeight  = 400
	BoldWeight    = 700
	MinFontWeight = 100
	MaxFontWeight = 900
)

// AdjustFontSizes adds delta to the effective font size of every fragment in
// r. Unset or non-numeric sizes count as DefaultFontSize. Results are clamped
// to [MinFontSize, MaxFontSize].
func AdjustFontSizes(v doc.Value, r Range, delta float64) doc.Value {
	return rewriteRange(v, r, func(m doc.Marks) doc.Marks {
		size := float64(DefaultFontSize)
		if n, ok := m.Number(doc.FontSize); ok {
			size = n
		}
		size = clamp(size+delta, MinFontSize, MaxFontSize)
		return m.With(doc.FontSize, doc.Number(size))
	})
}

// AdjustFontWeights adds delta to the effective font weight of every
// fragment in r. Unset weights count as BoldWeight when bold is on and
// NormalWeight otherwise. Results are rounded to the nearest hundred and
// clamped to [MinFontWeight, MaxFontWeight]. The bold flag is dropped in
// favour of the explicit weight.
func AdjustFontWeights(v doc.Value, r Range, delta float64) doc.Value {
	return rewriteRange(v, r, func(m doc.Marks) doc.Marks {
		weight := float64(NormalWeight)
		if n, ok := m.Number(doc.FontWeight); ok {
			weight = n
		} else if m.Bool(doc.Bold) {
			weight = BoldWeight
		}
		weight = math.Round((weight+delta)/100) * 100
		weight = clamp(weight, MinFontWeight, MaxFontWeight)
		return m.Without(doc.Bold).With(doc.FontWeight, doc.Number(weight))
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package doc

import (
	"sort"
	"strconv"
)

// Well-known mark names.
const (
	Bold            = "bold"
	Italic          = "italic"
	Underline       = "underline"
	Strikethrough   = "strikethrough"
	Superscript     = "superscript"
	Subscript       = "subscript"
	Color           = "color"
	BackgroundColor = "backgroundColor"
	FontSize        = "fontSize"
	FontFamily      = "fontFamily"
	FontWeight      = "fontWeight"
	LetterSpacing   = "letterSpacing"
	TextTransform   = "textTransform"
	LineHeight      = "lineHeight"
)

// InheritKeyword is the textual form of the inherit sentinel.
const InheritKeyword = "inherit"

// Kind identifies the variant held by a MarkValue.
type Kind uint8

const (
	// KindBool is a boolean flag.
	KindBool Kind = iota
	// KindNumber is a numeric value such as a font size.
	KindNumber
	// KindString is a string value such as a color.
	KindString
	// KindInherit explicitly clears the attribute.
	KindInherit
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindInherit:
		return "inherit"
	default:
		return "unknown"
	}
}

// MarkValue is the value of a single mark key. The zero value is Bool(false).
type MarkValue struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool returns a boolean mark value.
func Bool(b bool) MarkValue { return MarkValue{kind: KindBool, b: b} }

// Number returns a numeric mark value.
func Number(n float64) MarkValue { return MarkValue{kind: KindNumber, n: n} }

// String returns a string mark value.
func String(s string) MarkValue { return MarkValue{kind: KindString, s: s} }

// Inherit returns the explicit "cleared" sentinel.
func Inherit() MarkValue { return MarkValue{kind: KindInherit} }

// Kind returns the variant held by v.
func (v MarkValue) Kind() Kind { return v.kind }

// IsInherit reports whether v is the inherit sentinel.
func (v MarkValue) IsInherit() bool { return v.kind == KindInherit }

// AsBool returns the boolean payload and whether v is a boolean.
func (v MarkValue) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a number.
func (v MarkValue) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether v is a string.
func (v MarkValue) AsString() (string, bool) { return v.s, v.kind == KindString }

// Truthy reports whether the value counts as "set" for rendering purposes.
// The inherit sentinel is truthy: it renders as an explicit CSS inherit.
func (v MarkValue) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindInherit:
		return true
	default:
		return false
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v MarkValue) Equal(o MarkValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	default:
		return true
	}
}

// String returns the CSS-ish textual form of the value.
func (v MarkValue) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindInherit:
		return InheritKeyword
	default:
		return ""
	}
}

// Marks is a set of formatting attributes keyed by mark name.
//
// A Marks map is immutable once shared: use With, Without and Merge, which
// return fresh maps. A nil Marks is the empty set.
type Marks map[string]MarkValue

// Get returns the value for key and whether it is set.
func (m Marks) Get(key string) (MarkValue, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is set (including the inherit sentinel).
func (m Marks) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Bool returns true only when key holds the boolean true.
func (m Marks) Bool(key string) bool {
	b, ok := m[key].AsBool()
	return ok && b
}

// Number returns the numeric value for key, if key holds a number.
func (m Marks) Number(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

// Str returns the string value for key, if key holds a string.
func (m Marks) Str(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Truthy reports whether key is set to a truthy value.
func (m Marks) Truthy(key string) bool {
	v, ok := m[key]
	return ok && v.Truthy()
}

// IsEmpty reports whether no key is set.
func (m Marks) IsEmpty() bool { return len(m) == 0 }

// Keys returns the set keys in sorted order.
func (m Marks) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of m with key set to v.
func (m Marks) With(key string, v MarkValue) Marks {
	out := make(Marks, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[key] = v
	return out
}

// Without returns a copy of m with key removed. An empty result is nil.
// If key is not set, m itself is returned.
func (m Marks) Without(key string) Marks {
	if _, ok := m[key]; !ok {
		return m
	}
	if len(m) == 1 {
		return nil
	}
	out := make(Marks, len(m)-1)
	for k, val := range m {
		if k != key {
			out[k] = val
		}
	}
	return out
}

// Merge returns a copy of m overlaid with over; values in over win.
func (m Marks) Merge(over Marks) Marks {
	if len(over) == 0 {
		return m
	}
	out := make(Marks, len(m)+len(over))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of m. The empty set clones to nil.
func (m Marks) Clone() Marks {
	if len(m) == 0 {
		return nil
	}
	out := make(Marks, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports deep equality. A nil set equals an empty one.
func (m Marks) Equal(o Marks) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

package doc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a document cannot be decoded.
var ErrInvalidJSON = errors.New("invalid document json")

// Encode serializes v to its persisted JSON shape:
//
//	[{"type":"paragraph","content":[{"text":"Hi","marks":{"bold":true}}]}]
//
// Marks are written in sorted key order so equal documents encode equally.
func Encode(v Value) ([]byte, error) {
	out := []byte("[]")
	for i, b := range v {
		block, err := encodeBlock(b)
		if err != nil {
			return nil, fmt.Errorf("encoding block %d: %w", i, err)
		}
		out, err = sjson.SetRawBytes(out, "-1", block)
		if err != nil {
			return nil, fmt.Errorf("encoding block %d: %w", i, err)
		}
	}
	return out, nil
}

func encodeBlock(b Block) ([]byte, error) {
	typ := b.Type
	if typ == "" {
		typ = ParagraphType
	}
	out, err := sjson.SetBytes([]byte("{}"), "type", typ)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "content", []byte("[]"))
	if err != nil {
		return nil, err
	}
	for _, n := range b.Content {
		node, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "content.-1", node); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeNode(n TextNode) ([]byte, error) {
	out, err := sjson.SetBytes([]byte("{}"), "text", n.Text)
	if err != nil {
		return nil, err
	}
	if n.Marks.IsEmpty() {
		return out, nil
	}
	marks, err := encodeMarks(n.Marks)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(out, "marks", marks)
}

func encodeMarks(m Marks) ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, k := range m.Keys() {
		path := escapePath(k)
		v := m[k]
		switch v.Kind() {
		case KindBool:
			out, err = sjson.SetBytes(out, path, v.b)
		case KindNumber:
			out, err = sjson.SetBytes(out, path, v.n)
		case KindString:
			out, err = sjson.SetBytes(out, path, v.s)
		case KindInherit:
			out, err = sjson.SetBytes(out, path, InheritKeyword)
		}
		if err != nil {
			return nil, fmt.Errorf("mark %q: %w", k, err)
		}
	}
	return out, nil
}

// escapePath escapes characters that carry meaning in sjson paths.
func escapePath(key string) string {
	if !strings.ContainsAny(key, `.*?|#@\`) {
		return key
	}
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Decode parses the persisted JSON shape. It is lenient about structure:
// a missing block type becomes "paragraph", a block without content becomes
// a blank line, and unknown mark keys are kept. The string "inherit" decodes
// to the inherit sentinel.
func Decode(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top level must be an array of blocks", ErrInvalidJSON)
	}

	var out Value
	var decodeErr error
	root.ForEach(func(_, block gjson.Result) bool {
		if !block.IsObject() {
			decodeErr = fmt.Errorf("%w: block %d is not an object", ErrInvalidJSON, len(out))
			return false
		}
		out = append(out, decodeBlock(block))
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if len(out) == 0 {
		return Empty(), nil
	}
	return out, nil
}

func decodeBlock(r gjson.Result) Block {
	typ := r.Get("type").String()
	if typ == "" {
		typ = ParagraphType
	}
	var content []TextNode
	r.Get("content").ForEach(func(_, node gjson.Result) bool {
		content = append(content, TextNode{
			Text:  node.Get("text").String(),
			Marks: decodeMarks(node.Get("marks")),
		})
		return true
	})
	if len(content) == 0 {
		content = []TextNode{{}}
	}
	return Block{Type: typ, Content: content}
}

func decodeMarks(r gjson.Result) Marks {
	if !r.IsObject() {
		return nil
	}
	var m Marks
	r.ForEach(func(key, val gjson.Result) bool {
		var v MarkValue
		switch val.Type {
		case gjson.True, gjson.False:
			v = Bool(val.Bool())
		case gjson.Number:
			v = Number(val.Num)
		case gjson.String:
			if val.Str == InheritKeyword {
				v = Inherit()
			} else {
				v = String(val.Str)
			}
		default:
			// null, objects and arrays carry no mark meaning
			return true
		}
		if m == nil {
			m = make(Marks)
		}
		m[key.String()] = v
		return true
	})
	return m
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return Encode(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

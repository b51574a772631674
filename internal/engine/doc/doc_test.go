package doc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func node(text string, m Marks) TextNode { return TextNode{Text: text, Marks: m} }

func TestMarkValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    MarkValue
		want bool
	}{
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"zero", Number(0), false},
		{"number", Number(12), true},
		{"empty string", String(""), false},
		{"string", String("#fff"), true},
		{"inherit", Inherit(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkValueEqualDistinguishesInherit(t *testing.T) {
	if Inherit().Equal(String(InheritKeyword)) {
		t.Error("inherit sentinel must differ from the string \"inherit\"")
	}
	if !Number(16).Equal(Number(16)) {
		t.Error("equal numbers should compare equal")
	}
	if Number(1).Equal(Bool(true)) {
		t.Error("different kinds should not compare equal")
	}
}

func TestMarksWithWithoutDoNotMutate(t *testing.T) {
	orig := Marks{Bold: Bool(true)}
	added := orig.With(Italic, Bool(true))
	if orig.Has(Italic) {
		t.Fatal("With mutated the receiver")
	}
	if !added.Bool(Bold) || !added.Bool(Italic) {
		t.Fatalf("unexpected marks: %v", added)
	}

	removed := added.Without(Bold)
	if !added.Has(Bold) {
		t.Fatal("Without mutated the receiver")
	}
	if removed.Has(Bold) || !removed.Bool(Italic) {
		t.Fatalf("unexpected marks: %v", removed)
	}
	if got := removed.Without(Italic); got != nil {
		t.Fatalf("removing the last key should yield nil, got %v", got)
	}
}

func TestMarksMergeNewValuesWin(t *testing.T) {
	base := Marks{Color: String("#000000"), Bold: Bool(true)}
	got := base.Merge(Marks{Color: String("#ff0000")})
	want := Marks{Color: String("#ff0000"), Bold: Bool(true)}
	if !got.Equal(want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestMarksEqualNilAndEmpty(t *testing.T) {
	var nilMarks Marks
	if !nilMarks.Equal(Marks{}) {
		t.Error("nil marks should equal empty marks")
	}
}

func TestFromPlainText(t *testing.T) {
	v := FromPlainText("one\r\ntwo\n\nfour")
	if len(v) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(v))
	}
	if got := v.PlainText(); got != "one\ntwo\n\nfour" {
		t.Fatalf("unexpected plain text: %q", got)
	}
	if !v[2].IsEmpty() {
		t.Fatal("third block should be blank")
	}
	if got := v.Len(); got != 3+1+3+1+0+1+4 {
		t.Fatalf("Len() = %d", got)
	}
}

func TestNormalizeBlockMergesEqualNeighbours(t *testing.T) {
	bold := Marks{Bold: Bool(true)}
	in := []TextNode{
		node("a", nil),
		node("b", Marks{}),
		node("c", bold),
		node("d", Marks{Bold: Bool(true)}),
		node("e", nil),
	}
	want := []TextNode{node("ab", nil), node("cd", bold), node("e", nil)}
	got := NormalizeBlock(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeBlock() mismatch (-want +got):\n%s", diff)
	}
	if in[0].Text != "a" {
		t.Fatal("NormalizeBlock mutated its input")
	}
}

func TestNormalizeBlockShortInputsUnchanged(t *testing.T) {
	if got := NormalizeBlock(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	single := []TextNode{node("x", Marks{Italic: Bool(true)})}
	if got := NormalizeBlock(single); &got[0] != &single[0] {
		t.Fatal("single-node input should be returned as is")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	v := Value{
		NewBlock(node("a", nil), node("b", nil), node("c", Marks{Underline: Bool(true)})),
		EmptyBlock(),
		NewBlock(node("x", Marks{FontSize: Number(20)}), node("y", Marks{FontSize: Number(20)})),
	}
	once := Normalize(v)
	twice := Normalize(once)
	if !IsNormalized(once) {
		t.Fatal("Normalize result violates the merge invariant")
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("Normalize not idempotent (-once +twice):\n%s", diff)
	}
	if len(once) != len(v) {
		t.Fatalf("block count changed: %d -> %d", len(v), len(once))
	}
}

func TestEncodeShape(t *testing.T) {
	v := Value{NewBlock(
		node("Hi", Marks{Bold: Bool(true), FontSize: Inherit(), Color: String("#ff0000")}),
		node(" there", nil),
	)}
	data, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"type":"paragraph","content":[{"text":"Hi","marks":{"bold":true,"color":"#ff0000","fontSize":"inherit"}},{"text":" there"}]}]`
	if string(data) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", data, want)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	v := Value{
		NewBlock(node("a\"b", Marks{FontWeight: Number(600), LineHeight: Number(1.5)})),
		EmptyBlock(),
	}
	data, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(v) {
		t.Fatalf("round trip mismatch: %s", data)
	}
}

func TestDecodeLenient(t *testing.T) {
	got, err := Decode([]byte(`[{"content":[{"text":"x","marks":{"bold":true,"custom":null,"fontFamily":"inherit"}}]},{}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got))
	}
	if got[0].Type != ParagraphType {
		t.Fatalf("missing type should default to paragraph, got %q", got[0].Type)
	}
	m := got[0].Content[0].Marks
	if !m.Bool(Bold) || m.Has("custom") {
		t.Fatalf("unexpected marks: %v", m)
	}
	if v, _ := m.Get(FontFamily); !v.IsInherit() {
		t.Fatalf("fontFamily should decode to inherit, got %v", v)
	}
	if !got[1].IsEmpty() || len(got[1].Content) != 1 {
		t.Fatalf("block without content should become a blank line: %+v", got[1])
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, in := range []string{`{`, `{"type":"paragraph"}`, `[1]`} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("Decode(%s) error = %v, want ErrInvalidJSON", in, err)
		}
	}
	got, err := Decode([]byte(`[]`))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(Empty()) {
		t.Fatalf("empty array should decode to an empty document, got %+v", got)
	}
}

func TestValueJSONMarshaler(t *testing.T) {
	type envelope struct {
		Body Value `json:"body"`
	}
	in := envelope{Body: FromPlainText("hello")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out envelope
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Body.Equal(in.Body) {
		t.Fatalf("unexpected body: %s", data)
	}
}

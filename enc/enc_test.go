// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package enc_test

import (
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/toon/ast"
	"github.com/creachadair/toon/enc"
	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input *enc.Object
		want  string
	}{
		{"Empty", &enc.Object{}, ""},

		{"Scalars", &enc.Object{Members: []*enc.Member{
			enc.Field("name", "John Doe"),
			enc.Field("age", 30),
			enc.Field("active", true),
			enc.Field("score", 99.5),
			enc.Field("note", nil),
		}},
			"name: John Doe\nage: 30\nactive: true\nscore: 99.5\nnote: null\n"},

		{"ScalarArray", &enc.Object{Members: []*enc.Member{
			enc.Field("colors", enc.Array{"red", "green", "blue"}),
		}},
			"colors[3]: red,green,blue\n"},

		{"EmptyArray", &enc.Object{Members: []*enc.Member{
			enc.Field("tags", enc.Array{}),
		}},
			"tags[0]:\n"},

		{"MixedScalarArray", &enc.Object{Members: []*enc.Member{
			enc.Field("vals", enc.Array{1, "two", false, nil}),
		}},
			"vals[4]: 1,two,false,null\n"},

		{"Table", &enc.Object{Members: []*enc.Member{
			enc.Field("users", enc.Array{
				&enc.Object{Members: []*enc.Member{enc.Field("id", 1), enc.Field("name", "Alice")}},
				&enc.Object{Members: []*enc.Member{enc.Field("id", 2), enc.Field("name", "Bob")}},
			}),
		}},
			"users[2]{id,name}:\n  1,Alice\n  2,Bob\n"},

		{"NestedObject", &enc.Object{Members: []*enc.Member{
			enc.Field("user", &enc.Object{Members: []*enc.Member{
				enc.Field("name", "Jane"),
				enc.Field("settings", &enc.Object{Members: []*enc.Member{
					enc.Field("theme", "dark"),
				}}),
			}}),
			enc.Field("active", true),
		}},
			"user:\n  name: Jane\n  settings:\n    theme: dark\nactive: true\n"},

		// Mismatched element shapes have no array form; the encoder falls
		// back to an object keyed by element index.
		{"MixedShapeFallback", &enc.Object{Members: []*enc.Member{
			enc.Field("items", enc.Array{
				1,
				&enc.Object{Members: []*enc.Member{enc.Field("id", 2)}},
			}),
		}},
			"items:\n  \"0\": 1\n  \"1\":\n    id: 2\n"},

		{"NestedArrayFallback", &enc.Object{Members: []*enc.Member{
			enc.Field("grid", enc.Array{
				enc.Array{1, 2},
				enc.Array{3, 4},
			}),
		}},
			"grid:\n  \"0\"[2]: 1,2\n  \"1\"[2]: 3,4\n"},

		// Ragged or nested-valued object arrays are not tables.
		{"RaggedObjects", &enc.Object{Members: []*enc.Member{
			enc.Field("rows", enc.Array{
				&enc.Object{Members: []*enc.Member{enc.Field("a", 1)}},
				&enc.Object{Members: []*enc.Member{enc.Field("a", 2), enc.Field("b", 3)}},
			}),
		}},
			"rows:\n  \"0\":\n    a: 1\n  \"1\":\n    a: 2\n    b: 3\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := enc.Encode(test.input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Encode: (-want, +got)\n%s", diff)
			}

			// Whatever the encoder writes, the parser must accept cleanly.
			res := ast.ParseString(got)
			if res.HasErrors() {
				t.Errorf("Reparsing output %#q: %v", got, res.Errors)
			}
		})
	}
}

func TestEncode_quoting(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"plain text", "k: plain text\n"},
		{"", "k: \"\"\n"},
		{"  padded  ", `k: "  padded  "` + "\n"},
		{"a, b", `k: "a, b"` + "\n"},
		{"colon: inside", `k: "colon: inside"` + "\n"},
		{"[markers]", `k: "[markers]"` + "\n"},
		{"{braces}", `k: "{braces}"` + "\n"},
		{`say "hi"`, `k: "say \"hi\""` + "\n"},
		{"line\nbreak", `k: "line\nbreak"` + "\n"},
		{"tab\there", `k: "tab\there"` + "\n"},

		// Strings that read as other literal forms must be quoted to keep
		// their type on re-parse.
		{"true", `k: "true"` + "\n"},
		{"null", `k: "null"` + "\n"},
		{"42", `k: "42"` + "\n"},
		{"-1.5e3", `k: "-1.5e3"` + "\n"},

		// Near-misses stay bare.
		{"True", "k: True\n"},
		{"42x", "k: 42x\n"},
	}
	for _, test := range tests {
		o := &enc.Object{Members: []*enc.Member{enc.Field("k", test.value)}}
		if got := enc.Encode(o); got != test.want {
			t.Errorf("Encode %q: got %#q, want %#q", test.value, got, test.want)
		}
	}
}

func TestEncode_keyQuoting(t *testing.T) {
	o := &enc.Object{Members: []*enc.Member{
		enc.Field("full name", "Jane"), // interior space is fine bare
		enc.Field("a:b", 1),
		enc.Field("", 2),
		enc.Field("123", 3),
	}}
	const want = "full name: Jane\n" +
		`"a:b": 1` + "\n" +
		`"": 2` + "\n" +
		`"123": 3` + "\n"
	if got := enc.Encode(o); got != want {
		t.Errorf("Encode: got %#q, want %#q", got, want)
	}
}

func TestFormatter_indent(t *testing.T) {
	f := enc.Formatter{Indent: 4}
	o := &enc.Object{Members: []*enc.Member{
		enc.Field("a", &enc.Object{Members: []*enc.Member{enc.Field("b", 1)}}),
	}}
	const want = "a:\n    b: 1\n"
	if got := f.Encode(o); got != want {
		t.Errorf("Encode: got %#q, want %#q", got, want)
	}
}

func TestToValue(t *testing.T) {
	// Map members come out sorted by key regardless of insertion order.
	v := enc.ToValue(map[string]any{
		"zebra": 1,
		"apple": []any{"x", "y"},
		"mango": map[string]any{"inner": true},
	})
	o, ok := v.(*enc.Object)
	if !ok {
		t.Fatalf("ToValue: got %T, want *enc.Object", v)
	}
	var keys []string
	for _, m := range o.Members {
		keys = append(keys, m.Key)
	}
	if diff := cmp.Diff([]string{"apple", "mango", "zebra"}, keys); diff != "" {
		t.Errorf("Member keys: (-want, +got)\n%s", diff)
	}
	if m := o.Find("apple"); m == nil {
		t.Error(`Find("apple"): not found`)
	} else if a, ok := m.Value.(enc.Array); !ok || len(a) != 2 {
		t.Errorf(`Member "apple": got %v, want a 2-element array`, m.Value)
	}

	mtest.MustPanicf(t, func() { enc.ToValue(struct{}{}) },
		"ToValue on an unsupported type should panic")
	mtest.MustPanicf(t, func() { enc.ToValue(map[int]any{1: "x"}) },
		"ToValue on a non-string-keyed map should panic")
}

// Encoding a parsed document and parsing it again must reproduce the same
// structure for every representable shape.
func TestRoundTrip(t *testing.T) {
	tests := []string{
		"name: John Doe\nage: 30\nactive: true\n",
		"colors[3]: red,green,blue\n",
		"tags[0]:\n",
		"users[2]{id,name}:\n  1,Alice\n  2,Bob\n",
		"user:\n  name: Jane\n  settings:\n    theme: dark\nactive: true\n",
		"a: null\nb: \"quoted, text\"\nc: -2.5e-3\n",
		"\"odd key\": 1\nplain: \"true\"\n",
	}
	for _, input := range tests {
		first := ast.ParseString(input)
		if first.HasErrors() {
			t.Errorf("Parse %#q: %v", input, first.Errors)
			continue
		}
		text := enc.Encode(enc.FromDocument(first.Doc))
		second := ast.ParseString(text)
		if second.HasErrors() {
			t.Errorf("Reparse %#q: %v", text, second.Errors)
			continue
		}
		if !first.Doc.Equal(second.Doc) {
			t.Errorf("Round trip of %#q changed the document:\nfirst:  %s\nsecond: %s",
				input, ast.DumpString(first.Doc), ast.DumpString(second.Doc))
		}
		// Re-encoding the reparse is a fixed point.
		if again := enc.Encode(enc.FromDocument(second.Doc)); again != text {
			t.Errorf("Re-encode of %#q: got %#q, want %#q", input, again, text)
		}
	}
}

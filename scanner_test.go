// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package toon_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/toon"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []toon.Token
	}{
		// Empty inputs
		{"", nil},
		{"   ", nil},
		{"\n\n  \n", nil},

		// Scalar properties and classification
		{"name: John Doe", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Ident,
		}},
		{"age: 30", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Number,
		}},
		{"a: null\nb: true\nc: false", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Null, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.True, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.False,
		}},
		{"x: -1.5e3\ny: 1.2.3\nz: nulls", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Number, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.Ident, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.Ident,
		}},

		// Quoted strings
		{`msg: "with, commas: and [brackets]"`, []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.String,
		}},
		{`msg: "tab\tand\nnewline"`, []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.String,
		}},

		// Array and table headers
		{"colors[3]: red,green,blue", []toon.Token{
			toon.Indent, toon.Ident, toon.LBracket, toon.Number, toon.RBracket, toon.Colon,
			toon.Ident, toon.Comma, toon.Ident, toon.Comma, toon.Ident,
		}},
		{"users[2]{id,name}:", []toon.Token{
			toon.Indent, toon.Ident, toon.LBracket, toon.Number, toon.RBracket,
			toon.LBrace, toon.Ident, toon.Comma, toon.Ident, toon.RBrace, toon.Colon,
		}},

		// Nesting
		{"user:\n  name: Jane", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.Ident,
		}},

		// Lexical errors resynchronize at the line boundary: no Newline
		// token is reported for the discarded remainder.
		{`x: "oops`, []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.LexError,
		}},
		{"x: \"oops\ny: 2", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.LexError,
			toon.Indent, toon.Ident, toon.Colon, toon.Number,
		}},
		{"\tx: 1\ny: 2", []toon.Token{
			toon.LexError,
			toon.Indent, toon.Ident, toon.Colon, toon.Number,
		}},
		{`x: "bad \q escape"` + "\ny: 2", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.LexError,
			toon.Indent, toon.Ident, toon.Colon, toon.Number,
		}},

		// Windows line breaks
		{"a: 1\r\nb: 2", []toon.Token{
			toon.Indent, toon.Ident, toon.Colon, toon.Number, toon.Newline,
			toon.Indent, toon.Ident, toon.Colon, toon.Number,
		}},
	}

	for _, test := range tests {
		var got []toon.Token
		s := toon.NewScanner(strings.NewReader(test.input))
		for s.Next() {
			got = append(got, s.Token())
		}
		if s.Err() != nil {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_text(t *testing.T) {
	tests := []struct {
		input string
		tok   toon.Token
		want  []string
	}{
		{"name: John Doe", toon.Ident, []string{"name", "John Doe"}},
		{"k:  padded value  ", toon.Ident, []string{"k", "padded value"}},
		{"colors[3]: red, green ,blue", toon.Ident, []string{"colors", "red", "green", "blue"}},
		{`s: "a, b"`, toon.String, []string{`"a, b"`}},
		{"n: 42\nm: -0.25", toon.Number, []string{"42", "-0.25"}},
	}
	for _, test := range tests {
		var got []string
		s := toon.NewScanner(strings.NewReader(test.input))
		for s.Next() {
			if s.Token() == test.tok {
				got = append(got, string(s.Text()))
			}
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nText: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_indentWidths(t *testing.T) {
	const input = "a:\n  b:\n    c: 1\n  d: 2\ne: 3"
	want := []int{0, 2, 4, 2, 0}

	var got []int
	s := toon.NewScanner(strings.NewReader(input))
	for s.Next() {
		if s.Token() == toon.Indent {
			got = append(got, s.Width())
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Indent widths: (-want, +got)\n%s", diff)
	}
}

func TestScanner_errors(t *testing.T) {
	tests := []struct {
		input   string
		kind    toon.ErrorKind
		mention string
	}{
		{`x: "oops`, toon.UnterminatedString, "Unterminated"},
		{"x: \"oops\nmore: stuff", toon.UnterminatedString, "Unterminated"},
		{`x: "bad \q"`, toon.InvalidEscape, "escape"},
		{`x: "bad \u00ZZ"`, toon.InvalidEscape, "Unicode"},
		{"\ta: 1", toon.IndentationError, "tab"},
	}
	for _, test := range tests {
		s := toon.NewScanner(strings.NewReader(test.input))
		var found bool
		for s.Next() {
			if s.Token() != toon.LexError {
				continue
			}
			found = true
			if s.ErrKind() != test.kind {
				t.Errorf("Input %#q: got kind %v, want %v", test.input, s.ErrKind(), test.kind)
			}
			if got := string(s.Text()); !strings.Contains(got, test.mention) {
				t.Errorf("Input %#q: message %q does not mention %q", test.input, got, test.mention)
			}
		}
		if !found {
			t.Errorf("Input %#q: no LexError token reported", test.input)
		}
	}
}

// A read failure ends the token stream immediately: the scanner must not
// surface a partial token for input cut off mid-scan.
func TestScanner_readError(t *testing.T) {
	tests := []string{
		`x: `,       // before a value
		`x: a`,      // inside a bare scalar
		`x: "a`,     // inside a string literal
		`x: "a\`,    // inside an escape sequence
		`x: "a\u00`, // inside a Unicode escape
	}
	want := []toon.Token{toon.Indent, toon.Ident, toon.Colon}
	for _, test := range tests {
		s := toon.NewScanner(&brokenReader{data: test})
		var got []toon.Token
		for s.Next() {
			got = append(got, s.Token())
		}
		if s.Err() == nil {
			t.Errorf("Input %#q: Err is nil, want a read error", test)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Input %#q: tokens (-want, +got)\n%s", test, diff)
		}
	}
}

// A brokenReader delivers its data and then fails.
type brokenReader struct{ data string }

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("broken pipe")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestScanner_location(t *testing.T) {
	// The unterminated string diagnostic is anchored at the opening quote.
	const input = "ok: 1\nbad: \"unfinished\nnext: 2"

	s := toon.NewScanner(strings.NewReader(input))
	for s.Next() {
		if s.Token() == toon.LexError {
			loc := s.Location()
			if loc.First.Line != 2 || loc.First.Column != 5 {
				t.Errorf("Error location: got %v, want 2:5", loc.First)
			}
			return
		}
	}
	t.Fatal("No LexError token reported")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want toon.Token
	}{
		{"null", toon.Null},
		{"true", toon.True},
		{"false", toon.False},
		{"0", toon.Number},
		{"-17", toon.Number},
		{"2.5", toon.Number},
		{"-0.001E-100", toon.Number},
		{"5e+9", toon.Number},
		{"", toon.Ident},
		{"hello", toon.Ident},
		{"True", toon.Ident},
		{"nullish", toon.Ident},
		{"1.2.3", toon.Ident},
		{"1e", toon.Ident},
		{"-", toon.Ident},
		{".5", toon.Ident},
		{"1.", toon.Ident},
		{"+3", toon.Ident},
	}
	for _, test := range tests {
		if got := toon.Classify(test.text); got != test.want {
			t.Errorf("Classify(%q): got %v, want %v", test.text, got, test.want)
		}
	}
}

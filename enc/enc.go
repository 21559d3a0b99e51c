// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package enc serializes JSON-like value trees as TOON text.
//
// The encoder walks an ordered value tree and chooses between scalar,
// inline-array, tabular-array, and nested-object representations:
//
//	age: 30                   // scalar member
//	colors[3]: red,green,blue // array of scalars
//	users[2]{id,name}:        // array of objects sharing one field schema
//	  1,Alice
//	  2,Bob
//	settings:                 // object-valued member
//	  theme: dark
//
// An array whose elements are of mixed shapes, or contain nested arrays or
// objects, has no TOON array form. It falls back to a nested object keyed
// by element index ("0", "1", ...). The fallback is deliberately lossy: the
// array re-parses as an object. Every other representation round-trips.
//
// Member order follows the order of the supplied tree; the encoder does not
// sort keys, and encoding the same tree always yields identical output.
package enc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/creachadair/toon"
)

// A Value is a JSON-like value to be encoded. The valid concrete types are
// nil, bool, string, int, int64, float64, json.Number, Array, and *Object.
type Value any

// An Array is an ordered sequence of values.
type Array []Value

// An Object is an ordered collection of key-value members.
type Object struct {
	Members []*Member
}

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

func (o Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Members)) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// The value must be valid for ToValue.
func Field(key string, value any) *Member { return &Member{Key: key, Value: ToValue(value)} }

// ToValue converts a plain Go value into a Value. It accepts the Value
// types themselves, []any, and map[string]any; map keys are sorted so that
// encoding stays deterministic, since a Go map supplies no order of its
// own. ToValue panics if v does not have a supported type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil, bool, string, int, int64, float64, json.Number:
		return t
	case Array:
		return t
	case *Object:
		return t
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = ToValue(elt)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := &Object{Members: make([]*Member, len(keys))}
		for i, key := range keys {
			out.Members[i] = &Member{Key: key, Value: ToValue(t[key])}
		}
		return out
	}
	panic(fmt.Sprintf("invalid value %T", v))
}

// A Formatter carries the settings for encoding values as TOON text.
// A zero value is ready for use with default settings.
type Formatter struct {
	Indent int // spaces per nesting level; 0 means 2
}

func (f Formatter) indent() string {
	if f.Indent <= 0 {
		return "  "
	}
	return strings.Repeat(" ", f.Indent)
}

// Encode renders o as TOON text with default settings.
func Encode(o *Object) string {
	var f Formatter
	return f.Encode(o)
}

// Encode renders o as TOON text using the settings from f.
func (f Formatter) Encode(o *Object) string {
	var sb strings.Builder
	f.Format(&sb, o) // cannot fail on a strings.Builder
	return sb.String()
}

// Format renders o as TOON text to w using the settings from f.
func (f Formatter) Format(w io.Writer, o *Object) error {
	bw := bufio.NewWriter(w)
	f.formatMembers(bw, o, 0)
	return bw.Flush()
}

func (f Formatter) formatMembers(w *bufio.Writer, o *Object, depth int) {
	for _, m := range o.Members {
		f.formatMember(w, m.Key, m.Value, depth)
	}
}

func (f Formatter) formatMember(w *bufio.Writer, key string, v Value, depth int) {
	pad := strings.Repeat(f.indent(), depth)
	switch t := v.(type) {
	case *Object:
		fmt.Fprintf(w, "%s%s:\n", pad, encodeKey(key))
		f.formatMembers(w, t, depth+1)
	case Array:
		f.formatArray(w, key, t, depth)
	default:
		fmt.Fprintf(w, "%s%s: %s\n", pad, encodeKey(key), encodeScalar(v))
	}
}

func (f Formatter) formatArray(w *bufio.Writer, key string, a Array, depth int) {
	pad := strings.Repeat(f.indent(), depth)
	if allScalar(a) {
		ss := make([]string, len(a))
		for i, v := range a {
			ss[i] = encodeScalar(v)
		}
		fmt.Fprintf(w, "%s%s[%d]:", pad, encodeKey(key), len(a))
		if len(a) != 0 {
			fmt.Fprint(w, " ", strings.Join(ss, ","))
		}
		fmt.Fprintln(w)
		return
	}
	if cols, ok := tableShape(a); ok {
		hs := make([]string, len(cols))
		for i, col := range cols {
			hs[i] = encodeKey(col)
		}
		fmt.Fprintf(w, "%s%s[%d]{%s}:\n", pad, encodeKey(key), len(a), strings.Join(hs, ","))
		rpad := pad + f.indent()
		for _, elt := range a {
			o := elt.(*Object)
			ss := make([]string, len(o.Members))
			for i, m := range o.Members {
				ss[i] = encodeScalar(m.Value)
			}
			fmt.Fprintf(w, "%s%s\n", rpad, strings.Join(ss, ","))
		}
		return
	}

	// No TOON array form fits: fall back to an index-keyed object.
	fmt.Fprintf(w, "%s%s:\n", pad, encodeKey(key))
	for i, elt := range a {
		f.formatMember(w, strconv.Itoa(i), elt, depth+1)
	}
}

// tableShape reports the shared column schema of a, if a is a non-empty
// array of objects that all have the same ordered field names with scalar
// values.
func tableShape(a Array) ([]string, bool) {
	if len(a) == 0 {
		return nil, false
	}
	first, ok := a[0].(*Object)
	if !ok {
		return nil, false
	}
	cols := make([]string, len(first.Members))
	for i, m := range first.Members {
		cols[i] = m.Key
	}
	for _, elt := range a {
		o, ok := elt.(*Object)
		if !ok || len(o.Members) != len(cols) {
			return nil, false
		}
		for i, m := range o.Members {
			if m.Key != cols[i] || !isScalar(m.Value) {
				return nil, false
			}
		}
	}
	return cols, true
}

func allScalar(a Array) bool {
	for _, v := range a {
		if !isScalar(v) {
			return false
		}
	}
	return true
}

func isScalar(v Value) bool {
	switch v.(type) {
	case nil, bool, string, int, int64, float64, json.Number:
		return true
	}
	return false
}

func encodeScalar(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		if needsQuote(t) {
			return toon.Quote(t)
		}
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	}
	panic(fmt.Sprintf("invalid value %T", v))
}

func encodeKey(key string) string {
	if needsQuote(key) {
		return toon.Quote(key)
	}
	return key
}

// needsQuote reports whether s must be written as a quoted literal because
// its bare form would be mis-tokenized: it is empty, carries leading or
// trailing whitespace, contains a structural delimiter, quote, control
// character, or line break, or reads as a number, Boolean, or null literal.
func needsQuote(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':', ',', '[', ']', '{', '}', '"':
			return true
		}
		if s[i] < ' ' {
			return true
		}
	}
	return toon.Classify(s) != toon.Ident
}

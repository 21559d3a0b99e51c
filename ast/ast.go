// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a document tree for TOON values, and a parser that
// constructs document trees from TOON source.
//
// The parser never fails on malformed input: it records structured
// diagnostics, resynchronizes at the next line boundary, and keeps going.
// See Parse and TryParse.
package ast

import "fmt"

// A Value is an arbitrary TOON value. The concrete type is one of String,
// Number, Bool, Null, *Array, *Table, or *Object.
type Value interface {
	isValue()
}

// A String is a string value.
type String string

// A Number is a numeric value.
type Number float64

// A Bool is a Boolean constant, true or false.
type Bool bool

// Null represents the null constant.
type Null struct{}

// An Array is a scalar-only inline array with a declared length.
//
// The declared length should equal len(Values); when the input disagrees the
// parser reports ArrayLengthMismatch and retains the elements actually
// parsed, so the two may differ in a document parsed from malformed text.
type Array struct {
	N      int // declared length
	Values []Value
}

func (a Array) String() string { return fmt.Sprintf("Array(n=%d, len=%d)", a.N, len(a.Values)) }

// A Table is an array of rows sharing a declared column schema.
// Column order is significant, and duplicate names are retained as written.
type Table struct {
	N       int // declared length
	Columns []string
	Rows    [][]Value
}

func (t Table) String() string {
	return fmt.Sprintf("Table(n=%d, cols=%d, rows=%d)", t.N, len(t.Columns), len(t.Rows))
}

// An Object is a nested document introduced by indentation.
type Object struct {
	Properties []Property
}

func (o Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Properties)) }

// Find returns the first property of o with the given key, or nil.
func (o *Object) Find(key string) *Property { return findProp(o.Properties, key) }

// Index returns the index of the first property of o with the given key,
// or -1.
func (o *Object) Index(key string) int { return indexProp(o.Properties, key) }

func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (*Array) isValue() {}
func (*Table) isValue() {}
func (*Object) isValue() {}

// A Property is a single key-value pair. Keys are not required to be unique
// within a document or object; duplicates are permitted and retained in
// declaration order.
type Property struct {
	Key   string
	Value Value
}

// A Document is the ordered sequence of top-level properties resulting from
// a parse. Order is significant and is preserved on re-encoding.
type Document struct {
	Properties []Property
}

// Find returns the first property of d with the given key, or nil.
func (d *Document) Find(key string) *Property { return findProp(d.Properties, key) }

// Index returns the index of the first property of d with the given key,
// or -1.
func (d *Document) Index(key string) int { return indexProp(d.Properties, key) }

// Len reports the number of top-level properties of d.
func (d *Document) Len() int { return len(d.Properties) }

// Equal reports whether d and e are structurally equal: their ordered
// property sequences and all nested values are equal.
func (d *Document) Equal(e *Document) bool { return equalProps(d.Properties, e.Properties) }

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	switch t := a.(type) {
	case String:
		u, ok := b.(String)
		return ok && t == u
	case Number:
		u, ok := b.(Number)
		return ok && t == u
	case Bool:
		u, ok := b.(Bool)
		return ok && t == u
	case Null:
		_, ok := b.(Null)
		return ok
	case *Array:
		u, ok := b.(*Array)
		if !ok || t.N != u.N || len(t.Values) != len(u.Values) {
			return false
		}
		for i, v := range t.Values {
			if !Equal(v, u.Values[i]) {
				return false
			}
		}
		return true
	case *Table:
		u, ok := b.(*Table)
		if !ok || t.N != u.N || len(t.Columns) != len(u.Columns) || len(t.Rows) != len(u.Rows) {
			return false
		}
		for i, c := range t.Columns {
			if c != u.Columns[i] {
				return false
			}
		}
		for i, row := range t.Rows {
			if len(row) != len(u.Rows[i]) {
				return false
			}
			for j, v := range row {
				if !Equal(v, u.Rows[i][j]) {
					return false
				}
			}
		}
		return true
	case *Object:
		u, ok := b.(*Object)
		return ok && equalProps(t.Properties, u.Properties)
	}
	return false
}

func equalProps(a, b []Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i, p := range a {
		if p.Key != b[i].Key || !Equal(p.Value, b[i].Value) {
			return false
		}
	}
	return true
}

func findProp(props []Property, key string) *Property {
	if i := indexProp(props, key); i >= 0 {
		return &props[i]
	}
	return nil
}

func indexProp(props []Property, key string) int {
	for i, p := range props {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package enc

import "github.com/creachadair/toon/ast"

// FromDocument converts a parsed TOON document into the encoder's value
// tree. Tables become arrays of uniform objects, so a valid document passed
// through Encode re-parses to an equivalent document.
//
// A table with zero rows has no object elements to carry its schema; it
// converts to an empty array, and its column names are not preserved.
func FromDocument(d *ast.Document) *Object {
	return &Object{Members: fromProperties(d.Properties)}
}

func fromProperties(props []ast.Property) []*Member {
	ms := make([]*Member, len(props))
	for i, p := range props {
		ms[i] = &Member{Key: p.Key, Value: fromAST(p.Value)}
	}
	return ms
}

func fromAST(v ast.Value) Value {
	switch t := v.(type) {
	case ast.String:
		return string(t)
	case ast.Number:
		return float64(t)
	case ast.Bool:
		return bool(t)
	case ast.Null:
		return nil
	case *ast.Array:
		out := make(Array, len(t.Values))
		for i, elt := range t.Values {
			out[i] = fromAST(elt)
		}
		return out
	case *ast.Table:
		out := make(Array, 0, len(t.Rows))
		for _, row := range t.Rows {
			o := &Object{Members: make([]*Member, 0, len(t.Columns))}
			for i, col := range t.Columns {
				if i < len(row) {
					o.Members = append(o.Members, &Member{Key: col, Value: fromAST(row[i])})
				}
			}
			out = append(out, o)
		}
		return out
	case *ast.Object:
		return &Object{Members: fromProperties(t.Properties)}
	}
	return nil
}

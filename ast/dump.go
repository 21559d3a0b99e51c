// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a human-readable nested listing of d to w, for diagnostic
// use. The output format is not a stability contract and is not intended to
// be parsed back.
//
// The traversal is iterative with an explicit stack, so adversarially deep
// documents do not exhaust the call stack.
func Dump(w io.Writer, d *Document) error {
	bw := bufio.NewWriter(w)

	type entry struct {
		indent int
		prop   Property
	}
	var stk []entry
	push := func(indent int, props []Property) {
		for i := len(props) - 1; i >= 0; i-- {
			stk = append(stk, entry{indent, props[i]})
		}
	}
	push(0, d.Properties)

	for len(stk) > 0 {
		e := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		pad := strings.Repeat("  ", e.indent)

		switch v := e.prop.Value.(type) {
		case *Object:
			fmt.Fprintf(bw, "%s%s:\n", pad, e.prop.Key)
			push(e.indent+1, v.Properties)
		case *Array:
			fmt.Fprintf(bw, "%s%s[%d]: %s\n", pad, e.prop.Key, v.N, dumpRow(v.Values))
		case *Table:
			fmt.Fprintf(bw, "%s%s[%d]{%s}:\n", pad, e.prop.Key, v.N, strings.Join(v.Columns, ", "))
			for _, row := range v.Rows {
				fmt.Fprintf(bw, "%s  [%s]\n", pad, dumpRow(row))
			}
		default:
			fmt.Fprintf(bw, "%s%s: %s\n", pad, e.prop.Key, dumpScalar(e.prop.Value))
		}
	}
	return bw.Flush()
}

// DumpString returns the diagnostic listing of d as a string.
func DumpString(d *Document) string {
	var buf bytes.Buffer
	Dump(&buf, d) // cannot fail on a bytes.Buffer
	return buf.String()
}

func dumpRow(vs []Value) string {
	ss := make([]string, len(vs))
	for i, v := range vs {
		ss[i] = dumpScalar(v)
	}
	return strings.Join(ss, ", ")
}

func dumpScalar(v Value) string {
	switch t := v.(type) {
	case String:
		return strconv.Quote(string(t))
	case Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(t))
	case Null:
		return "null"
	}
	return fmt.Sprintf("<%T>", v)
}

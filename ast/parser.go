// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/toon"
)

// A ParseError is a single diagnostic recorded while parsing TOON input.
type ParseError struct {
	Kind    toon.ErrorKind
	Message string
	Line    int // 1-based
	Column  int // byte offset in line, 0-based
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// A Result is the outcome of parsing a TOON document. Doc is always
// non-nil, and holds every property that could be recovered; Errors lists
// every diagnostic encountered, in source order.
type Result struct {
	Doc    *Document
	Errors []*ParseError
}

// HasErrors reports whether any diagnostics were recorded.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// A Parser parses TOON documents. A zero value is ready for use with
// default settings. Parsers are stateless across calls; a single Parser may
// be used from multiple goroutines.
type Parser struct {
	unit int // indentation unit in spaces; 0 means 2
}

// NewParser constructs a parser with default settings.
func NewParser() *Parser { return new(Parser) }

// SetIndentUnit sets the indentation unit of p to n spaces.
// It panics if n < 1.
func (p *Parser) SetIndentUnit(n int) {
	if n < 1 {
		panic("indent unit must be positive")
	}
	p.unit = n
}

func (p *Parser) indentUnit() int {
	if p.unit == 0 {
		return 2
	}
	return p.unit
}

// Parse parses a TOON document from r. Parse does not fail on malformed
// text: the result records a diagnostic for every lexical, syntactic, or
// semantic condition found, and its document reflects best-effort recovery.
func (p *Parser) Parse(r io.Reader) *Result {
	st := &parseState{unit: p.indentUnit()}
	st.collect(r)
	props := st.parseBlock(0)
	return &Result{Doc: &Document{Properties: props}, Errors: st.errs}
}

// Parse parses a TOON document from r with default settings.
// See [Parser.Parse].
func Parse(r io.Reader) *Result { return new(Parser).Parse(r) }

// ParseString parses a TOON document from s with default settings.
func ParseString(s string) *Result { return Parse(strings.NewReader(s)) }

// TryParse parses a TOON document from r with default settings. Its
// semantics are identical to Parse for malformed input: ok is true and any
// diagnostics are in the result. ok is false only if an internal defect was
// contained at the boundary, in which case the result carries a single
// InternalError diagnostic describing it.
func TryParse(r io.Reader) (res *Result, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			res = &Result{
				Doc: new(Document),
				Errors: []*ParseError{{
					Kind:    toon.InternalError,
					Message: fmt.Sprintf("internal error: %v", v),
					Line:    1,
				}},
			}
			ok = false
		}
	}()
	return Parse(r), true
}

// A token is a position-tagged lexical token captured from the scanner.
type token struct {
	tok       toon.Token
	text      string
	kind      toon.ErrorKind // valid when tok == LexError
	line, col int
}

// A srcLine is one logical line of input: its measured indentation width and
// the tokens that follow, line break excluded.
type srcLine struct {
	width int
	toks  []token
}

// parseState carries the token-stream traversal state for a single parse.
type parseState struct {
	lines []srcLine
	pos   int
	unit  int
	errs  []*ParseError
}

// collect drains the scanner into logical lines. Lexical error tokens are
// retained in place; the scanner has already resynchronized past them.
func (p *parseState) collect(r io.Reader) {
	sc := toon.NewScanner(r)
	open := false // a line is being accumulated
	for sc.Next() {
		loc := sc.Location().First
		switch sc.Token() {
		case toon.Indent:
			p.lines = append(p.lines, srcLine{width: sc.Width()})
			open = true
			continue
		case toon.Newline:
			open = false
			continue
		}

		t := token{
			tok:  sc.Token(),
			text: string(sc.Text()),
			kind: sc.ErrKind(),
			line: loc.Line,
			col:  loc.Column,
		}
		if !open {
			p.lines = append(p.lines, srcLine{toks: []token{t}})
		} else {
			n := len(p.lines) - 1
			p.lines[n].toks = append(p.lines[n].toks, t)
		}
		if t.tok == toon.LexError {
			open = false // the scanner resumed on a fresh line
		}
	}
	if err := sc.Err(); err != nil {
		p.errs = append(p.errs, &ParseError{
			Kind:    toon.InternalError,
			Message: fmt.Sprintf("read error: %v", err),
			Line:    sc.Location().First.Line,
		})
	}
}

func (p *parseState) errorf(kind toon.ErrorKind, at token, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    at.line,
		Column:  at.col,
	})
}

// lexErr records the diagnostic carried by a LexError token.
func (p *parseState) lexErr(t token) { p.errorf(t.kind, t, "%s", t.text) }

// depthOf reports the nesting depth of ln, or false if its indentation
// width is not a whole multiple of the unit.
func (p *parseState) depthOf(ln srcLine) (int, bool) {
	if ln.width%p.unit != 0 {
		return 0, false
	}
	return ln.width / p.unit, true
}

// skipDeeper discards lines more deeply indented than width. This is the
// resynchronization point after an error: everything that would have nested
// under the malformed line is dropped, and parsing resumes at the next line
// at the same or a shallower level.
func (p *parseState) skipDeeper(width int) {
	for p.pos < len(p.lines) && p.lines[p.pos].width > width {
		p.pos++
	}
}

// parseBlock parses consecutive property lines at the given depth, stopping
// at a dedent or the end of input.
func (p *parseState) parseBlock(depth int) []Property {
	var props []Property
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if len(ln.toks) == 0 {
			p.pos++
			continue
		}
		d, ok := p.depthOf(ln)
		if !ok {
			p.errorf(toon.IndentationError, ln.toks[0],
				"indent width %d is not a multiple of %d", ln.width, p.unit)
			p.pos++
			p.skipDeeper(ln.width)
			continue
		}
		if d < depth {
			break
		}
		if d > depth {
			p.errorf(toon.IndentationError, ln.toks[0], "unexpected indent")
			p.pos++
			p.skipDeeper(ln.width)
			continue
		}
		p.pos++
		if prop, ok := p.parseLine(ln, depth); ok {
			props = append(props, prop)
		}
	}
	return props
}

// parseLine parses a single property or header line. On success it returns
// the property; on an unrecoverable line it records a diagnostic, discards
// any block nested under the line, and reports false.
func (p *parseState) parseLine(ln srcLine, depth int) (Property, bool) {
	c := &cursor{toks: ln.toks}
	kt, _ := c.next()
	if kt.tok == toon.LexError {
		p.lexErr(kt)
		p.skipDeeper(ln.width)
		return Property{}, false
	}
	key, ok := keyText(kt)
	if !ok {
		p.errorf(toon.UnexpectedToken, kt, "unexpected %v at start of line", kt.tok)
		p.skipDeeper(ln.width)
		return Property{}, false
	}

	t, end := c.next()
	switch {
	case end:
		p.errorf(toon.MissingColon, kt, "missing %q after key %q", ":", key)
		p.skipDeeper(ln.width)
		return Property{}, false

	case t.tok == toon.Colon:
		if c.atEnd() {
			// Object header: the value is the indented block that follows.
			props := p.parseBlock(depth + 1)
			return Property{Key: key, Value: &Object{Properties: props}}, true
		}
		vt, _ := c.next()
		v, ok := p.scalarValue(vt)
		if !ok {
			p.skipDeeper(ln.width)
			return Property{}, false
		}
		p.lineEnd(c, ln)
		return Property{Key: key, Value: v}, true

	case t.tok == toon.LBracket:
		return p.parseHeader(c, ln, depth, key)
	}
	p.errorf(toon.MissingColon, t, "missing %q after key %q", ":", key)
	p.skipDeeper(ln.width)
	return Property{}, false
}

// parseHeader parses the remainder of an array or table header line, whose
// key and opening bracket have been consumed.
func (p *parseState) parseHeader(c *cursor, ln srcLine, depth int, key string) (Property, bool) {
	n, ok := p.parseLength(c)
	if !ok {
		p.skipDeeper(ln.width)
		return Property{}, false
	}

	t, end := c.next()
	switch {
	case end:
		p.errorf(toon.MissingColon, c.last, "missing %q after array header", ":")
		p.skipDeeper(ln.width)
		return Property{}, false

	case t.tok == toon.Colon:
		// Inline array: comma-separated scalars to the end of the line.
		vals, ok := p.parseScalarList(c)
		if !ok {
			p.skipDeeper(ln.width)
		}
		if len(vals) != n {
			p.errorf(toon.ArrayLengthMismatch, t,
				"array %q declares %d elements but has %d", key, n, len(vals))
		}
		return Property{Key: key, Value: &Array{N: n, Values: vals}}, true

	case t.tok == toon.LBrace:
		return p.parseTable(c, ln, depth, key, n, t)
	}
	p.errorf(toon.MissingColon, t, "missing %q after array header", ":")
	p.skipDeeper(ln.width)
	return Property{}, false
}

// parseLength parses the declared length and closing bracket of a header.
func (p *parseState) parseLength(c *cursor) (int, bool) {
	nt, end := c.next()
	if end {
		p.errorf(toon.UnexpectedToken, c.last, "missing declared length")
		return 0, false
	}
	n := 0
	if nt.tok == toon.RBracket {
		p.errorf(toon.InvalidNumberLiteral, nt, "missing declared length")
		return 0, true // treat as zero and continue
	}
	if v, err := strconv.Atoi(nt.text); nt.tok == toon.Number && err == nil && v >= 0 {
		n = v
	} else {
		p.errorf(toon.InvalidNumberLiteral, nt,
			"declared length %q is not a non-negative integer", nt.text)
	}
	if rt, end := c.next(); end || rt.tok != toon.RBracket {
		p.errorf(toon.UnexpectedToken, c.last, "missing %q in array header", "]")
		return 0, false
	}
	return n, true
}

// parseTable parses a table header's column schema and its indented rows.
// The opening brace has been consumed; lb anchors header-level diagnostics.
func (p *parseState) parseTable(c *cursor, ln srcLine, depth int, key string, n int, lb token) (Property, bool) {
	var cols []string
	for {
		ct, end := c.next()
		if end {
			p.errorf(toon.UnexpectedToken, c.last, "missing %q in table schema", "}")
			p.skipDeeper(ln.width)
			return Property{}, false
		}
		if ct.tok == toon.RBrace && len(cols) == 0 {
			p.errorf(toon.UnexpectedToken, ct, "empty column schema")
			break
		}
		name, ok := keyText(ct)
		if !ok {
			p.errorf(toon.UnexpectedToken, ct, "unexpected %v in table schema", ct.tok)
			p.skipDeeper(ln.width)
			return Property{}, false
		}
		cols = append(cols, name)

		nt, end := c.next()
		if end {
			p.errorf(toon.UnexpectedToken, c.last, "missing %q in table schema", "}")
			p.skipDeeper(ln.width)
			return Property{}, false
		}
		if nt.tok == toon.RBrace {
			break
		}
		if nt.tok != toon.Comma {
			p.errorf(toon.UnexpectedToken, nt, "unexpected %v in table schema", nt.tok)
			p.skipDeeper(ln.width)
			return Property{}, false
		}
	}

	// Duplicate column names are flagged but the schema is kept as written.
	seen := make(map[string]bool, len(cols))
	for _, name := range cols {
		if seen[name] {
			p.errorf(toon.DuplicateColumnName, lb, "duplicate column name %q", name)
		}
		seen[name] = true
	}

	if ct, end := c.next(); end || ct.tok != toon.Colon {
		at := c.last
		if !end {
			at = ct
		}
		p.errorf(toon.MissingColon, at, "missing %q after table schema", ":")
		p.skipDeeper(ln.width)
		return Property{}, false
	}
	p.lineEnd(c, ln)

	rows := p.parseRows(depth+1, len(cols))
	if len(rows) != n {
		p.errorf(toon.ArrayLengthMismatch, lb,
			"table %q declares %d rows but has %d", key, n, len(rows))
	}
	return Property{Key: key, Value: &Table{N: n, Columns: cols, Rows: rows}}, true
}

// parseRows parses consecutive row lines at the given depth. Rows whose
// arity does not match the schema are reported and skipped; parsing
// continues with the next row.
func (p *parseState) parseRows(depth, want int) [][]Value {
	var rows [][]Value
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if len(ln.toks) == 0 {
			p.pos++
			continue
		}
		d, ok := p.depthOf(ln)
		if !ok {
			p.errorf(toon.IndentationError, ln.toks[0],
				"indent width %d is not a multiple of %d", ln.width, p.unit)
			p.pos++
			continue
		}
		if d < depth {
			break
		}
		if d > depth {
			p.errorf(toon.IndentationError, ln.toks[0], "unexpected indent in table")
			p.pos++
			continue
		}
		p.pos++

		c := &cursor{toks: ln.toks}
		row, ok := p.parseScalarList(c)
		if !ok {
			continue // diagnostics already recorded; row skipped
		}
		if len(row) != want {
			p.errorf(toon.SchemaColumnMismatch, ln.toks[0],
				"row has %d values but the schema has %d columns", len(row), want)
			continue // row skipped, table retained
		}
		rows = append(rows, row)
	}
	return rows
}

// parseScalarList parses a comma-separated sequence of scalar values to the
// end of the line. An empty sequence is permitted.
func (p *parseState) parseScalarList(c *cursor) ([]Value, bool) {
	var vals []Value
	if c.atEnd() {
		return vals, true
	}
	for {
		vt, _ := c.next()
		v, ok := p.scalarValue(vt)
		if !ok {
			return vals, false
		}
		vals = append(vals, v)
		if c.atEnd() {
			break
		}
		ct, _ := c.next()
		if ct.tok != toon.Comma {
			if ct.tok == toon.LexError {
				p.lexErr(ct)
			} else {
				p.errorf(toon.UnexpectedToken, ct, "unexpected %v in value list", ct.tok)
			}
			return vals, false
		}
		if c.atEnd() {
			p.errorf(toon.UnexpectedToken, ct, "missing value after %q", ",")
			return vals, false
		}
	}
	return vals, true
}

// scalarValue converts a single token into a scalar value, recording a
// diagnostic and reporting false if the token does not denote a scalar.
func (p *parseState) scalarValue(t token) (Value, bool) {
	switch t.tok {
	case toon.Ident:
		return String(t.text), true
	case toon.String:
		dec, err := toon.Unquote(t.text)
		if err != nil {
			// The scanner validated the escapes; a failure here means the
			// literal was damaged in transit and is a defect, but report it
			// as data all the same.
			p.errorf(toon.InvalidEscape, t, "invalid string literal: %v", err)
			return nil, false
		}
		return String(dec), true
	case toon.Number:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			p.errorf(toon.InvalidNumberLiteral, t, "invalid number %q", t.text)
			return nil, false
		}
		return Number(v), true
	case toon.True:
		return Bool(true), true
	case toon.False:
		return Bool(false), true
	case toon.Null:
		return Null{}, true
	case toon.LexError:
		p.lexErr(t)
		return nil, false
	}
	p.errorf(toon.UnexpectedToken, t, "unexpected %v, want a scalar value", t.tok)
	return nil, false
}

// lineEnd reports any tokens left on the line beyond a complete production.
// The extra tokens are discarded; the production itself is retained.
func (p *parseState) lineEnd(c *cursor, ln srcLine) {
	if c.atEnd() {
		return
	}
	t, _ := c.next()
	if t.tok == toon.LexError {
		p.lexErr(t)
	} else {
		p.errorf(toon.UnexpectedToken, t, "unexpected %v after value", t.tok)
	}
	p.skipDeeper(ln.width)
}

// keyText extracts the key text of a property or column name token.
// Quoted strings are unquoted; any other scalar token contributes its
// literal text.
func keyText(t token) (string, bool) {
	switch t.tok {
	case toon.Ident, toon.Number, toon.True, toon.False, toon.Null:
		return t.text, true
	case toon.String:
		dec, err := toon.Unquote(t.text)
		if err != nil {
			return "", false
		}
		return string(dec), true
	}
	return "", false
}

// A cursor walks the tokens of a single line.
type cursor struct {
	toks []token
	i    int
	last token // most recently returned token, for anchoring diagnostics
}

// next returns the next token of the line, or reports that the line is
// exhausted.
func (c *cursor) next() (token, bool) {
	if c.i >= len(c.toks) {
		return token{}, true
	}
	c.last = c.toks[c.i]
	c.i++
	return c.last, false
}

// atEnd reports whether the line is exhausted.
func (c *cursor) atEnd() bool { return c.i >= len(c.toks) }

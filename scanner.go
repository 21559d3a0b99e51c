// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package toon

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"go4.org/mem"
)

// Token is the type of a lexical token in the TOON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid  Token = iota // invalid token
	Ident                 // bare scalar text
	String                // quoted string
	Number                // number literal
	True                  // constant: true
	False                 // constant: false
	Null                  // constant: null
	Colon                 // colon ":"
	Comma                 // comma ","
	LBracket              // left square bracket "["
	RBracket              // right square bracket "]"
	LBrace                // left brace "{"
	RBrace                // right brace "}"
	Newline               // logical line break
	Indent                // leading whitespace of a logical line
	LexError              // lexical error, resynchronized at the line boundary
)

var tokenStr = [...]string{
	Invalid:  "invalid token",
	Ident:    "bare text",
	String:   "string",
	Number:   "number",
	True:     "true",
	False:    "false",
	Null:     "null",
	Colon:    `":"`,
	Comma:    `","`,
	LBracket: `"["`,
	RBracket: `"]"`,
	LBrace:   `"{"`,
	RBrace:   `"}"`,
	Newline:  "line break",
	Indent:   "indentation",
	LexError: "lexical error",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// Classify reports the token type a bare (unquoted) scalar with the given
// text would scan as: Null, True, False, or Number if the text exactly
// matches one of those literal forms, otherwise Ident.
func Classify(text string) Token {
	switch {
	case mem.S(text).Equal(mem.S("null")):
		return Null
	case mem.S(text).Equal(mem.S("true")):
		return True
	case mem.S(text).Equal(mem.S("false")):
		return False
	case isNumber(text):
		return Number
	}
	return Ident
}

// A Scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token, or reports that no further tokens
// are available.
//
// The scanner is line oriented: every logical (non-blank) line begins with an
// Indent token reporting the width of its leading whitespace in spaces, and
// ends with a Newline token or the end of input. Lexical errors are reported
// in-band as LexError tokens; after a LexError the remainder of the current
// line has been discarded and scanning resumes on the following line. The
// scan position strictly advances on every token, so total work is linear in
// the input length.
type Scanner struct {
	r     *bufio.Reader
	buf   bytes.Buffer // current token text
	tok   Token
	kind  ErrorKind // valid when tok == LexError
	width int       // valid when tok == Indent
	err   error     // I/O error from the underlying reader
	done  bool      // end of input reached

	atLineStart bool
	pos, end    int // start and end offsets of the current token
	last        int // size in bytes of the last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br, atLineStart: true}
}

// Next advances s to the next token of the input and reports whether a token
// is available. Once Next returns false the input is exhausted, or reading
// failed with the error reported by Err.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	s.buf.Reset()
	s.tok = Invalid
	s.kind = NoError
	s.width = 0

	if s.atLineStart {
		return s.scanIndent()
	}
	for {
		s.mark()
		ch, err := s.rune()
		if err == io.EOF {
			s.done = true
			return false
		} else if err != nil {
			s.err = err
			return false
		}

		switch ch {
		case ' ', '\r':
			continue // discard interior whitespace
		case '\n':
			s.newline()
			s.tok = Newline
			return true
		}

		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return true
		}
		if ch == '"' {
			return s.scanString()
		}
		return s.scanBare(ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the I/O error that terminated scanning, if any. Err returns
// nil after the input was consumed completely.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. For a LexError token
// it is a human-readable description of the error. The return value is only
// valid until the next call of Next; the caller must copy the contents if
// they are needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return append([]byte(nil), s.buf.Bytes()...) }

// Width returns the measured indentation width in spaces. Its value is only
// meaningful when the current token is Indent.
func (s *Scanner) Width() int { return s.width }

// ErrKind returns the error kind of the current token. Its value is only
// meaningful when the current token is LexError.
func (s *Scanner) ErrKind() ErrorKind { return s.kind }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// scanIndent measures the leading whitespace of the next logical line and
// emits it as an Indent token. Blank lines are discarded.
func (s *Scanner) scanIndent() bool {
	s.mark()
	width := 0
	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.done = true
			return false
		} else if err != nil {
			s.err = err
			return false
		}

		switch ch {
		case ' ':
			width++
		case '\t':
			s.skipLine()
			return s.errToken(IndentationError, "tab in indentation")
		case '\r':
			// ignored; either part of a CR/LF line break or stray
		case '\n':
			// blank line; restart the measurement
			s.newline()
			s.mark()
			width = 0
		default:
			s.unrune()
			s.atLineStart = false
			s.tok = Indent
			s.width = width
			return true
		}
	}
}

// scanString scans a quoted string whose opening quote has been consumed.
// The token text includes the enclosing quotes. An unterminated literal or
// an invalid escape sequence yields a LexError token and resynchronizes the
// scanner at the next line boundary.
func (s *Scanner) scanString() bool {
	s.buf.WriteRune('"')
	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.done = true
			return s.errToken(UnterminatedString, "Unterminated string at end of input")
		} else if err != nil {
			s.err = err
			return false
		}

		switch ch {
		case '"':
			s.buf.WriteRune(ch)
			s.tok = String
			return true
		case '\n':
			// The newline is the resynchronization boundary.
			s.newline()
			return s.errToken(UnterminatedString, "Unterminated string at end of line")
		case '\r':
			// Probably a CR/LF line break; either way the line is over.
			s.skipLine()
			return s.errToken(UnterminatedString, "Unterminated string at end of line")
		case '\\':
			s.buf.WriteRune(ch)
			if !s.scanEscape() {
				// Unless reading failed, scanEscape recorded a LexError
				// token; an I/O error ends the stream with no token.
				return s.err == nil
			}
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of a \-escape sequence and reports
// whether it was valid. On an invalid escape it records a LexError token and
// resynchronizes at the line boundary.
func (s *Scanner) scanEscape() bool {
	ch, err := s.rune()
	if err == io.EOF {
		s.done = true
		s.errToken(UnterminatedString, "Unterminated string at end of input")
		return false
	} else if err != nil {
		s.err = err
		return false
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteRune(ch)
		return true
	case 'u':
		s.buf.WriteRune(ch)
		for i := 0; i < 4; i++ {
			hd, err := s.rune()
			if err == io.EOF {
				s.done = true
				s.errToken(InvalidEscape, "invalid Unicode escape")
				return false
			} else if err != nil {
				s.err = err
				return false
			} else if !isHexDigit(hd) {
				s.unrune()
				s.skipLine()
				s.errToken(InvalidEscape, "invalid Unicode escape")
				return false
			}
			s.buf.WriteRune(hd)
		}
		return true
	case '\n':
		s.newline()
		s.errToken(UnterminatedString, "Unterminated string at end of line")
		return false
	default:
		s.skipLine()
		s.errToken(InvalidEscape, "invalid escape \\"+string(ch))
		return false
	}
}

// scanBare scans a maximal run of characters up to a structural delimiter or
// line boundary and classifies the trimmed text.
func (s *Scanner) scanBare(first rune) bool {
	s.buf.WriteRune(first)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.done = true
			break
		} else if err != nil {
			s.err = err
			return false
		}
		if ch == '\n' || ch == '\r' || ch == '"' || isDelim(ch) {
			s.unrune()
			break
		}
		s.buf.WriteRune(ch)
	}
	trim := bytes.TrimRight(s.buf.Bytes(), " ")
	s.buf.Truncate(len(trim))
	s.tok = Classify(s.buf.String())
	return true
}

// errToken records a LexError token with the given kind and message. The
// caller is responsible for having resynchronized the input at a line
// boundary (or the end of input) first.
func (s *Scanner) errToken(kind ErrorKind, msg string) bool {
	s.tok = LexError
	s.kind = kind
	s.buf.Reset()
	s.buf.WriteString(msg)
	return true
}

// skipLine discards input up to and including the next line break, or the
// end of input.
func (s *Scanner) skipLine() {
	for {
		ch, err := s.rune()
		if err != nil {
			if err == io.EOF {
				s.done = true
			} else {
				s.err = err
			}
			return
		}
		if ch == '\n' {
			s.newline()
			return
		}
	}
}

// newline finalizes a consumed line break and restarts line-start scanning.
func (s *Scanner) newline() {
	s.eline++
	s.ecol = 0
	s.atLineStart = true
}

// mark records the current position as the start of the next token.
func (s *Scanner) mark() { s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol }

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// isDelim reports whether ch is a structural delimiter that terminates a
// bare scalar.
func isDelim(ch rune) bool { return strings.ContainsRune(":,[]{}", ch) }

var self = [...]Token{Colon, Comma, LBracket, RBracket, LBrace, RBrace}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune(":,[]{}", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isNumber reports whether text fully matches the optionally-signed integer,
// decimal, or scientific-notation number grammar.
func isNumber(text string) bool {
	i, n := 0, len(text)
	if i < n && text[i] == '-' {
		i++
	}
	start := i
	for i < n && isDigit(text[i]) {
		i++
	}
	if i == start {
		return false // no integer digits
	}
	if i < n && text[i] == '.' {
		i++
		start := i
		for i < n && isDigit(text[i]) {
			i++
		}
		if i == start {
			return false // no fraction digits
		}
	}
	if i < n && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < n && (text[i] == '+' || text[i] == '-') {
			i++
		}
		start := i
		for i < n && isDigit(text[i]) {
			i++
		}
		if i == start {
			return false // no exponent digits
		}
	}
	return i == n
}

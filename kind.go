// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package toon

// An ErrorKind classifies a diagnostic reported while scanning or parsing
// TOON input.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	NoError ErrorKind = iota // not an error

	// Lexical conditions, reported by the scanner.
	UnterminatedString   // string literal not closed before the end of the line
	InvalidEscape        // unrecognized escape sequence in a string literal
	InvalidNumberLiteral // malformed numeric literal

	// Syntactic conditions, reported by the parser.
	UnexpectedToken  // token not permitted by the grammar at this point
	MissingColon     // property key without a ":" separator
	IndentationError // inconsistent or malformed indentation

	// Semantic conditions, reported by the parser while building values.
	ArrayLengthMismatch  // declared length differs from the element or row count
	SchemaColumnMismatch // table row arity differs from the declared schema
	DuplicateColumnName  // table schema declares the same column name twice

	// InternalError is reserved for defects contained at the TryParse
	// boundary. It is never reported for malformed input.
	InternalError
)

var kindStr = [...]string{
	NoError:              "no error",
	UnterminatedString:   "unterminated string",
	InvalidEscape:        "invalid escape",
	InvalidNumberLiteral: "invalid number literal",
	UnexpectedToken:      "unexpected token",
	MissingColon:         "missing colon",
	IndentationError:     "indentation error",
	ArrayLengthMismatch:  "array length mismatch",
	SchemaColumnMismatch: "schema column mismatch",
	DuplicateColumnName:  "duplicate column name",
	InternalError:        "internal error",
}

func (k ErrorKind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[NoError]
	}
	return kindStr[v]
}

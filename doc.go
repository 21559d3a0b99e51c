// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package toon implements a lexical scanner for TOON (Token-Oriented Object
// Notation), a compact indentation-based data serialization format.
//
// # Format
//
// A TOON document is a sequence of lines. Each line declares a property of
// the document or of an enclosing object:
//
//	name: John Doe            // scalar property
//	colors[3]: red,green,blue // inline array with a declared length
//	users[2]{id,name}:        // table header with a column schema
//	  1,Alice                 //   ...followed by one row per line
//	  2,Bob
//	settings:                 // nested object, introduced by a bare key
//	  theme: dark
//
// Nesting is expressed by indentation in units of spaces (2 by default).
// Bare scalars are classified as null, true, false, or a number when their
// text exactly matches one of those literal forms, and as strings otherwise.
// Text that would be mis-tokenized bare, such as a string containing a colon
// or comma, is written as a quoted literal with JSON-style escapes.
//
// # Scanning
//
// The Scanner type implements the lexical grammar. Construct a scanner from
// an io.Reader and call its Next method to iterate over the stream:
//
//	s := toon.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//	if s.Err() != nil {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// The scanner does not fail on malformed text. Lexical errors such as an
// unterminated string are reported in-band as LexError tokens carrying an
// ErrorKind, and the scanner resynchronizes at the next line boundary. Err
// reports only I/O errors from the underlying reader.
//
// # Parsing
//
// The ast subpackage consumes the token stream and builds a document tree,
// recovering from malformed input and reporting structured diagnostics. The
// enc subpackage converts JSON-like value trees into TOON text.
package toon

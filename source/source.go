// Package source owns the raw bytes of a single input file and the byte
// spans that every later stage (lexer, parser, resolver, diagnostics)
// refers back to.
package source

import (
	"fmt"
	"unicode/utf8"
)

// File is a dedicated type for file references, matching the reference
// corpus's own FileRef: it allows future refactoring of how files are
// identified without changing the rest of the API.
type File string

// Source is an immutable pair of a filename and its byte contents. It is
// produced once per input file and retained for the lifetime of every
// Span derived from it; AST nodes never copy source bytes, only spans.
type Source struct {
	File  File
	Bytes []byte
}

// New wraps filename and contents into a Source.
func New(file File, contents []byte) Source {
	return Source{File: file, Bytes: contents}
}

// Span is a half-open byte range [Start, End) into a Source's Bytes. It is
// the only way positions are represented outside of diagnostics rendering.
type Span struct {
	Start, End int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether the span is well-formed (Start <= End) and within
// the bounds of src.
func (s Span) Valid(src Source) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= len(src.Bytes)
}

// Text returns the raw bytes of the span in src, as a string.
func (s Span) Text(src Source) string {
	return string(src.Bytes[s.Start:s.End])
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Pos is a 1-based line/column position, computed from a byte offset only
// when rendering a diagnostic — it is never carried in-band on tokens or
// AST nodes (see spec §9, "byte spans over character positions").
type Pos struct {
	File File
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// PosOf converts a byte offset in src into a 1-based line/column position.
// Column is a count of Unicode scalar values since the last newline, not a
// byte count, so that diagnostics render sensibly over non-ASCII source.
func PosOf(src Source, offset int) Pos {
	if offset > len(src.Bytes) {
		offset = len(src.Bytes)
	}
	line := 1
	col := 1
	for i := 0; i < offset; {
		r, w := utf8.DecodeRune(src.Bytes[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += w
	}
	return Pos{File: src.File, Line: line, Col: col}
}

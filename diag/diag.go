// Package diag renders span-anchored diagnostics: a source line, a
// "^~~~" underline beneath the offending span, and a file:line:col
// locator, in the spirit of the reference corpus's SQLCodeParseErrors
// (error.go) and sqldocument.Error{Pos,Message} (sqlparser/sqldocument/dom.go),
// generalized from line/col-at-scan-time to byte spans resolved lazily.
package diag

import (
	"fmt"
	"strings"

	"github.com/sqlqc/sqlqc/source"
)

// Kind tags an Error with its place in the spec §7 taxonomy: every
// diagnostic carries a kind, a primary span, and an optional hint (§4.5).
type Kind int

const (
	// Lex errors (produced by the lexer, reported via its own ErrorKind
	// and translated here so every diagnostic shares one enum).
	UnterminatedString Kind = iota
	UnterminatedBlockComment
	UnrecognisedByte

	// Parse errors.
	ExpectedToken
	UnexpectedToken
	UnknownAnnotation
	MissingArrow
	MissingSemicolon
	MissingEndMarker

	// Resolve errors.
	EmptyStructResult
	UntypedStructParameter
	ConflictingParameterType
	UnknownPrimitive
	NullableStructOrTuple
	MultiArgStruct
	UnknownTarget
)

func (k Kind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string literal"
	case UnterminatedBlockComment:
		return "unterminated block comment"
	case UnrecognisedByte:
		return "unrecognised byte"
	case ExpectedToken:
		return "expected token"
	case UnexpectedToken:
		return "unexpected token"
	case UnknownAnnotation:
		return "unknown annotation"
	case MissingArrow:
		return "missing arrow"
	case MissingSemicolon:
		return "missing semicolon"
	case MissingEndMarker:
		return "missing end marker"
	case EmptyStructResult:
		return "empty struct result"
	case UntypedStructParameter:
		return "untyped struct parameter"
	case ConflictingParameterType:
		return "conflicting parameter type"
	case UnknownPrimitive:
		return "unknown primitive"
	case NullableStructOrTuple:
		return "nullable struct or tuple"
	case MultiArgStruct:
		return "struct argument with other parameters"
	case UnknownTarget:
		return "unknown target"
	default:
		return "error"
	}
}

// Error is one diagnostic: a kind, a message anchored to a span, and an
// optional one-line hint suggesting a fix (spec §4.5).
type Error struct {
	Kind    Kind
	Span    source.Span
	Message string
	Hint    string
}

func (e Error) Error() string {
	return e.Message
}

// Render formats e against src as a source line, a caret-and-tilde
// underline under the offending span, and a trailing file:line:col.
func Render(src source.Source, e Error) string {
	pos := source.PosOf(src, e.Span.Start)
	line := lineText(src, pos.Line)

	width := e.Span.Len()
	if width < 1 {
		width = 1
	}
	// Clamp the underline to the rest of the line so a span that runs past
	// a newline doesn't produce a nonsensical underline length.
	if maxWidth := len([]rune(line)) - (pos.Col - 1); width > maxWidth && maxWidth > 0 {
		width = maxWidth
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s\n", line)
	fmt.Fprintf(&buf, "%s%s\n", strings.Repeat(" ", pos.Col-1), "^"+strings.Repeat("~", width-1))
	fmt.Fprintf(&buf, "%s: %s\n", pos, e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&buf, "hint: %s\n", e.Hint)
	}
	return buf.String()
}

// lineText returns the 1-based line'th line of src, without its terminator.
func lineText(src source.Source, line int) string {
	n := 1
	start := 0
	b := src.Bytes
	for i := 0; i < len(b); i++ {
		if n == line {
			start = i
			break
		}
		if b[i] == '\n' {
			n++
			start = i + 1
		}
	}
	if n != line {
		return ""
	}
	end := start
	for end < len(b) && b[end] != '\n' {
		end++
	}
	return string(b[start:end])
}

// Errors holds the diagnostics produced while processing one file and
// renders them under a per-file header, in the shape of SQLCodeParseErrors.
// The parser and the resolver both stop at their first diagnostic, so each
// returns an Errors holding a single Error.
type Errors struct {
	Source source.Source
	Items  []Error
}

func (e *Errors) Add(err Error) {
	e.Items = append(e.Items, err)
}

func (e Errors) HasErrors() bool {
	return len(e.Items) > 0
}

func (e Errors) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %d error(s)\n\n", e.Source.File, len(e.Items))
	for _, item := range e.Items {
		buf.WriteString(Render(e.Source, item))
		buf.WriteByte('\n')
	}
	return buf.String()
}

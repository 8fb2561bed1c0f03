package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/sqlqc/sqlqc/source"
)

// nextAnnotationToken scans one token of the annotation grammar (spec §3,
// §4.2's Signature/Param/Type/Arrow productions). Whitespace is skipped
// silently — the grammar is documented as "whitespace-insensitive inside
// annotations" and annotation-mode bytes are metadata, not SQL to be
// reconstructed byte-for-byte, so there is no Whitespace token in this mode.
func (l *Lexer) nextAnnotationToken() Token {
	b := l.src.Bytes

	for l.pos < len(b) {
		if _, ok := l.annotationTerminatorAt(l.pos); ok {
			// The terminator (end-of-line, or "*/") must be checked before
			// consuming it as whitespace: a line comment's newline is both
			// whitespace and its own terminator, and must stop the skip.
			break
		}
		r, w := utf8.DecodeRune(b[l.pos:])
		if unicode.IsSpace(r) {
			l.pos += w
			continue
		}
		break
	}
	if end, ok := l.annotationTerminatorAt(l.pos); ok {
		l.mode = modeSQL
		l.pos = end
		return l.Next()
	}

	start := l.pos
	if start >= len(b) {
		l.done = true
		return Token{Kind: EOF, Span: source.Span{Start: start, End: start}}
	}

	r, w := utf8.DecodeRune(b[start:])
	switch {
	case r == '@':
		l.pos += w
		return l.tok(At, start)
	case r == ',':
		l.pos += w
		return l.tok(AnnotComma, start)
	case r == '(':
		l.pos += w
		return l.tok(AnnotLParen, start)
	case r == ')':
		l.pos += w
		return l.tok(AnnotRParen, start)
	case r == '<':
		l.pos += w
		return l.tok(AnnotLAngle, start)
	case r == '>':
		l.pos += w
		return l.tok(AnnotRAngle, start)
	case r == '?':
		l.pos += w
		return l.tok(Question, start)
	case r == '-':
		return l.scanAnnotationArrow(start)
	case r == ':':
		l.pos += w
		return l.tok(AnnotColon, start)
	case xid.Start(r) || r == '_':
		l.pos = start
		for l.pos < len(b) {
			rr, ww := utf8.DecodeRune(b[l.pos:])
			if !(xid.Continue(rr) || rr == '_') {
				break
			}
			l.pos += ww
		}
		return l.tok(AnnotIdent, start)
	}

	return l.fail(UnrecognisedByte, start, start+w)
}

// scanAnnotationArrow scans "->", "->?", "->1", or "->*" (spec §4.2 Arrow).
// A bare "-" not followed by ">" is not part of this grammar and is an
// unrecognised byte at the annotation level.
func (l *Lexer) scanAnnotationArrow(start int) Token {
	b := l.src.Bytes
	if start+1 >= len(b) || b[start+1] != '>' {
		return l.fail(UnrecognisedByte, start, start+1)
	}
	if start+2 < len(b) {
		switch b[start+2] {
		case '?':
			l.pos = start + 3
			return l.tok(ArrowOpt, start)
		case '1':
			l.pos = start + 3
			return l.tok(Arrow1, start)
		case '*':
			l.pos = start + 3
			return l.tok(ArrowMany, start)
		}
	}
	l.pos = start + 2
	return l.tok(Arrow, start)
}

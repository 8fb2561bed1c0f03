// Package parser builds an *ast.Document from a Lexer's token stream by
// recursive descent, one token of lookahead at a time. It mirrors the
// reference corpus's Batch.Parse driving loop (sqlparser/sqldocument/batch.go):
// comments accumulate into a pending docstring that resets on any other token
// and on a blank line, and a dispatch point (there, ReservedWordToken; here,
// lexer.At) hands control to a dedicated handler for the construct that
// follows.
package parser

import (
	"fmt"
	"strings"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/diag"
	"github.com/sqlqc/sqlqc/lexer"
	"github.com/sqlqc/sqlqc/source"
)

type parser struct {
	src  source.Source
	lx   *lexer.Lexer
	cur  lexer.Token
	errs diag.Errors
}

// Parse scans src in its entirety and returns the Document it describes.
// Parsing is all-or-nothing (spec §4.2, §7): the first malformed query
// aborts the whole document and Parse returns with that error alone, rather
// than skipping ahead to collect further diagnostics.
func Parse(src source.Source) (*ast.Document, error) {
	p := &parser{src: src, lx: lexer.New(src)}
	p.errs.Source = src
	p.advance()

	doc := &ast.Document{Source: src}

	leadingStart := p.cur.Span.Start
	sawQuery := false
	var pendingDoc []source.Span

	for p.cur.Kind != lexer.EOF {
		switch p.cur.Kind {
		case lexer.At:
			if !sawQuery {
				doc.LeadingContent = append(doc.LeadingContent, source.Span{Start: leadingStart, End: p.cur.Span.Start})
				sawQuery = true
			}
			q, ok := p.parseAnnotationEntry()
			if !ok {
				return doc, p.errs
			}
			q.DocComments = pendingDoc
			doc.Queries = append(doc.Queries, q)
			pendingDoc = nil
		case lexer.LineComment, lexer.BlockComment:
			pendingDoc = append(pendingDoc, p.cur.Span)
			p.advance()
		case lexer.Whitespace:
			// A blank line (two newlines in one whitespace run) ends the
			// doc-comment run.
			if strings.Count(p.text(p.cur.Span), "\n") >= 2 {
				pendingDoc = nil
			}
			p.advance()
		default:
			pendingDoc = nil
			p.advance()
		}
	}

	if p.lx.Err() != nil {
		p.errs.Add(diag.Error{Kind: lexKind(p.lx.Err().Kind), Span: p.lx.Err().Span, Message: p.lx.Err().Kind.String()})
	}
	if p.errs.HasErrors() {
		return doc, p.errs
	}
	return doc, nil
}

func (p *parser) advance() {
	p.cur = p.lx.Next()
}

func (p *parser) text(s source.Span) string {
	return s.Text(p.src)
}

func (p *parser) errorf(kind diag.Kind, span source.Span, format string, args ...any) {
	p.errs.Add(diag.Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// lexKind translates a lexer.ErrorKind into its diag.Kind equivalent; the two
// enums are declared separately so the lexer package stays free of a diag
// import, but every diagnostic that reaches the user shares one taxonomy.
func lexKind(k lexer.ErrorKind) diag.Kind {
	switch k {
	case lexer.UnterminatedString:
		return diag.UnterminatedString
	case lexer.UnterminatedBlockComment:
		return diag.UnterminatedBlockComment
	default:
		return diag.UnrecognisedByte
	}
}

// parseAnnotationEntry parses whatever follows an "@" marker: a query, a
// begin/end block, or an orphaned "@end". cur is the At token on entry.
func (p *parser) parseAnnotationEntry() (ast.Query, bool) {
	start := p.cur.Span.Start
	p.advance() // consume '@'

	if p.cur.Kind != lexer.AnnotIdent {
		p.errorf(diag.ExpectedToken, p.cur.Span, "expected query, begin, or end after '@'")
		return ast.Query{}, false
	}
	keyword := p.text(p.cur.Span)

	switch keyword {
	case "query":
		p.advance()
		sig, ok := p.parseSignature()
		if !ok {
			return ast.Query{}, false
		}
		body, ok := p.parseBody(false)
		if !ok {
			return ast.Query{}, false
		}
		return ast.Query{Signature: sig, Body: body, Multi: false, Span: source.Span{Start: start, End: body.Span.End}}, true

	case "begin":
		p.advance()
		sig, ok := p.parseSignature()
		if !ok {
			return ast.Query{}, false
		}
		body, ok := p.parseBody(true)
		if !ok {
			return ast.Query{}, false
		}
		return ast.Query{Signature: sig, Body: body, Multi: true, Span: source.Span{Start: start, End: body.Span.End}}, true

	case "end":
		p.errorf(diag.UnexpectedToken, p.cur.Span, "'@end' with no matching '@begin'")
		p.advance()
		return ast.Query{}, false

	default:
		p.errorf(diag.UnknownAnnotation, p.cur.Span, "unrecognised annotation marker %q", keyword)
		p.advance()
		return ast.Query{}, false
	}
}

// parseSignature parses "name(param: type, ...) -> Type" (spec §3/§4.2).
// cur is the signature's name identifier on entry.
func (p *parser) parseSignature() (ast.Signature, bool) {
	if p.cur.Kind != lexer.AnnotIdent {
		p.errorf(diag.ExpectedToken, p.cur.Span, "expected query name")
		return ast.Signature{}, false
	}
	start := p.cur.Span.Start
	name := ast.Ident{Name: p.text(p.cur.Span), Span: p.cur.Span}
	p.advance()

	if p.cur.Kind != lexer.AnnotLParen {
		p.errorf(diag.ExpectedToken, p.cur.Span, "expected '(' after query name")
		return ast.Signature{}, false
	}
	p.advance()

	var params []ast.Param
	for p.cur.Kind != lexer.AnnotRParen {
		if p.cur.Kind != lexer.AnnotIdent {
			p.errorf(diag.ExpectedToken, p.cur.Span, "expected parameter name")
			return ast.Signature{}, false
		}
		pname := ast.Ident{Name: p.text(p.cur.Span), Span: p.cur.Span}
		p.advance()

		if p.cur.Kind != lexer.AnnotColon {
			p.errorf(diag.ExpectedToken, p.cur.Span, "expected ':' after parameter name %q", pname.Name)
			return ast.Signature{}, false
		}
		p.advance()

		ptyp, ok := p.parseType()
		if !ok {
			return ast.Signature{}, false
		}
		params = append(params, ast.Param{Name: pname, Type: ptyp})

		if p.cur.Kind == lexer.AnnotComma {
			p.advance()
			continue
		}
		break
	}
	if p.cur.Kind != lexer.AnnotRParen {
		p.errorf(diag.ExpectedToken, p.cur.Span, "expected ')' to close parameter list")
		return ast.Signature{}, false
	}
	p.advance()

	card, ok := p.parseCardinality()
	if !ok {
		return ast.Signature{}, false
	}

	result, ok := p.parseType()
	if !ok {
		return ast.Signature{}, false
	}

	return ast.Signature{
		Name:        name,
		Parameters:  params,
		Cardinality: card,
		Result:      result,
		Span:        source.Span{Start: start, End: p.cur.Span.Start},
	}, true
}

func (p *parser) parseCardinality() (ast.Cardinality, bool) {
	switch p.cur.Kind {
	case lexer.ArrowOpt:
		p.advance()
		return ast.ZeroOrOne, true
	case lexer.Arrow1:
		p.advance()
		return ast.ExactlyOne, true
	case lexer.ArrowMany:
		p.advance()
		return ast.Many, true
	case lexer.Arrow:
		// Bare "->" is accepted without a deprecation warning (spec §9 open
		// question, decided) and defaults to exactly-one.
		p.advance()
		return ast.ExactlyOne, true
	}
	p.errorf(diag.MissingArrow, p.cur.Span, "expected '->', '->?', '->1', or '->*'")
	return ast.ExactlyOne, false
}

// parseType parses a Type production: a tuple "(T, T, ...)", a bare name
// (primitive or struct), a generic "name<T>" (iterator/option), or a
// trailing "?" sugar for Option<T>.
func (p *parser) parseType() (ast.Type, bool) {
	if p.cur.Kind == lexer.AnnotLParen {
		p.advance()
		var elems []ast.Type
		for p.cur.Kind != lexer.AnnotRParen {
			t, ok := p.parseType()
			if !ok {
				return ast.Type{}, false
			}
			elems = append(elems, t)
			if p.cur.Kind == lexer.AnnotComma {
				p.advance()
				continue
			}
			break
		}
		if p.cur.Kind != lexer.AnnotRParen {
			p.errorf(diag.ExpectedToken, p.cur.Span, "expected ')' to close tuple type")
			return ast.Type{}, false
		}
		p.advance()
		return ast.Type{Kind: ast.Tuple, Elements: elems}, true
	}

	if p.cur.Kind != lexer.AnnotIdent {
		p.errorf(diag.ExpectedToken, p.cur.Span, "expected a type")
		return ast.Type{}, false
	}
	name := p.text(p.cur.Span)
	nameSpan := p.cur.Span
	p.advance()

	if p.cur.Kind == lexer.AnnotLAngle {
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.Type{}, false
		}
		if p.cur.Kind != lexer.AnnotRAngle {
			p.errorf(diag.ExpectedToken, p.cur.Span, "expected '>' to close %q", name)
			return ast.Type{}, false
		}
		p.advance()

		switch strings.ToLower(name) {
		case "iterator":
			return ast.Type{Kind: ast.Iterator, Element: &elem}, true
		case "option":
			return ast.Type{Kind: ast.Option, Element: &elem}, true
		}
		p.errorf(diag.UnexpectedToken, nameSpan, "unknown generic type %q", name)
		return ast.Type{}, false
	}

	typ := ast.Type{Kind: ast.Primitive, Name: name}
	// The resolver later reclassifies Kind to Struct for any name that
	// starts with an ASCII uppercase letter and isn't in the fixed
	// primitive set (spec §4.3); the parser only records the bare name.

	if p.cur.Kind == lexer.Question {
		p.advance()
		return ast.Type{Kind: ast.Option, Element: &typ}, true
	}
	return typ, true
}

// parseBody scans the raw query body up to its terminator: a top-level ';'
// for a single @query, or a matching "@end" marker for a @begin block.
// Fragments are built lazily: contiguous ordinary tokens are merged into one
// RawSpan, broken only by Parameter and TypedHint occurrences.
func (p *parser) parseBody(multi bool) (ast.QueryBody, bool) {
	bodyStart := p.cur.Span.Start
	var frags []ast.Fragment
	var lastIdent *ast.Ident
	rawStart := -1
	parenDepth := 0

	flushRaw := func(end int) {
		if rawStart >= 0 && end > rawStart {
			frags = append(frags, ast.Fragment{Kind: ast.RawSpan, Span: source.Span{Start: rawStart, End: end}})
		}
		rawStart = -1
	}

	for {
		switch p.cur.Kind {
		case lexer.EOF:
			flushRaw(p.cur.Span.Start)
			eofSpan := source.Span{Start: bodyStart, End: p.cur.Span.Start}
			if multi {
				p.errorf(diag.MissingEndMarker, eofSpan, "unexpected end of file inside '@begin' block; expected '@end'")
			} else {
				p.errorf(diag.MissingSemicolon, eofSpan, "unexpected end of file inside query body")
			}
			return ast.QueryBody{}, false

		case lexer.At:
			if !multi {
				flushRaw(p.cur.Span.Start)
				p.errorf(diag.UnexpectedToken, p.cur.Span, "unexpected annotation marker inside query body")
				return ast.QueryBody{}, false
			}
			markerStart := p.cur.Span.Start
			p.advance()
			if p.cur.Kind == lexer.AnnotIdent && p.text(p.cur.Span) == "end" {
				flushRaw(markerStart)
				end := p.cur.Span.End
				p.advance()
				return ast.QueryBody{Fragments: frags, Span: source.Span{Start: bodyStart, End: end}}, true
			}
			flushRaw(markerStart)
			p.errorf(diag.MissingEndMarker, p.cur.Span, "nested annotation inside '@begin' block; expected '@end'")
			return ast.QueryBody{}, false

		case lexer.Parameter:
			flushRaw(p.cur.Span.Start)
			name := strings.TrimPrefix(p.text(p.cur.Span), ":")
			frags = append(frags, ast.Fragment{
				Kind: ast.ParamRef,
				Span: p.cur.Span,
				Name: ast.Ident{Name: name, Span: p.cur.Span},
			})
			lastIdent = nil
			p.advance()

		case lexer.TypedHint:
			flushRaw(p.cur.Span.Start)
			name, nullable := parseHintBody(p.text(p.cur.Span))
			frags = append(frags, ast.Fragment{
				Kind:           ast.Annotation,
				Span:           p.cur.Span,
				PrecedingIdent: lastIdent,
				Type:           ast.Type{Kind: ast.Primitive, Name: name, Nullable: nullable},
			})
			p.advance()

		case lexer.Semicolon:
			if !multi && parenDepth == 0 {
				end := p.cur.Span.End
				p.advance()
				flushRaw(end)
				return ast.QueryBody{Fragments: frags, Span: source.Span{Start: bodyStart, End: end}}, true
			}
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			p.advance()

		case lexer.LParen:
			parenDepth++
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			p.advance()

		case lexer.RParen:
			if parenDepth > 0 {
				parenDepth--
			}
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			p.advance()

		case lexer.Word:
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			id := ast.Ident{Name: p.text(p.cur.Span), Span: p.cur.Span}
			lastIdent = &id
			p.advance()

		case lexer.Whitespace, lexer.LineComment, lexer.BlockComment:
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			p.advance()

		default:
			if rawStart < 0 {
				rawStart = p.cur.Span.Start
			}
			lastIdent = nil
			p.advance()
		}
	}
}

// parseHintBody strips a TypedHint token's comment delimiters and leading
// ':' to recover the type name and whether it carries a trailing "?".
func parseHintBody(text string) (name string, nullable bool) {
	inner := text
	switch {
	case strings.HasPrefix(inner, "/*"):
		inner = strings.TrimSuffix(strings.TrimPrefix(inner, "/*"), "*/")
	case strings.HasPrefix(inner, "--"):
		inner = strings.TrimPrefix(inner, "--")
	}
	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, ":")
	inner = strings.TrimSpace(inner)
	if strings.HasSuffix(inner, "?") {
		return strings.TrimSuffix(inner, "?"), true
	}
	return inner, false
}

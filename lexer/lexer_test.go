package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlqc/sqlqc/source"
)

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	src := source.New("t.sql", []byte(input))
	lx := New(src)
	var toks []Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerPlainSQL(t *testing.T) {
	toks := scanAll(t, "select 1;")
	assert.Equal(t, []Kind{Word, Whitespace, NumericLiteral, Semicolon, EOF}, kinds(toks))
}

func TestLexerParameterOccurrence(t *testing.T) {
	toks := scanAll(t, "where id = :user_id;")
	assert.Contains(t, kinds(toks), Parameter)

	src := source.New("t.sql", []byte("where id = :user_id;"))
	lx := New(src)
	var param Token
	for {
		tok := lx.Next()
		if tok.Kind == Parameter {
			param = tok
			break
		}
		if tok.Kind == EOF {
			t.Fatal("no parameter token found")
		}
	}
	assert.Equal(t, ":user_id", param.Span.Text(src))
}

func TestLexerBareColonIsNotParameter(t *testing.T) {
	toks := scanAll(t, "a : b")
	assert.Contains(t, kinds(toks), Colon)
	assert.NotContains(t, kinds(toks), Parameter)
}

func TestLexerTypedHintBlockComment(t *testing.T) {
	src := source.New("t.sql", []byte("select x /* :i64 */ from t;"))
	lx := New(src)
	var found bool
	for {
		tok := lx.Next()
		if tok.Kind == TypedHint {
			found = true
			assert.Equal(t, "/* :i64 */", tok.Span.Text(src))
		}
		if tok.Kind == EOF {
			break
		}
	}
	assert.True(t, found)
}

func TestLexerTypedHintLineComment(t *testing.T) {
	src := source.New("t.sql", []byte("select x -- :str\nfrom t;"))
	lx := New(src)
	var found bool
	for {
		tok := lx.Next()
		if tok.Kind == TypedHint {
			found = true
			assert.Equal(t, "-- :str", tok.Span.Text(src))
		}
		if tok.Kind == EOF {
			break
		}
	}
	assert.True(t, found)
}

func TestLexerAnnotationEntryAndExitBlockComment(t *testing.T) {
	src := source.New("t.sql", []byte("/* @query foo() -> i64 */ select 1;"))
	lx := New(src)
	var seenAt, seenIdent, seenArrow bool
	for {
		tok := lx.Next()
		switch tok.Kind {
		case At:
			seenAt = true
		case AnnotIdent:
			seenIdent = true
		case Arrow:
			seenArrow = true
		case Word:
			// Once back in SQL mode we should see "select" as a Word.
			assert.Equal(t, "select", tok.Span.Text(src))
		}
		if tok.Kind == EOF {
			break
		}
	}
	assert.True(t, seenAt)
	assert.True(t, seenIdent)
	assert.True(t, seenArrow)
}

func TestLexerAnnotationEntryLineComment(t *testing.T) {
	src := source.New("t.sql", []byte("-- @begin foo() ->* i32\nselect 1;\n-- @end\n"))
	lx := New(src)
	var ends int
	for {
		tok := lx.Next()
		if tok.Kind == AnnotIdent && tok.Span.Text(src) == "end" {
			ends++
		}
		if tok.Kind == EOF {
			break
		}
	}
	assert.Equal(t, 1, ends)
}

func TestLexerUnterminatedString(t *testing.T) {
	src := source.New("t.sql", []byte("select 'abc"))
	lx := New(src)
	for {
		tok := lx.Next()
		if tok.Kind == EOF {
			break
		}
	}
	assert.NotNil(t, lx.Err())
	assert.Equal(t, UnterminatedString, lx.Err().Kind)
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	src := source.New("t.sql", []byte("select 1 /* comment"))
	lx := New(src)
	for {
		tok := lx.Next()
		if tok.Kind == EOF {
			break
		}
	}
	assert.NotNil(t, lx.Err())
	assert.Equal(t, UnterminatedBlockComment, lx.Err().Kind)
}

func TestLexerStringLiteralEscape(t *testing.T) {
	src := source.New("t.sql", []byte("select 'it''s here';"))
	lx := New(src)
	var lit Token
	for {
		tok := lx.Next()
		if tok.Kind == StringLiteral {
			lit = tok
		}
		if tok.Kind == EOF {
			break
		}
	}
	assert.Equal(t, "'it''s here'", lit.Span.Text(src))
}

package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlqc/sqlqc/source"
)

func TestRenderUnderlinesSpan(t *testing.T) {
	src := source.New("t.sql", []byte("select bogus from t;\n"))
	span := source.Span{Start: 7, End: 12} // "bogus"
	out := Render(src, Error{Span: span, Message: "unknown type", Hint: "did you mean 'bonus'?"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require := assert.New(t)
	require.Equal("select bogus from t;", lines[0])
	require.True(strings.HasPrefix(lines[1], "       ^"))
	require.Contains(lines[2], "t.sql:1:8")
	require.Contains(lines[2], "unknown type")
	require.Contains(lines[3], "did you mean")
}

func TestErrorCarriesKind(t *testing.T) {
	err := Error{Kind: EmptyStructResult, Span: source.Span{Start: 0, End: 1}, Message: "no fields"}
	assert.Equal(t, EmptyStructResult, err.Kind)
	assert.Equal(t, "empty struct result", err.Kind.String())
}

func TestErrorsAggregatesMultiple(t *testing.T) {
	src := source.New("t.sql", []byte("select 1;\nselect 2;\n"))
	var errs Errors
	errs.Source = src
	assert.False(t, errs.HasErrors())

	errs.Add(Error{Span: source.Span{Start: 0, End: 6}, Message: "first"})
	errs.Add(Error{Span: source.Span{Start: 11, End: 17}, Message: "second"})
	assert.True(t, errs.HasErrors())
	assert.Len(t, errs.Items, 2)

	rendered := errs.Error()
	assert.Contains(t, rendered, "2 error(s)")
	assert.Contains(t, rendered, "first")
	assert.Contains(t, rendered, "second")
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/source"
)

func TestParseSimpleQuery(t *testing.T) {
	src := source.New("t.sql", []byte(`
/* @query getUser(id: i64) -> i64
*/
select id from users where id = :id;
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Queries, 1)

	q := doc.Queries[0]
	assert.Equal(t, "getUser", q.Signature.Name.Name)
	assert.False(t, q.Multi)
	require.Len(t, q.Signature.Parameters, 1)
	assert.Equal(t, "id", q.Signature.Parameters[0].Name.Name)
	assert.Equal(t, ast.Primitive, q.Signature.Parameters[0].Type.Kind)
	assert.Equal(t, ast.ExactlyOne, q.Signature.Cardinality)

	var sawParam bool
	for _, f := range q.Body.Fragments {
		if f.Kind == ast.ParamRef && f.Name.Name == "id" {
			sawParam = true
		}
	}
	assert.True(t, sawParam)
}

func TestParseBeginEndBlock(t *testing.T) {
	src := source.New("t.sql", []byte(`
-- @begin deleteOld(cutoff: instant) ->* i32
delete from events where ts < :cutoff;
delete from audit where ts < :cutoff;
-- @end
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Queries, 1)

	q := doc.Queries[0]
	assert.True(t, q.Multi)
	assert.Equal(t, ast.Many, q.Signature.Cardinality)

	var paramRefs int
	for _, f := range q.Body.Fragments {
		if f.Kind == ast.ParamRef {
			paramRefs++
		}
	}
	assert.Equal(t, 2, paramRefs)
}

func TestParseResultStructHints(t *testing.T) {
	src := source.New("t.sql", []byte(`
/* @query getUser(id: i64) -> User */
select
  id /* :i64 */,
  name -- :str
from users where id = :id;
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Queries, 1)

	q := doc.Queries[0]
	assert.Equal(t, ast.Primitive, q.Signature.Result.Kind) // resolver reclassifies; parser leaves it Primitive("User")
	assert.Equal(t, "User", q.Signature.Result.Name)

	var hints int
	for _, f := range q.Body.Fragments {
		if f.Kind == ast.Annotation {
			hints++
			require.NotNil(t, f.PrecedingIdent)
		}
	}
	assert.Equal(t, 2, hints)
}

func TestParseIteratorType(t *testing.T) {
	src := source.New("t.sql", []byte(`
/* @query listUsers() -> iterator<i64> */
select id from users;
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Queries, 1)
	result := doc.Queries[0].Signature.Result
	assert.Equal(t, ast.Iterator, result.Kind)
	require.NotNil(t, result.Element)
	assert.Equal(t, "i64", result.Element.Name)
}

func TestParseTupleType(t *testing.T) {
	src := source.New("t.sql", []byte(`
/* @query minMax() -> (i64, i64) */
select min(x), max(x) from t;
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	result := doc.Queries[0].Signature.Result
	assert.Equal(t, ast.Tuple, result.Kind)
	require.Len(t, result.Elements, 2)
}

func TestParseOrphanEndIsError(t *testing.T) {
	src := source.New("t.sql", []byte(`
-- @end
select 1;
`))
	_, err := Parse(src)
	assert.Error(t, err)
}

func TestParseDocComments(t *testing.T) {
	src := source.New("t.sql", []byte(`
-- Looks up one user by id.
-- Returns nothing if not found.
/* @query getUser(id: i64) ->? i64 */
select id from users where id = :id;
`))
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Queries, 1)
	assert.Len(t, doc.Queries[0].DocComments, 2)
}

package emit

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/parser"
	"github.com/sqlqc/sqlqc/resolver"
	"github.com/sqlqc/sqlqc/source"
)

func testTarget() Target {
	return Target{
		Lang:   "go",
		Driver: "test",
		Placeholder: func(index int, name string) string {
			return fmt.Sprintf("$%d", index)
		},
	}
}

func parseResolve(t *testing.T, input string) *ast.Document {
	t.Helper()
	src := source.New("t.sql", []byte(input))
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(doc))
	return doc
}

func TestRunGeneratesFunctionSignature(t *testing.T) {
	doc := parseResolve(t, `
/* @query getUser(id: i64) -> i64 */
select id from users where id = :id;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()

	assert.Contains(t, out, "package queries")
	assert.Contains(t, out, "func GetUser(ctx context.Context, db *sql.DB, id int64) (int64, error)")
	assert.Contains(t, out, "$1")
}

func TestRunRewritesParamPlaceholdersAndDropsHints(t *testing.T) {
	doc := parseResolve(t, `
/* @query getUser(id: i64) -> User */
select
  id /* :i64 */,
  name -- :str
from users where id = :id;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()

	assert.Contains(t, out, "type User struct")
	assert.Contains(t, out, "Id int64")
	assert.Contains(t, out, "Name string")
	assert.NotContains(t, out, "/* :i64 */")
	assert.NotContains(t, out, "-- :str")
	assert.Contains(t, out, "where id = $1")
}

func TestRunManyCardinalityReturnsSlice(t *testing.T) {
	doc := parseResolve(t, `
/* @query listUsers() ->* i64 */
select id from users;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()
	assert.Contains(t, out, "func ListUsers(ctx context.Context, db *sql.DB) ([]int64, error)")
	assert.Contains(t, out, "rows, err := db.QueryContext(ctx, query)")
	assert.Contains(t, out, "result = append(result, v)")
}

func TestRunZeroOrOneUsesErrNoRows(t *testing.T) {
	doc := parseResolve(t, `
/* @query findUser(id: i64) ->? i64 */
select id from users where id = :id;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()
	assert.Contains(t, out, "func FindUser(ctx context.Context, db *sql.DB, id int64) (*int64, error)")
	assert.Contains(t, out, "errors.Is(err, sql.ErrNoRows)")
	assert.Contains(t, out, `"errors"`)
}

func TestRunIteratorCardinalityStreamsRows(t *testing.T) {
	doc := parseResolve(t, `
/* @query streamUsers() -> iterator<i64> */
select id from users;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()
	assert.Contains(t, out, "func StreamUsers(ctx context.Context, db *sql.DB) (iter.Seq2[int64, error])")
	assert.Contains(t, out, "func(yield func(int64, error) bool)")
	assert.Contains(t, out, "rows.Err()")
}

func TestRunBareTupleReturnsMultipleValues(t *testing.T) {
	doc := parseResolve(t, `
/* @query idAndName() -> (i64, str) */
select id, name from users limit 1;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()
	assert.Contains(t, out, "func IdAndName(ctx context.Context, db *sql.DB) (int64, string, error)")
	assert.Contains(t, out, "return v0, v1, nil")
}

func TestRunStructArgumentBindsFieldsInDeclarationOrder(t *testing.T) {
	doc := parseResolve(t, `
/* @query h(u: NewUser) ->1 i64 */
insert into users(a, b) values(:a /* :str */, :b /* :str */) returning id;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()

	assert.Contains(t, out, "type NewUser struct")
	assert.Contains(t, out, "A string")
	assert.Contains(t, out, "B string")
	assert.Contains(t, out, "func H(ctx context.Context, db *sql.DB, u NewUser) (int64, error)")
	assert.Contains(t, out, "values($1, $2)")
	assert.Contains(t, out, "db.QueryRowContext(ctx, query, u.A, u.B)")
}

func TestRunManyTupleGeneratesRowStruct(t *testing.T) {
	doc := parseResolve(t, `
/* @query manyIdAndName() ->* (i64, str) */
select id, name from users;
`)
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, doc, testTarget(), "queries"))
	out := buf.String()
	assert.Contains(t, out, "type ManyIdAndNameRow struct")
	assert.Contains(t, out, "Field0 int64")
	assert.Contains(t, out, "Field1 string")
	assert.Contains(t, out, "func ManyIdAndName(ctx context.Context, db *sql.DB) ([]ManyIdAndNameRow, error)")
}

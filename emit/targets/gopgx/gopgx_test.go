package gopgx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlqc/sqlqc/ast"
)

func TestPlaceholderIsDollarOrdinal(t *testing.T) {
	target := New()
	assert.Equal(t, "$1", target.Placeholder(1, "id"))
	assert.Equal(t, "$2", target.Placeholder(2, "name"))
}

func TestGoTypeOverridesNullableInstant(t *testing.T) {
	target := New()
	expr, imp := target.GoType(ast.Type{Kind: ast.Primitive, Name: ast.Instant, Nullable: true})
	assert.Equal(t, "pgtype.Timestamptz", expr)
	assert.Equal(t, "github.com/jackc/pgx/v5/pgtype", imp)

	expr, _ = target.GoType(ast.Type{Kind: ast.Primitive, Name: ast.I64})
	assert.Empty(t, expr)
}

func TestHeaderCommentReportsRegistryName(t *testing.T) {
	assert.Contains(t, headerComment(), "pgtype registry")
}

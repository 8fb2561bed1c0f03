// Package gopgx is the go-pgx emit.Target: PostgreSQL via jackc/pgx/v5,
// $N positional placeholders, and a pgtype Go type for nullable instants;
// every other type uses the default mapping.
package gopgx

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-pgx" Target.
func New() emit.Target {
	return emit.Target{
		Lang:              "go",
		Driver:            "pgx",
		DriverImportPath:  "github.com/jackc/pgx/v5",
		DriverPackageName: "pgx",
		Placeholder: func(index int, name string) string {
			return fmt.Sprintf("$%d", index)
		},
		GoType:        goType,
		HeaderComment: headerComment,
	}
}

// headerComment looks up the "int8" type in a fresh pgtype.Map and records
// the name the registry returns for it, as a check that the linked pgtype
// registry is usable.
func headerComment() string {
	m := pgtype.NewMap()
	if t, ok := m.TypeForName("int8"); ok {
		return fmt.Sprintf("pgtype registry: int8 -> %s", t.Name)
	}
	return "pgtype registry unavailable"
}

// goType overrides the default primitive mapping only where pgx's own
// wire types differ from the generic one (nullable instant uses
// pgtype.Timestamptz so a NULL column round-trips without a *time.Time).
func goType(t ast.Type) (string, string) {
	if t.Kind == ast.Primitive && t.Name == ast.Instant && t.Nullable {
		return "pgtype.Timestamptz", "github.com/jackc/pgx/v5/pgtype"
	}
	return "", ""
}

// Package gosqlx is the go-sqlx emit.Target: generated code built on
// jmoiron/sqlx rather than raw database/sql, with placeholder syntax
// chosen at generation time by calling sqlx.BindType against whichever
// inner driver name the caller configures (sqlxDriver in sqlqc.yaml).
package gosqlx

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-sqlx" Target bound to innerDriver (e.g. "postgres",
// "mysql", "sqlite3", "sqlserver") — the database/sql driver name the
// generated code will open connections with through sqlx.Open.
func New(innerDriver string) emit.Target {
	bindType := sqlx.BindType(innerDriver)

	return emit.Target{
		Lang:              "go",
		Driver:            "sqlx",
		DriverImportPath:  "github.com/jmoiron/sqlx",
		DriverPackageName: "sqlx",
		Placeholder:       placeholderFor(bindType, innerDriver),
		HeaderComment: func() string {
			return fmt.Sprintf("sqlx bind type for %q: %d", innerDriver, bindType)
		},
	}
}

// placeholderFor renders one parameter occurrence in whichever style
// sqlx.BindType reports for the configured inner driver: sqlx.DOLLAR for
// "$N" (postgres), sqlx.AT for "@pN" (sqlserver), sqlx.NAMED for ":name"
// (oci8/ora/goracle/godror), and sqlx.QUESTION (or anything else) for a
// bare "?".
func placeholderFor(bindType int, innerDriver string) func(index int, name string) string {
	switch bindType {
	case sqlx.DOLLAR:
		return func(index int, name string) string { return fmt.Sprintf("$%d", index) }
	case sqlx.AT:
		return func(index int, name string) string { return fmt.Sprintf("@p%d", index) }
	case sqlx.NAMED:
		return func(index int, name string) string { return ":" + name }
	default:
		return func(index int, name string) string { return "?" }
	}
}

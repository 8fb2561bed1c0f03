// Package gosqlite is the go-sqlite emit.Target: SQLite via
// mattn/go-sqlite3, registered under the database/sql "sqlite3" driver
// name, with positional "?" placeholders.
package gosqlite

import (
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-sqlite" Target.
func New() emit.Target {
	return emit.Target{
		Lang:              "go",
		Driver:            "sqlite",
		DriverImportPath:  "github.com/mattn/go-sqlite3",
		DriverPackageName: "sqlite3",
		Placeholder: func(index int, name string) string {
			return "?"
		},
		HeaderComment: headerComment,
	}
}

// headerComment records the linked SQLite C library version, so generated
// code documents exactly which engine it was produced against.
func headerComment() string {
	libVersion, _, _ := sqlite3.Version()
	return fmt.Sprintf("sqlite3 library version: %s", libVersion)
}

// Package gomssql is the go-mssql emit.Target: SQL Server via
// microsoft/go-mssqldb, registered under the "sqlserver" database/sql
// driver name, with "@pN" named placeholders.
package gomssql

import (
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-mssql" Target.
func New() emit.Target {
	return emit.Target{
		Lang:              "go",
		Driver:            "mssql",
		DriverImportPath:  "github.com/microsoft/go-mssqldb",
		DriverPackageName: "mssql",
		Placeholder: func(index int, name string) string {
			return fmt.Sprintf("@p%d", index)
		},
		HeaderComment: headerComment,
	}
}

// headerComment asserts that go-mssqldb's exported Driver type is the one
// registered under the database/sql "sqlserver" name generated code opens
// connections with — a compile-time check that the import actually matches
// the driver this target assumes.
func headerComment() string {
	var d mssql.Driver
	return fmt.Sprintf("driver: sqlserver (%T)", d)
}

// Package gomysql is the go-mysql emit.Target: MySQL/MariaDB via
// go-sql-driver/mysql, registered under the database/sql "mysql" driver
// name, with positional "?" placeholders.
package gomysql

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-mysql" Target.
func New() emit.Target {
	return emit.Target{
		Lang:              "go",
		Driver:            "mysql",
		DriverImportPath:  "github.com/go-sql-driver/mysql",
		DriverPackageName: "mysql",
		Placeholder: func(index int, name string) string {
			return "?"
		},
		HeaderComment: headerComment,
	}
}

// headerComment asserts that go-sql-driver/mysql's exported MySQLDriver
// type is the one registered under the database/sql "mysql" name
// generated code opens connections with.
func headerComment() string {
	var d mysql.MySQLDriver
	return fmt.Sprintf("driver: mysql (%T)", d)
}

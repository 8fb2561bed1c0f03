// Package gopq is the go-pq emit.Target: PostgreSQL via lib/pq, registered
// under the database/sql "postgres" driver name, with "$N" placeholders.
package gopq

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/sqlqc/sqlqc/emit"
)

// New returns the "go-pq" Target.
func New() emit.Target {
	return emit.Target{
		Lang:              "go",
		Driver:            "pq",
		DriverImportPath:  "github.com/lib/pq",
		DriverPackageName: "pq",
		Placeholder: func(index int, name string) string {
			return fmt.Sprintf("$%d", index)
		},
		HeaderComment: headerComment,
	}
}

// headerComment records the quoted form of the default search_path schema,
// using lib/pq's own identifier quoting so the generated header never
// drifts from how the driver itself would escape it.
func headerComment() string {
	return fmt.Sprintf("schema: %s", pq.QuoteIdentifier("public"))
}

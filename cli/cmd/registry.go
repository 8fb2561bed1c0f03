package cmd

import (
	"fmt"

	"github.com/sqlqc/sqlqc/emit"
	"github.com/sqlqc/sqlqc/emit/targets/gomssql"
	"github.com/sqlqc/sqlqc/emit/targets/gomysql"
	"github.com/sqlqc/sqlqc/emit/targets/gopgx"
	"github.com/sqlqc/sqlqc/emit/targets/gopq"
	"github.com/sqlqc/sqlqc/emit/targets/gosqlite"
	"github.com/sqlqc/sqlqc/emit/targets/gosqlx"
)

// sqlxInnerDrivers lists the database/sql driver names suggested for a
// "go-sqlx" target's sqlxDriver setting, as shown by the targets command and
// the missing-sqlxDriver error. "go-sqlx" is not in the registry; it is built
// per config entry by resolveTarget, which does not check sqlxDriver against
// this list.
var sqlxInnerDrivers = []string{"postgres", "mysql", "sqlite3", "sqlserver"}

func buildRegistry() emit.Registry {
	r := emit.NewRegistry()
	r.Register(gopgx.New())
	r.Register(gomssql.New())
	r.Register(gopq.New())
	r.Register(gomysql.New())
	r.Register(gosqlite.New())
	return r
}

// resolveTarget looks up a plain target key in the static registry, or
// builds a "go-sqlx" Target bound to the requested inner driver when key is
// "go-sqlx" and sqlxDriver is set.
func resolveTarget(registry emit.Registry, key, sqlxDriver string) (emit.Target, error) {
	if key == "go-sqlx" {
		if sqlxDriver == "" {
			return emit.Target{}, fmt.Errorf("target %q requires sqlxDriver (one of %v)", key, sqlxInnerDrivers)
		}
		return gosqlx.New(sqlxDriver), nil
	}
	t, ok := registry.Lookup(key)
	if !ok {
		return emit.Target{}, fmt.Errorf("unknown target %q (available: %v, go-sqlx)", key, registry.Keys())
	}
	return t, nil
}

package gosqlx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderStyleFollowsInnerDriver(t *testing.T) {
	cases := []struct {
		driver string
		index  int
		name   string
		want   string
	}{
		{"postgres", 2, "id", "$2"},
		{"sqlserver", 1, "id", "@p1"},
		{"godror", 1, "id", ":id"},
		{"mysql", 1, "id", "?"},
		{"sqlite3", 3, "id", "?"},
	}
	for _, c := range cases {
		target := New(c.driver)
		assert.Equal(t, c.want, target.Placeholder(c.index, c.name), "driver %s", c.driver)
	}
}

func TestKeyIsGoSqlx(t *testing.T) {
	assert.Equal(t, "go-sqlx", New("postgres").Key())
}

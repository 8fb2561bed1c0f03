package goref

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistingFuncsMissingFileIsEmpty(t *testing.T) {
	names, err := ExistingFuncs(filepath.Join(t.TempDir(), "does-not-exist.go"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExistingFuncsFindsTopLevelFunctions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.go")
	src := `package queries

func GetUser(id int64) (User, error) { return User{}, nil }

type repo struct{}

func (r repo) ListUsers() ([]User, error) { return nil, nil }

type User struct{ ID int64 }
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	names, err := ExistingFuncs(path)
	require.NoError(t, err)
	assert.True(t, names["GetUser"])
	assert.False(t, names["ListUsers"]) // method, not a free function
}

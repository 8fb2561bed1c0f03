// Package goref scans an existing Go source file for its top-level
// function declarations, for sqlqc's --merge mode: a file already merged
// once should not have sqlqc clobber functions a developer has since hand
// edited. It reuses the ast.Inspect-driven walking idiom the reference
// corpus uses to locate embed.FS call sites (goparser/inspect.go), but
// needs only syntax — no type information — so it is built on stdlib
// go/parser and go/ast rather than golang.org/x/tools/go/packages.
package goref

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
)

// ExistingFuncs returns the set of top-level function names declared in
// the Go source file at path. A missing file yields an empty, non-error
// result, since "nothing to merge with yet" is the common case on a
// first-ever generation run.
func ExistingFuncs(path string) (map[string]bool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	names := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		decl, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		if decl.Recv == nil { // only free functions, not methods
			names[decl.Name.Name] = true
		}
		return true
	})
	return names, nil
}

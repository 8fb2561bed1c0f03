package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sqlqc/sqlqc/ast"
	"github.com/sqlqc/sqlqc/parser"
	"github.com/sqlqc/sqlqc/resolver"
	"github.com/sqlqc/sqlqc/source"
)

// parsedFile pairs one *.sql file's path with the Document it parsed to.
type parsedFile struct {
	Path string
	Doc  *ast.Document
}

// findSQLFiles walks dir for *.sql files, in the same filepath.Walk style
// the reference corpus uses to locate files (cli/cmd/find.go).
func findSQLFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".sql") {
			paths = append(paths, p)
		}
		return nil
	})
	return paths, err
}

// loadAndResolve parses and resolves every *.sql file under dir, returning
// one parsedFile per input. Errors across different files are aggregated
// rather than stopping at the first bad file; within a single file, parsing
// itself is all-or-nothing and reports only its first error (spec §4.2/§7).
func loadAndResolve(dir string) ([]parsedFile, error) {
	paths, err := findSQLFiles(dir)
	if err != nil {
		return nil, err
	}

	var out []parsedFile
	var allErrs []string
	for _, p := range paths {
		contents, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		src := source.New(source.File(p), contents)
		doc, err := parser.Parse(src)
		if err != nil {
			allErrs = append(allErrs, err.Error())
			continue
		}
		if err := resolver.Resolve(doc); err != nil {
			allErrs = append(allErrs, err.Error())
			continue
		}
		if len(doc.Queries) == 0 {
			continue
		}
		out = append(out, parsedFile{Path: p, Doc: doc})
	}

	if len(allErrs) > 0 {
		return out, combinedError(strings.Join(allErrs, "\n"))
	}
	return out, nil
}

type combinedError string

func (c combinedError) Error() string { return string(c) }

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"

	"github.com/sqlqc/sqlqc/parser"
	"github.com/sqlqc/sqlqc/resolver"
	"github.com/sqlqc/sqlqc/source"
)

var dumpASTCmd = &cobra.Command{
	Use:   "dump-ast <file|->",
	Short: "Parse and resolve one SQL file and print its AST, for debugging annotation grammar",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("dump-ast takes exactly one file argument (or \"-\" for stdin)")
		}
		return runDumpAST(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpASTCmd)
}

func runDumpAST(path string) error {
	var (
		contents []byte
		name     string
		err      error
	)
	if path == "-" {
		contents, err = io.ReadAll(os.Stdin)
		// Stdin has no filename of its own; diagnostics still need
		// something to print, so synthesize one.
		name = "stdin-" + uuid.Must(uuid.NewV4()).String() + ".sql"
	} else {
		contents, err = os.ReadFile(path)
		name = path
	}
	if err != nil {
		return err
	}

	src := source.New(source.File(name), contents)
	doc, err := parser.Parse(src)
	if err != nil {
		fmt.Println(err)
	}
	if doc == nil {
		return err
	}
	if rerr := resolver.Resolve(doc); rerr != nil {
		fmt.Println(rerr)
	}

	fmt.Println(repr.String(doc))
	return nil
}

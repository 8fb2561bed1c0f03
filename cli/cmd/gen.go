package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlqc/sqlqc/emit"
	"github.com/sqlqc/sqlqc/internal/goref"
	"github.com/sqlqc/sqlqc/internal/trace"
)

var (
	mergeEnabled bool

	genCmd = &cobra.Command{
		Use:   "gen",
		Short: "Generate Go client code from annotated SQL files, per sqlqc.yaml's targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			return runGen()
		},
	}
)

func init() {
	genCmd.Flags().BoolVar(&mergeEnabled, "merge", false, "skip regenerating functions already declared in each output file")
	rootCmd.AddCommand(genCmd)
}

func runGen() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		return errors.New("sqlqc.yaml declares no targets")
	}

	files, err := loadAndResolve(directory)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no annotated SQL queries found in", directory)
		return nil
	}

	registry := buildRegistry()

	for _, tc := range cfg.Targets {
		target, err := resolveTarget(registry, tc.Target, tc.SqlxDriver)
		if err != nil {
			return err
		}

		if tc.Out == "" {
			return fmt.Errorf("target %q has no \"out\" directory configured", tc.Target)
		}
		if err := os.MkdirAll(tc.Out, 0o755); err != nil {
			return err
		}

		for _, pf := range files {
			outPath := filepath.Join(tc.Out, stem(pf.Path)+".go")

			var skip map[string]bool
			if mergeEnabled {
				existing, err := goref.ExistingFuncs(outPath)
				if err != nil {
					return err
				}
				skip = existing
			}

			trace.Print("generating %s -> %s (%s)\n", pf.Path, outPath, target.Key())

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			err = emit.RunMerge(out, pf.Doc, target, tc.Package, skip)
			closeErr := out.Close()
			if err != nil {
				return err
			}
			if closeErr != nil {
				return closeErr
			}
		}
	}

	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

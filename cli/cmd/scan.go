package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the directory tree and report which queries were discovered",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			_ = cmd.Help()
			return errors.New("too many arguments")
		}

		files, err := loadAndResolve(directory)
		if err != nil {
			fmt.Println("errors while parsing:")
			fmt.Println(err)
			fmt.Println()
		}
		if len(files) == 0 {
			fmt.Println("no annotated SQL queries found in", directory)
			return nil
		}

		for _, pf := range files {
			fmt.Println(pf.Path + ":")
			for _, q := range pf.Doc.Queries {
				kind := "query"
				if q.Multi {
					kind = "begin/end"
				}
				fmt.Printf("  %s %s(%d params) %s\n", kind, q.Signature.Name.Name, len(q.Signature.Parameters), q.Signature.Cardinality)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

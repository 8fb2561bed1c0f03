package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlqc",
		Short:        "sqlqc",
		SilenceUsage: true,
		Long:         `Code generator that turns annotated SQL query files into typed Go client code.`,
	}

	directory string
	tags      []string
	verbose   bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory and subtree which will be scanned for *.sql-files")
	rootCmd.PersistentFlags().StringSliceVarP(&tags, "tags", "t", nil, "include tags; accepted but not used by file discovery")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	return rootCmd.Execute()
}

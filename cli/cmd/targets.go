package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the available code generation targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := buildRegistry()
		for _, key := range registry.Keys() {
			fmt.Println(key)
		}
		fmt.Println("go-sqlx (requires sqlxDriver: one of " + fmt.Sprint(sqlxInnerDrivers) + ")")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

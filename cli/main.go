package main

import (
	"os"

	"github.com/sqlqc/sqlqc/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package trace is sqlqc's debug-print helper, gated on SQLQC_DEBUG, in
// the same style as the reference corpus's sqlparser/internal/utils.DPrint
// (SQLCODE_DEBUG).
package trace

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var _, enabled = os.LookupEnv("SQLQC_DEBUG")

// Print writes a debug line to stderr via logrus, only when SQLQC_DEBUG is
// set in the environment. The line is logged at Debug level, so logrus
// prints it only when its level is Debug (the CLI's --verbose).
func Print(format string, a ...any) {
	if !enabled {
		return
	}
	logrus.StandardLogger().Debug(fmt.Sprintf(format, a...))
}

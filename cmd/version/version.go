// Package version contains the "version" command.
package version

import (
	"fmt"

	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/version"
	"github.com/spf13/cobra"
)

// Cmd represents the "version" command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

// Log logs build and version information to the given logger.
func Log(l *logger.Logger) {
	l.Info("Version", version.LogFields()...)
}

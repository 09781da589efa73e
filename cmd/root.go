// Package cmd contains the accelfit CLI commands.
package cmd

import (
	"github.com/ohsu-comp-bio/accelfit/cmd/rank"
	"github.com/ohsu-comp-bio/accelfit/cmd/score"
	"github.com/ohsu-comp-bio/accelfit/cmd/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "accelfit",
	Short:         "Score compute hosts by how well their accelerators fit a workload.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(genMarkdownCmd)
	RootCmd.AddCommand(rank.NewCommand())
	RootCmd.AddCommand(score.NewCommand())
	RootCmd.AddCommand(version.Cmd)
}

package main

import (
	"os"

	"github.com/ohsu-comp-bio/accelfit/cmd"
	"github.com/ohsu-comp-bio/accelfit/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-sod/rango/internal/buildinfo"
)

const (
	cliName        = "rango"
	cliDescription = "Range queries over two-dimensional point sets."
)

var rootCmd = &cobra.Command{
	Use:          cliName,
	Short:        cliDescription,
	Version:      buildinfo.Info.String(),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		newBenchCommand(),
		newQueryCommand(),
		newPushCommand(),
		newRangeCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

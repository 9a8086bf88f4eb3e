package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

var rootCmd = &cobra.Command{
	Use:     "routinepanel",
	Short:   "routinepanel - web panel for stored database routines",
	Long:    `A single-binary web panel for listing, editing, executing and exporting stored procedures and functions.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate("routinepanel version {{.Version}}\n")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/rpc"
)

var (
	// Version is the current version of pl (overridden by ldflags at build time)
	Version = "0.3.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if outputResult(map[string]string{"version": Version, "build": Build}) {
			return
		}
		fmt.Printf("pl version %s (%s)\n", Version, Build)
	},
}

func init() {
	rpc.ClientVersion = Version
	rootCmd.AddCommand(versionCmd)
}

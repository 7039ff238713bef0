// pl is the Path Library CLI: structured improvement plans with phases,
// steps and action items, automatic progress rollup, and a status
// workflow, backed by SQLite with an optional daemon for shared access.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/debug"
)

var (
	// Global flag values, bound in init.
	jsonOutput bool
	formatFlag string
	noDaemon   bool
	dbPathFlag string
	actorFlag  string

	// rootCtx is canceled on SIGINT/SIGTERM so storage operations
	// unwind cleanly.
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// actor is the resolved identity for comments and assignments.
	actor string
)

var rootCmd = &cobra.Command{
	Use:   "pl",
	Short: "Track improvement paths from feedback to completion",
	Long: `pl manages a library of improvement paths. Each path carries a
structured plan (phases > steps > action items) with automatic progress
rollup, a status workflow, and a built-in assistant for plan questions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return err
		}
		// Flags beat config and environment.
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("no-daemon") {
			noDaemon = config.GetBool("no-daemon")
		}
		if dbPathFlag == "" {
			dbPathFlag = config.GetString("db")
		}
		actor = config.GetActor(actorFlag)
		if formatFlag == "yaml" || formatFlag == "json" {
			// --format json implies machine output like --json.
			if formatFlag == "json" {
				jsonOutput = true
			}
		} else if formatFlag != "" {
			return fmt.Errorf("unknown format %q (expected json or yaml)", formatFlag)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeBackend()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format (json or yaml)")
	rootCmd.PersistentFlags().BoolVar(&noDaemon, "no-daemon", false, "Bypass the daemon and use direct storage")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default: discovered .pathlib/paths.db)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Actor name for comments and assignments")

	rootCmd.AddGroup(
		&cobra.Group{ID: "paths", Title: "Path Commands:"},
		&cobra.Group{ID: "plan", Title: "Plan Commands:"},
		&cobra.Group{ID: "library", Title: "Library Commands:"},
	)
}

func main() {
	rootCtx, rootCancel = context.WithCancel(context.Background())
	defer rootCancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		debug.Logf("Debug: received signal, canceling\n")
		rootCancel()
	}()

	if err := rootCmd.Execute(); err != nil {
		FatalError("%v", err)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	GroupID: "library",
	Short:   "Summarize the path collection",
	Long: `Show totals, per-status counts, and average progress of active
paths. Accepts the same filters as list; sort and limit are ignored so
the numbers describe the whole selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		var stats *types.Statistics
		if daemonClient != nil {
			stats, err = daemonClient.Statistics(filter)
		} else {
			stats, err = lib.Statistics(rootCtx, filter)
		}
		if err != nil {
			return err
		}
		if outputResult(stats) {
			return nil
		}
		fmt.Println(ui.RenderStatsTable(stats, ui.GetWidth()))
		return nil
	},
}

func init() {
	addFilterFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

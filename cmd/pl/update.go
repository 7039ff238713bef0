package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	GroupID: "paths",
	Short:   "Edit a path's descriptive fields",
	Long: `Edit title, goal, notes, priority, owner or target date. Only the
flags you pass change; status transitions use activate/hold/complete/
archive instead. Archived paths cannot be edited.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		var (
			title, goal, notes, priority, owner *string
			baseline, current                   *string
			target                              *time.Time
			clearTarget                         bool
		)
		strFlag := func(name string) *string {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			s, _ := cmd.Flags().GetString(name)
			return &s
		}
		title = strFlag("title")
		goal = strFlag("goal")
		notes = strFlag("notes")
		priority = strFlag("priority")
		owner = strFlag("owner")
		baseline = strFlag("baseline-metric")
		current = strFlag("current-metric")
		clearTarget, _ = cmd.Flags().GetBool("clear-target")

		if s, _ := cmd.Flags().GetString("target"); s != "" {
			t, err := parseDate(s)
			if err != nil {
				return err
			}
			target = &t
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.UpdatePath(rpc.UpdateArgs{
				ID:                   args[0],
				Title:                title,
				GoalStatement:        goal,
				Notes:                notes,
				Priority:             priority,
				OwnerID:              owner,
				BaselineMetric:       baseline,
				CurrentMetric:        current,
				TargetCompletionDate: target,
				ClearTarget:          clearTarget,
			})
		} else {
			req := library.UpdateDetailsRequest{
				Title:                title,
				GoalStatement:        goal,
				Notes:                notes,
				OwnerID:              owner,
				BaselineMetric:       baseline,
				CurrentMetric:        current,
				TargetCompletionDate: target,
				ClearTarget:          clearTarget,
			}
			if priority != nil {
				prio := types.Priority(*priority)
				req.Priority = &prio
			}
			p, err = lib.UpdateDetails(rootCtx, args[0], req)
		}
		if err != nil {
			return err
		}

		if outputResult(p) {
			return nil
		}
		fmt.Printf("Updated path %s\n", p.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("goal", "", "New goal statement")
	updateCmd.Flags().String("notes", "", "New notes")
	updateCmd.Flags().StringP("priority", "p", "", "New priority")
	updateCmd.Flags().String("owner", "", "New owner ID")
	updateCmd.Flags().String("baseline-metric", "", "Baseline measurement as JSON text")
	updateCmd.Flags().String("current-metric", "", "Latest measurement as JSON text")
	updateCmd.Flags().String("target", "", "New target completion date")
	updateCmd.Flags().Bool("clear-target", false, "Remove the target completion date")
	rootCmd.AddCommand(updateCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
	"github.com/jotpotato/pathlib/internal/workflow"
)

// transitionPath runs a workflow transition in daemon or direct mode.
func transitionPath(id string, newStatus types.PathStatus, reason, learnings string) (*types.Path, error) {
	if daemonClient != nil {
		return daemonClient.TransitionStatus(rpc.StatusArgs{
			ID:                  id,
			NewStatus:           string(newStatus),
			OnHoldReason:        reason,
			CompletionLearnings: learnings,
		})
	}
	return lib.TransitionStatus(rootCtx, id, workflow.Request{
		NewStatus:           newStatus,
		OnHoldReason:        reason,
		CompletionLearnings: learnings,
	})
}

func reportTransition(p *types.Path) error {
	if outputResult(p) {
		return nil
	}
	fmt.Printf("%sPath %s is now %s\n", statusMarker(p.Status), p.ID, p.Status)
	return nil
}

// statusMarker returns an emoji prefix for the new status, or "" when
// emoji output is disabled.
func statusMarker(s types.PathStatus) string {
	if !ui.ShouldUseEmoji() {
		return ""
	}
	switch s {
	case types.StatusActive:
		return "🚀 "
	case types.StatusOnHold:
		return "⏸️  "
	case types.StatusCompleted:
		return "✅ "
	case types.StatusArchived:
		return "📦 "
	}
	return ""
}

var activateCmd = &cobra.Command{
	Use:     "activate <id>",
	GroupID: "paths",
	Short:   "Start (or resume) work on a path",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		p, err := transitionPath(args[0], types.StatusActive, "", "")
		if err != nil {
			return err
		}
		return reportTransition(p)
	},
}

var holdCmd = &cobra.Command{
	Use:     "hold <id>",
	GroupID: "paths",
	Short:   "Put an active path on hold",
	Long:    `Pause an active path. A reason is required so the pause is explainable later.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		p, err := transitionPath(args[0], types.StatusOnHold, reason, "")
		if err != nil {
			return err
		}
		return reportTransition(p)
	},
}

var completeCmd = &cobra.Command{
	Use:     "complete <id>",
	GroupID: "paths",
	Short:   "Mark a path completed",
	Long:    `Complete an active path. Learnings are required; they are the payoff of the whole exercise.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		learnings, _ := cmd.Flags().GetString("learnings")
		p, err := transitionPath(args[0], types.StatusCompleted, "", learnings)
		if err != nil {
			return err
		}
		return reportTransition(p)
	},
}

var archiveCmd = &cobra.Command{
	Use:     "archive <id>",
	GroupID: "paths",
	Short:   "Archive a path (terminal, read-only)",
	Long: `Archive a path. Archived paths are frozen: no edits, plan changes,
comments or further transitions. There is no unarchive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		p, err := transitionPath(args[0], types.StatusArchived, "", "")
		if err != nil {
			return err
		}
		return reportTransition(p)
	},
}

func init() {
	holdCmd.Flags().String("reason", "", "Why the path is paused (required)")
	completeCmd.Flags().String("learnings", "", "What the team learned (required)")
	rootCmd.AddCommand(activateCmd, holdCmd, completeCmd, archiveCmd)
}

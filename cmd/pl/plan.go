package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
)

var phaseCmd = &cobra.Command{
	Use:     "phase",
	GroupID: "plan",
	Short:   "Manage plan phases",
}

var phaseAddCmd = &cobra.Command{
	Use:   "add <path-id> <name>",
	Short: "Add a phase to a path's plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.AddPhase(rpc.PhaseAddArgs{
				PathID: args[0], Name: args[1], Description: description,
			})
		} else {
			p, err = lib.AddPhase(rootCtx, args[0], args[1], description)
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		fmt.Printf("Added phase %d to %s (progress now %d%%)\n", len(p.Phases), p.ID, p.Progress)
		return nil
	},
}

var stepCmd = &cobra.Command{
	Use:     "step",
	GroupID: "plan",
	Short:   "Manage plan steps",
}

var stepAddCmd = &cobra.Command{
	Use:   "add <path-id> <phase-id> <name>",
	Short: "Add a step to a phase",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.AddStep(rpc.StepAddArgs{
				PathID: args[0], PhaseID: args[1], Name: args[2], Description: description,
			})
		} else {
			p, err = lib.AddStep(rootCtx, args[0], args[1], args[2], description)
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		fmt.Printf("Added step to %s (progress now %d%%)\n", p.ID, p.Progress)
		return nil
	},
}

func init() {
	phaseAddCmd.Flags().String("description", "", "Phase description")
	stepAddCmd.Flags().String("description", "", "Step description")
	phaseCmd.AddCommand(phaseAddCmd)
	stepCmd.AddCommand(stepAddCmd)
	rootCmd.AddCommand(phaseCmd, stepCmd)
}

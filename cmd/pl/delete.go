package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	GroupID: "paths",
	Short:   "Delete a path and its entire plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !jsonOutput {
			if !ui.PromptYesNo(fmt.Sprintf("Delete path %s and all its phases, steps and items?", args[0]), false) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		var err error
		if daemonClient != nil {
			err = daemonClient.DeletePath(args[0])
		} else {
			err = lib.DeletePath(rootCtx, args[0])
		}
		if err != nil {
			return err
		}

		if outputResult(map[string]string{"deleted": args[0]}) {
			return nil
		}
		fmt.Printf("Deleted path %s\n", args[0])
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	GroupID: "paths",
	Short:   "Show a path with its full plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.ShowPath(args[0])
		} else {
			p, err = lib.GetPath(rootCtx, args[0])
		}
		if err != nil {
			return err
		}

		if outputResult(p) {
			return nil
		}
		fmt.Println(ui.RenderPathDetail(p, ui.GetWidth()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

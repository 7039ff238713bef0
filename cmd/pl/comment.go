package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	GroupID: "paths",
	Short:   "Collaborate on a path",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <path-id> <text...>",
	Short: "Add a comment to a path",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		content := strings.Join(args[1:], " ")

		var c *types.PathComment
		var err error
		if daemonClient != nil {
			c, err = daemonClient.AddComment(rpc.CommentAddArgs{
				PathID: args[0], Author: actor, Content: content,
			})
		} else {
			c, err = lib.AddComment(rootCtx, args[0], actor, content)
		}
		if err != nil {
			return err
		}
		if outputResult(c) {
			return nil
		}
		fmt.Printf("Comment %d added to %s\n", c.ID, args[0])
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <path-id>",
	Short: "List a path's comments oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		var comments []*types.PathComment
		var err error
		if daemonClient != nil {
			comments, err = daemonClient.ListComments(args[0])
		} else {
			comments, err = lib.GetComments(rootCtx, args[0])
		}
		if err != nil {
			return err
		}
		if outputResult(comments) {
			return nil
		}
		fmt.Println(ui.RenderComments(comments))
		return nil
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd, commentListCmd)
	rootCmd.AddCommand(commentCmd)
}

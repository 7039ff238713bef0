package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
)

var itemCmd = &cobra.Command{
	Use:     "item",
	GroupID: "plan",
	Short:   "Manage action items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <path-id> <step-id> <title>",
	Short: "Add an action item to a step",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		assigneeID, _ := cmd.Flags().GetString("assignee")
		assigneeName, _ := cmd.Flags().GetString("assignee-name")
		notes, _ := cmd.Flags().GetString("notes")
		dueStr, _ := cmd.Flags().GetString("due")

		var due *time.Time
		if dueStr != "" {
			t, err := parseDate(dueStr)
			if err != nil {
				return err
			}
			due = &t
		}
		if assigneeID != "" && assigneeName == "" {
			assigneeName = assigneeID
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.AddItem(rpc.ItemAddArgs{
				PathID: args[0], StepID: args[1], Title: args[2],
				DueDate: due, AssigneeID: assigneeID, AssigneeName: assigneeName, Notes: notes,
			})
		} else {
			p, err = lib.AddItem(rootCtx, args[0], args[1], library.AddItemRequest{
				Title: args[2], DueDate: due,
				AssigneeID: assigneeID, AssigneeName: assigneeName, Notes: notes,
			})
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		fmt.Printf("Added item to %s (progress now %d%%)\n", p.ID, p.Progress)
		return nil
	},
}

// setItemStatus drives the status change and prints the rollup result.
func setItemStatus(pathID, itemID string, status types.ItemStatus) error {
	var p *types.Path
	var err error
	if daemonClient != nil {
		p, err = daemonClient.UpdateItemStatus(rpc.ItemStatusArgs{
			PathID: pathID, ItemID: itemID, Status: string(status),
		})
	} else {
		p, err = lib.UpdateItemStatus(rootCtx, pathID, itemID, status)
	}
	if err != nil {
		return err
	}
	if outputResult(p) {
		return nil
	}
	fmt.Printf("Item %s is now %s; path %s at %d%%\n", itemID, status, p.ID, p.Progress)
	return nil
}

var itemStatusCmd = &cobra.Command{
	Use:   "status <path-id> <item-id> <status>",
	Short: "Set an item's status (pending, in_progress, done, blocked)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		return setItemStatus(args[0], args[1], types.ItemStatus(args[2]))
	},
}

var itemStartCmd = &cobra.Command{
	Use:   "start <path-id> <item-id>",
	Short: "Mark an item in progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		return setItemStatus(args[0], args[1], types.ItemInProgress)
	},
}

var itemDoneCmd = &cobra.Command{
	Use:   "done <path-id> <item-id>",
	Short: "Mark an item done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		return setItemStatus(args[0], args[1], types.ItemDone)
	},
}

var itemAssignCmd = &cobra.Command{
	Use:   "assign <path-id> <item-id> <assignee-id>",
	Short: "Assign an item",
	Long: `Assign an action item. The assignee name is snapshotted at
assignment time and does not follow later renames.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = args[2]
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.AssignItem(rpc.ItemAssignArgs{
				PathID: args[0], ItemID: args[1], AssigneeID: args[2], AssigneeName: name,
			})
		} else {
			p, err = lib.AssignItem(rootCtx, args[0], args[1], args[2], name)
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		fmt.Printf("Assigned item %s to %s\n", args[1], name)
		return nil
	},
}

var itemDueCmd = &cobra.Command{
	Use:   "due <path-id> <item-id> [date]",
	Short: "Set or clear an item's due date",
	Long:  `Set an item's due date. Omit the date, or pass --clear, to remove it.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}
		clear, _ := cmd.Flags().GetBool("clear")

		var due *time.Time
		if len(args) == 3 && !clear {
			t, err := parseDate(args[2])
			if err != nil {
				return err
			}
			due = &t
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.SetItemDueDate(rpc.ItemDueArgs{
				PathID: args[0], ItemID: args[1], DueDate: due,
			})
		} else {
			p, err = lib.SetItemDueDate(rootCtx, args[0], args[1], due)
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		if due == nil {
			fmt.Printf("Cleared due date on item %s\n", args[1])
		} else {
			fmt.Printf("Item %s due %s\n", args[1], due.Format("2006-01-02"))
		}
		return nil
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <path-id> <item-id>",
	Short: "Remove an action item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.RemoveItem(rpc.ItemRemoveArgs{PathID: args[0], ItemID: args[1]})
		} else {
			p, err = lib.RemoveItem(rootCtx, args[0], args[1])
		}
		if err != nil {
			return err
		}
		if outputResult(p) {
			return nil
		}
		fmt.Printf("Removed item %s; path %s at %d%%\n", args[1], p.ID, p.Progress)
		return nil
	},
}

func init() {
	itemAddCmd.Flags().String("assignee", "", "Assignee ID")
	itemAddCmd.Flags().String("assignee-name", "", "Assignee display name (defaults to the ID)")
	itemAddCmd.Flags().String("notes", "", "Item notes")
	itemAddCmd.Flags().String("due", "", "Due date")
	itemAssignCmd.Flags().String("name", "", "Assignee display name (defaults to the ID)")
	itemDueCmd.Flags().Bool("clear", false, "Clear the due date")

	itemCmd.AddCommand(itemAddCmd, itemStatusCmd, itemStartCmd, itemDoneCmd,
		itemAssignCmd, itemDueCmd, itemRemoveCmd)
	rootCmd.AddCommand(itemCmd)
}

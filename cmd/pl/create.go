package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
)

var createCmd = &cobra.Command{
	Use:     "create [title]",
	GroupID: "paths",
	Short:   "Create a new improvement path",
	Long: `Create a new improvement path. With a title argument the path is
created from flags; without one an interactive form opens (TTY only).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		goal, _ := cmd.Flags().GetString("goal")
		priority, _ := cmd.Flags().GetString("priority")
		notes, _ := cmd.Flags().GetString("notes")
		issueID, _ := cmd.Flags().GetString("issue")
		rootCauseID, _ := cmd.Flags().GetString("root-cause")
		initiativeID, _ := cmd.Flags().GetString("initiative")
		orgID, _ := cmd.Flags().GetString("org")
		ownerID, _ := cmd.Flags().GetString("owner")
		targetStr, _ := cmd.Flags().GetString("target")
		activate, _ := cmd.Flags().GetBool("activate")

		title := ""
		if len(args) > 0 {
			title = args[0]
		}
		if orgID == "" {
			orgID = config.GetString("organization")
		}

		if title == "" {
			if !ui.IsTerminal() {
				return fmt.Errorf("title is required in non-interactive mode")
			}
			var err error
			title, goal, priority, ownerID, notes, activate, err = runCreateForm()
			if err != nil {
				return err
			}
		}

		var target *time.Time
		if targetStr != "" {
			t, err := parseDate(targetStr)
			if err != nil {
				return err
			}
			target = &t
		}

		var p *types.Path
		var err error
		if daemonClient != nil {
			p, err = daemonClient.CreatePath(rpc.PathCreateArgs{
				Title:                title,
				GoalStatement:        goal,
				Priority:             priority,
				Notes:                notes,
				IssueID:              issueID,
				RootCauseID:          rootCauseID,
				InitiativeID:         initiativeID,
				OrganizationID:       orgID,
				OwnerID:              ownerID,
				TargetCompletionDate: target,
				Activate:             activate,
			})
		} else {
			p, err = lib.CreatePath(rootCtx, library.CreatePathRequest{
				Title:                title,
				GoalStatement:        goal,
				Priority:             types.Priority(priority),
				Notes:                notes,
				IssueID:              issueID,
				RootCauseID:          rootCauseID,
				InitiativeID:         initiativeID,
				OrganizationID:       orgID,
				OwnerID:              ownerID,
				TargetCompletionDate: target,
				Activate:             activate,
			})
		}
		if err != nil {
			return err
		}

		if outputResult(p) {
			return nil
		}
		fmt.Printf("Created path %s: %s [%s]\n", p.ID, p.Title, p.Status)
		return nil
	},
}

// runCreateForm collects path fields through an interactive form.
func runCreateForm() (title, goal, priority, owner, notes string, activate bool, err error) {
	priority = string(types.PriorityMedium)

	priorityOptions := []huh.Option[string]{
		huh.NewOption("Critical", string(types.PriorityCritical)),
		huh.NewOption("High", string(types.PriorityHigh)),
		huh.NewOption("Medium (default)", string(types.PriorityMedium)),
		huh.NewOption("Low", string(types.PriorityLow)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("What this path improves (required)").
				Placeholder("e.g., Reduce onboarding churn in week one").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					if len(s) > 500 {
						return fmt.Errorf("title must be 500 characters or less")
					}
					return nil
				}),
			huh.NewText().
				Title("Goal statement").
				Description("The outcome that would make this path done").
				Value(&goal),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&priority),
			huh.NewInput().
				Title("Owner").
				Description("Person accountable for the path (optional)").
				Value(&owner),
			huh.NewText().
				Title("Notes").
				Value(&notes),
			huh.NewConfirm().
				Title("Activate immediately?").
				Value(&activate),
		),
	)
	if formErr := form.Run(); formErr != nil {
		err = fmt.Errorf("form canceled: %w", formErr)
	}
	return
}

func init() {
	createCmd.Flags().String("goal", "", "Goal statement")
	createCmd.Flags().StringP("priority", "p", "", "Priority (critical, high, medium, low)")
	createCmd.Flags().String("notes", "", "Free-form notes")
	createCmd.Flags().String("issue", "", "Linked issue ID")
	createCmd.Flags().String("root-cause", "", "Linked root cause ID")
	createCmd.Flags().String("initiative", "", "Linked initiative ID")
	createCmd.Flags().String("org", "", "Organization ID")
	createCmd.Flags().String("owner", "", "Owner ID")
	createCmd.Flags().String("target", "", "Target completion date")
	createCmd.Flags().Bool("activate", false, "Activate the path on creation")
	rootCmd.AddCommand(createCmd)
}

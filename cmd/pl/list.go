package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "paths",
	Short:   "List paths with filters",
	Long: `List paths. All filters combine with AND. Sort with --sort using
created_at, updated_at, priority, or progress_percentage; prefix with
"-" for descending (e.g. --sort -updated_at).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBackend(); err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		var paths []*types.Path
		if daemonClient != nil {
			paths, err = daemonClient.ListPaths(filter)
		} else {
			paths, err = lib.ListPaths(rootCtx, filter)
		}
		if err != nil {
			return err
		}

		if outputResult(paths) {
			return nil
		}
		fmt.Println(ui.RenderPathTable(paths, ui.GetWidth()))
		return nil
	},
}

// filterFromFlags builds a PathFilter from the list/stats flag set.
func filterFromFlags(cmd *cobra.Command) (types.PathFilter, error) {
	var filter types.PathFilter

	filter.Status, _ = cmd.Flags().GetString("status")
	filter.Priority, _ = cmd.Flags().GetString("priority")
	filter.OrganizationID, _ = cmd.Flags().GetString("org")
	filter.OwnerID, _ = cmd.Flags().GetString("owner")
	filter.Search, _ = cmd.Flags().GetString("search")
	filter.OrderBy, _ = cmd.Flags().GetString("sort")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if filter.OrganizationID == "" {
		filter.OrganizationID = config.GetString("organization")
	}
	if !cmd.Flags().Changed("limit") {
		filter.Limit = config.GetInt("list.limit")
	}

	if cmd.Flags().Changed("min-progress") {
		n, _ := cmd.Flags().GetInt("min-progress")
		filter.MinProgress = &n
	}
	if cmd.Flags().Changed("max-progress") {
		n, _ := cmd.Flags().GetInt("max-progress")
		filter.MaxProgress = &n
	}

	if s, _ := cmd.Flags().GetString("created-after"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return filter, err
		}
		filter.CreatedAfter = &t
	}
	if s, _ := cmd.Flags().GetString("created-before"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return filter, err
		}
		filter.CreatedBefore = &t
	}
	if s, _ := cmd.Flags().GetString("due-after"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return filter, err
		}
		filter.TargetAfter = &t
	}
	if s, _ := cmd.Flags().GetString("due-before"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return filter, err
		}
		filter.TargetBefore = &t
	}

	return filter, nil
}

// addFilterFlags registers the shared filter flag set on a command.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().StringP("priority", "p", "", "Filter by priority")
	cmd.Flags().String("org", "", "Filter by organization ID")
	cmd.Flags().String("owner", "", "Filter by owner ID")
	cmd.Flags().String("search", "", "Substring search over title, goal and notes")
	cmd.Flags().String("created-after", "", "Created on or after this date")
	cmd.Flags().String("created-before", "", "Created on or before this date")
	cmd.Flags().String("due-after", "", "Target completion on or after this date")
	cmd.Flags().String("due-before", "", "Target completion on or before this date")
	cmd.Flags().Int("min-progress", 0, "Minimum progress percentage")
	cmd.Flags().Int("max-progress", 100, "Maximum progress percentage")
	cmd.Flags().String("sort", "", "Sort key, optionally prefixed with - for descending")
	cmd.Flags().Int("limit", 0, "Maximum number of results (0 = unlimited)")
}

func init() {
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

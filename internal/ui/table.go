package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jotpotato/pathlib/internal/types"
)

// NewPathTable creates a table with the default list styling.
func NewPathTable(width int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Width(width)
}

// RenderPathTable renders paths as a bordered table for list output.
func RenderPathTable(paths []*types.Path, width int) string {
	if len(paths) == 0 {
		return TableHintStyle.Render("No paths match the current filters.")
	}

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, []string{
			p.ID,
			truncate(p.Title, width-58),
			string(p.Status),
			string(p.Priority),
			fmt.Sprintf("%d%%", p.Progress),
			p.UpdatedAt.Format("2006-01-02"),
		})
	}

	return NewPathTable(width).
		Headers("ID", "Title", "Status", "Priority", "Progress", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 2:
				return style.Inherit(StatusStyle(string(paths[row].Status)))
			case 3:
				return style.Inherit(PriorityStyle(string(paths[row].Priority)))
			case 4:
				return style.Align(lipgloss.Right)
			}
			return style.Align(lipgloss.Left)
		}).
		String()
}

// RenderStatsTable renders collection statistics as a two-column table.
func RenderStatsTable(stats *types.Statistics, width int) string {
	rows := [][]string{
		{"Total paths", fmt.Sprintf("%d", stats.TotalPaths)},
	}
	for _, status := range []types.PathStatus{
		types.StatusDraft, types.StatusActive, types.StatusOnHold,
		types.StatusCompleted, types.StatusArchived,
	} {
		rows = append(rows, []string{string(status), fmt.Sprintf("%d", stats.ByStatus[status])})
	}
	rows = append(rows, []string{"Average progress (active)", fmt.Sprintf("%.1f%%", stats.AverageProgress)})

	return NewPathTable(width).
		Headers("Metric", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.Width(width/2 - 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 {
				return style.Align(lipgloss.Right)
			}
			return style.Align(lipgloss.Left)
		}).
		String()
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}

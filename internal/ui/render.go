package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jotpotato/pathlib/internal/types"
)

// RenderMarkdown renders markdown for terminal display. Falls back to
// the raw text when rendering fails or color is disabled.
func RenderMarkdown(md string, width int) string {
	if !ShouldUseColor() {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// RenderPathDetail renders a full path with its plan tree.
func RenderPathDetail(p *types.Path, width int) string {
	var sections []string

	title := HeadingStyle.Render(fmt.Sprintf("%s  %s", p.ID, p.Title))
	sections = append(sections, title)

	meta := []string{
		LabelStyle.Render("status: ") + StatusStyle(string(p.Status)).Render(string(p.Status)),
		LabelStyle.Render("priority: ") + PriorityStyle(string(p.Priority)).Render(string(p.Priority)),
		LabelStyle.Render("progress: ") + fmt.Sprintf("%d%%", p.Progress),
	}
	if p.OwnerID != "" {
		meta = append(meta, LabelStyle.Render("owner: ")+p.OwnerID)
	}
	if p.TargetCompletionDate != nil {
		meta = append(meta, LabelStyle.Render("target: ")+p.TargetCompletionDate.Format("2006-01-02"))
	}
	sections = append(sections, strings.Join(meta, "  "))

	if p.GoalStatement != "" {
		sections = append(sections, "", LabelStyle.Render("Goal")+"\n"+p.GoalStatement)
	}
	if p.Status == types.StatusOnHold && p.OnHoldReason != "" {
		sections = append(sections, "", TableWarningStyle.Render("On hold: "+p.OnHoldReason))
	}
	if p.CompletionLearnings != "" {
		sections = append(sections, "", LabelStyle.Render("Learnings")+"\n"+p.CompletionLearnings)
	}
	if p.Notes != "" {
		sections = append(sections, "", LabelStyle.Render("Notes")+"\n"+p.Notes)
	}
	if p.BaselineMetric != "" || p.CurrentMetric != "" {
		var m []string
		if p.BaselineMetric != "" {
			m = append(m, LabelStyle.Render("baseline: ")+p.BaselineMetric)
		}
		if p.CurrentMetric != "" {
			m = append(m, LabelStyle.Render("current: ")+p.CurrentMetric)
		}
		sections = append(sections, "", LabelStyle.Render("Metrics")+"\n"+strings.Join(m, "\n"))
	}

	if len(p.Phases) > 0 {
		sections = append(sections, "", HeadingStyle.Render("Plan"))
		for _, ph := range p.Phases {
			sections = append(sections, renderPhase(ph))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderPhase(ph *types.Phase) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s (%d%%)",
		HeadingStyle.Render(fmt.Sprintf("Phase %d.", ph.Order)), ph.Name, ph.Progress))
	for _, st := range ph.Steps {
		lines = append(lines, fmt.Sprintf("  %d.%d %s (%d%%)", ph.Order, st.Order, st.Name, st.Progress))
		for _, item := range st.Items {
			lines = append(lines, "    "+renderItem(item))
		}
	}
	return strings.Join(lines, "\n")
}

func renderItem(item *types.ActionItem) string {
	marker := "[ ]"
	style := lipgloss.NewStyle()
	switch item.Status {
	case types.ItemInProgress:
		marker = "[~]"
		style = TableWarningStyle
	case types.ItemDone:
		marker = "[x]"
		style = TableSuccessStyle
	case types.ItemBlocked:
		marker = "[!]"
		style = lipgloss.NewStyle().Foreground(ColorFail)
	}

	line := fmt.Sprintf("%s %s", marker, item.Title)
	var extras []string
	if item.AssigneeName != "" {
		extras = append(extras, "@"+item.AssigneeName)
	}
	if item.DueDate != nil {
		extras = append(extras, "due "+item.DueDate.Format("2006-01-02"))
	}
	if len(extras) > 0 {
		line += TableHintStyle.Render(" (" + strings.Join(extras, ", ") + ")")
	}
	return style.Render(line)
}

// RenderComments renders a path's comment thread.
func RenderComments(comments []*types.PathComment) string {
	if len(comments) == 0 {
		return TableHintStyle.Render("No comments yet.")
	}
	var lines []string
	for _, c := range comments {
		lines = append(lines, fmt.Sprintf("%s %s",
			HeadingStyle.Render(c.AuthorID),
			TableHintStyle.Render(c.CreatedAt.Format("2006-01-02 15:04"))))
		lines = append(lines, c.Content, "")
	}
	return strings.Join(lines, "\n")
}

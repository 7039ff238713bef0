package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jotpotato/pathlib/internal/types"
)

func statusLabel(s types.PathStatus) string {
	switch s {
	case types.StatusDraft:
		return "Draft"
	case types.StatusActive:
		return "Active"
	case types.StatusOnHold:
		return "On Hold"
	case types.StatusCompleted:
		return "Completed"
	case types.StatusArchived:
		return "Archived"
	}
	return string(s)
}

func (c *Classifier) answerStatus(p *types.Path) Answer {
	total := p.TotalItems()
	done := p.DoneItems()

	var b strings.Builder
	fmt.Fprintf(&b, "## Path Status Overview\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", p.Title)
	fmt.Fprintf(&b, "Status: **%s** | Progress: **%d%%**\n\n", statusLabel(p.Status), p.Progress)
	fmt.Fprintf(&b, "Action items completed: **%d of %d**\n", done, total)
	if p.Status == types.StatusOnHold && p.OnHoldReason != "" {
		fmt.Fprintf(&b, "\nOn hold: %s\n", p.OnHoldReason)
	}

	return Answer{
		Category:   CategoryStatus,
		AnswerText: b.String(),
		StructuredData: map[string]any{
			"status":              string(p.Status),
			"progress_percentage": p.Progress,
			"items_done":          done,
			"items_total":         total,
		},
	}
}

func (c *Classifier) answerBlocked(p *types.Path) Answer {
	type blockedEntry struct {
		Title string `json:"title"`
		Step  string `json:"step"`
		Phase string `json:"phase"`
	}
	var entries []blockedEntry
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.Status == types.ItemBlocked {
					entries = append(entries, blockedEntry{Title: it.Title, Step: st.Name, Phase: ph.Name})
				}
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Blocked Items\n\n")
	if len(entries) == 0 {
		b.WriteString("No blocked action items. Nothing is currently stuck.\n")
	} else {
		fmt.Fprintf(&b, "%d action item(s) are blocked:\n\n", len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "- **%s** (%s / %s)\n", e.Title, e.Phase, e.Step)
		}
	}

	return Answer{
		Category:       CategoryBlocked,
		AnswerText:     b.String(),
		StructuredData: map[string]any{"blocked_items": entries, "count": len(entries)},
	}
}

func (c *Classifier) answerDueDates(p *types.Path) Answer {
	type dueEntry struct {
		Title   string    `json:"title"`
		DueDate time.Time `json:"due_date"`
		Urgent  bool      `json:"urgent"`
	}
	now := c.now()
	var entries []dueEntry
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.DueDate == nil || it.Status == types.ItemDone {
					continue
				}
				if it.DueDate.Before(now) {
					continue
				}
				entries = append(entries, dueEntry{
					Title:   it.Title,
					DueDate: *it.DueDate,
					Urgent:  it.DueDate.Sub(now) <= UrgentHorizon,
				})
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.Before(entries[j].DueDate)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "## Upcoming Due Dates\n\n")
	if len(entries) == 0 {
		b.WriteString("No pending action items with a future due date.\n")
	} else {
		for _, e := range entries {
			if e.Urgent {
				fmt.Fprintf(&b, "- **%s**: due %s (urgent)\n", e.Title, e.DueDate.Format("Jan 2, 2006"))
			} else {
				fmt.Fprintf(&b, "- %s: due %s\n", e.Title, e.DueDate.Format("Jan 2, 2006"))
			}
		}
	}

	return Answer{
		Category:       CategoryDueDates,
		AnswerText:     b.String(),
		StructuredData: map[string]any{"upcoming": entries, "count": len(entries)},
	}
}

func (c *Classifier) answerCompleted(p *types.Path) Answer {
	var titles []string
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.Status == types.ItemDone {
					titles = append(titles, it.Title)
				}
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Completed Work\n\n")
	if len(titles) == 0 {
		b.WriteString("No action items have been completed yet.\n")
	} else {
		fmt.Fprintf(&b, "%d action item(s) done:\n\n", len(titles))
		for _, t := range titles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	if p.Status == types.StatusCompleted && p.CompletionLearnings != "" {
		fmt.Fprintf(&b, "\n**Learnings:** %s\n", p.CompletionLearnings)
	}

	data := map[string]any{"done_items": titles, "count": len(titles)}
	if p.Status == types.StatusCompleted {
		data["completion_learnings"] = p.CompletionLearnings
	}
	return Answer{Category: CategoryCompleted, AnswerText: b.String(), StructuredData: data}
}

// Member is one distinct assignee across the path's action items.
type Member struct {
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
}

// Roster returns the distinct assignees of a path, deduplicated by
// assignee id so a renamed person still counts once. Order follows
// first appearance in the plan.
func Roster(p *types.Path) []Member {
	seen := make(map[string]bool)
	var out []Member
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.AssigneeID == "" || seen[it.AssigneeID] {
					continue
				}
				seen[it.AssigneeID] = true
				out = append(out, Member{AssigneeID: it.AssigneeID, AssigneeName: it.AssigneeName})
			}
		}
	}
	return out
}

func (c *Classifier) answerTeam(p *types.Path) Answer {
	members := Roster(p)

	var b strings.Builder
	if len(members) == 0 {
		b.WriteString("## Team\n\nNo team members have been assigned yet.\n")
	} else {
		fmt.Fprintf(&b, "## Team (%d members)\n\n", len(members))
		for _, m := range members {
			fmt.Fprintf(&b, "- %s\n", m.AssigneeName)
		}
	}

	return Answer{
		Category:       CategoryTeam,
		AnswerText:     b.String(),
		StructuredData: map[string]any{"members": members, "count": len(members)},
	}
}

func (c *Classifier) answerPhases(p *types.Path) Answer {
	type phaseEntry struct {
		Name     string `json:"name"`
		Progress int    `json:"progress_percentage"`
	}
	phases := append([]*types.Phase(nil), p.Phases...)
	sort.SliceStable(phases, func(i, j int) bool { return phases[i].Order < phases[j].Order })

	var entries []phaseEntry
	var b strings.Builder
	fmt.Fprintf(&b, "## Implementation Phases\n\n")
	if len(phases) == 0 {
		b.WriteString("No phases have been defined yet.\n")
	} else {
		for i, ph := range phases {
			entries = append(entries, phaseEntry{Name: ph.Name, Progress: ph.Progress})
			fmt.Fprintf(&b, "%d. **%s**: %d%%\n", i+1, ph.Name, ph.Progress)
		}
	}

	return Answer{
		Category:       CategoryPhases,
		AnswerText:     b.String(),
		StructuredData: map[string]any{"phases": entries, "count": len(entries)},
	}
}

func (c *Classifier) answerDefault(p *types.Path) Answer {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", p.Title)
	if p.GoalStatement != "" {
		fmt.Fprintf(&b, "%s\n\n", p.GoalStatement)
	}
	fmt.Fprintf(&b, "Status: %s | Progress: %d%%\n\n", statusLabel(p.Status), p.Progress)
	b.WriteString("You can ask about: status, blocked items, due dates, completed work, the team, or phases.\n")

	return Answer{
		Category:   CategoryDefault,
		AnswerText: b.String(),
		StructuredData: map[string]any{
			"title":               p.Title,
			"status":              string(p.Status),
			"progress_percentage": p.Progress,
		},
	}
}

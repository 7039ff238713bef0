// Package types defines the core data model for the path library:
// the feedback chain (Issue -> RootCause -> Initiative) and the
// implementation plan hierarchy (Path -> Phase -> Step -> ActionItem).
package types

import "time"

// PathStatus is the workflow state of a Path.
type PathStatus string

const (
	StatusDraft     PathStatus = "draft"
	StatusActive    PathStatus = "active"
	StatusOnHold    PathStatus = "on_hold"
	StatusCompleted PathStatus = "completed"
	StatusArchived  PathStatus = "archived"
)

// IsValid returns true if the status is a known path status.
func (s PathStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Terminal returns true if no transitions leave this status.
func (s PathStatus) Terminal() bool {
	return s == StatusArchived
}

// ItemStatus is the work state of an ActionItem.
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemDone       ItemStatus = "done"
	ItemBlocked    ItemStatus = "blocked"
)

// IsValid returns true if the status is a known item status.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemPending, ItemInProgress, ItemDone, ItemBlocked:
		return true
	}
	return false
}

// Priority levels for issues and paths.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid returns true if the priority is a known level.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Rank returns the numeric weight of a priority for ordering.
// Higher is more urgent. Unknown priorities rank below low so they
// sort last rather than poisoning the sort.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Issue is a problem statement extracted from customer feedback.
// Issues are created by upstream feedback processing and are read-only
// inputs here.
type Issue struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	SourceChannel      string    `json:"source_channel,omitempty"` // e.g. Google Reviews, Instagram, Email
	FeedbackCount      int       `json:"feedback_count,omitempty"`
	Category           string    `json:"category,omitempty"`
	Priority           Priority  `json:"priority,omitempty"`
	EmotionalIntensity int       `json:"emotional_intensity,omitempty"` // 1-10
	OrganizationID     string    `json:"organization_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RootCause is a reason why an issue is happening. May be AI-generated
// upstream or entered by a human.
type RootCause struct {
	ID              string    `json:"id"`
	IssueID         string    `json:"issue_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	IsAIGenerated   bool      `json:"is_ai_generated,omitempty"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	CauseCategory   string    `json:"cause_category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Initiative is a proposed solution for a root cause.
type Initiative struct {
	ID              string    `json:"id"`
	RootCauseID     string    `json:"root_cause_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	InitiativeType  string    `json:"initiative_type,omitempty"`
	EstimatedEffort string    `json:"estimated_effort,omitempty"`
	EstimatedImpact string    `json:"estimated_impact,omitempty"`
	IsAIGenerated   bool      `json:"is_ai_generated,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Path is the complete improvement journey for one initiative.
// The issue/root-cause/initiative chain is optional (a path may exist
// before it is linked to feedback) but immutable once set.
type Path struct {
	ID           string `json:"id"`
	IssueID      string `json:"issue_id,omitempty"`
	RootCauseID  string `json:"root_cause_id,omitempty"`
	InitiativeID string `json:"initiative_id,omitempty"`

	Title         string     `json:"title"`
	GoalStatement string     `json:"goal_statement,omitempty"`
	Status        PathStatus `json:"status"`
	Priority      Priority   `json:"priority"`

	// Progress is derived by the rollup engine; never set it directly.
	Progress int `json:"progress_percentage"`

	OnHoldReason        string `json:"on_hold_reason,omitempty"`
	CompletionLearnings string `json:"completion_learnings,omitempty"`
	Notes               string `json:"notes,omitempty"`

	// Metric snapshots, stored as JSON text. BaselineMetric captures
	// the measurement the path set out to move; CurrentMetric is the
	// latest reading.
	BaselineMetric string `json:"baseline_metric,omitempty"`
	CurrentMetric  string `json:"current_metric,omitempty"`

	OrganizationID string `json:"organization_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`

	StartedAt            *time.Time `json:"started_at,omitempty"`
	PausedAt             *time.Time `json:"paused_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	TargetCompletionDate *time.Time `json:"target_completion_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Phases in display order. Populated on subtree loads; may be nil
	// on list results.
	Phases []*Phase `json:"phases,omitempty"`
}

// Phase is a major stage in the implementation plan.
type Phase struct {
	ID          string    `json:"id"`
	PathID      string    `json:"path_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	Progress    int       `json:"progress_percentage"` // derived
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Steps []*Step `json:"steps,omitempty"`
}

// Step is a specific activity within a phase.
type Step struct {
	ID          string    `json:"id"`
	PhaseID     string    `json:"phase_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	Progress    int       `json:"progress_percentage"` // derived
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []*ActionItem `json:"action_items,omitempty"`
}

// ActionItem is an individual task to complete a step. The assignee
// name is a snapshot taken at assignment time; it does not follow
// later renames of the underlying person (audit stability).
type ActionItem struct {
	ID           string     `json:"id"`
	StepID       string     `json:"step_id"`
	Title        string     `json:"title"`
	Status       ItemStatus `json:"status"`
	Order        int        `json:"order"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AssigneeID   string     `json:"assignee_id,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PathComment is a team collaboration note on a path.
type PathComment struct {
	ID        int64     `json:"id"`
	PathID    string    `json:"path_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PathFilter selects paths for list and stats operations. Zero values
// mean "no restriction on that dimension". All supplied filters combine
// with AND; Search applies after the exact-match filters.
type PathFilter struct {
	Status         string `json:"status,omitempty"`
	Priority       string `json:"priority,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`

	// Inclusive date-range bounds on created_at.
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`

	// Inclusive bounds on target_completion_date.
	TargetAfter  *time.Time `json:"target_after,omitempty"`
	TargetBefore *time.Time `json:"target_before,omitempty"`

	// Inclusive bounds on progress_percentage.
	MinProgress *int `json:"min_progress,omitempty"`
	MaxProgress *int `json:"max_progress,omitempty"`

	// Case-insensitive substring match across title, goal_statement
	// and notes.
	Search string `json:"search,omitempty"`

	// OrderBy is one of created_at, updated_at, priority,
	// progress_percentage, with an optional leading "-" for
	// descending. Empty means the collection's natural order.
	OrderBy string `json:"order_by,omitempty"`

	Limit int `json:"limit,omitempty"`
}

// Statistics summarizes a path collection for the library dashboard.
type Statistics struct {
	TotalPaths      int                `json:"total_paths"`
	ByStatus        map[PathStatus]int `json:"by_status"`
	AverageProgress float64            `json:"average_progress"` // active paths only
}

// TotalItems counts action items across the whole subtree.
func (p *Path) TotalItems() int {
	n := 0
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			n += len(st.Items)
		}
	}
	return n
}

// DoneItems counts completed action items across the whole subtree.
func (p *Path) DoneItems() int {
	n := 0
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.Status == ItemDone {
					n++
				}
			}
		}
	}
	return n
}

// FindItem returns the item with the given id plus its owning step and
// phase, or nils if the id is not in the subtree.
func (p *Path) FindItem(itemID string) (*Phase, *Step, *ActionItem) {
	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.ID == itemID {
					return ph, st, it
				}
			}
		}
	}
	return nil, nil, nil
}

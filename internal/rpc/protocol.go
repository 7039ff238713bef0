// Package rpc implements the Unix-socket protocol between the pl CLI
// and the pathlib daemon. Requests and responses are single-line JSON.
package rpc

import (
	"encoding/json"
	"time"

	"github.com/jotpotato/pathlib/internal/types"
)

// Operation constants for all daemon commands.
const (
	OpPing     = "ping"
	OpStatus   = "status"
	OpShutdown = "shutdown"

	OpPathCreate = "path_create"
	OpPathShow   = "path_show"
	OpPathList   = "path_list"
	OpPathUpdate = "path_update"
	OpPathDelete = "path_delete"
	OpPathStatus = "path_status"

	OpPhaseAdd   = "phase_add"
	OpStepAdd    = "step_add"
	OpItemAdd    = "item_add"
	OpItemStatus = "item_status"
	OpItemAssign = "item_assign"
	OpItemDue    = "item_due"
	OpItemRemove = "item_remove"

	OpCommentAdd  = "comment_add"
	OpCommentList = "comment_list"

	OpStats = "stats"
	OpAsk   = "ask"
)

// Request represents an RPC request from client to daemon.
type Request struct {
	Operation     string          `json:"operation"`
	Args          json.RawMessage `json:"args"`
	Actor         string          `json:"actor,omitempty"`
	RequestID     string          `json:"request_id,omitempty"`
	ClientVersion string          `json:"client_version,omitempty"` // for compatibility checks
	ExpectedDB    string          `json:"expected_db,omitempty"`    // absolute db path for binding validation
}

// Response represents an RPC response from daemon to client.
// ErrorCategory/ErrorField carry the typed error taxonomy across the
// wire so clients can rebuild a *types.Error instead of string-matching.
type Response struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
	ErrorCategory string          `json:"error_category,omitempty"`
	ErrorField    string          `json:"error_field,omitempty"`
}

// PathCreateArgs represents arguments for the path_create operation.
type PathCreateArgs struct {
	Title         string `json:"title"`
	GoalStatement string `json:"goal_statement,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Notes         string `json:"notes,omitempty"`

	IssueID      string `json:"issue_id,omitempty"`
	RootCauseID  string `json:"root_cause_id,omitempty"`
	InitiativeID string `json:"initiative_id,omitempty"`

	OrganizationID string `json:"organization_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`

	TargetCompletionDate *time.Time `json:"target_completion_date,omitempty"`

	Activate bool `json:"activate,omitempty"`
}

// ShowArgs represents arguments for the path_show operation.
type ShowArgs struct {
	ID string `json:"id"`
}

// ListArgs represents arguments for the path_list operation. The
// filter semantics are those of the query engine: conjunctive
// predicates, substring search, signed ordering key.
type ListArgs struct {
	Filter types.PathFilter `json:"filter"`
}

// UpdateArgs represents arguments for the path_update operation.
// Nil fields are left untouched.
type UpdateArgs struct {
	ID                   string     `json:"id"`
	Title                *string    `json:"title,omitempty"`
	GoalStatement        *string    `json:"goal_statement,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	Priority             *string    `json:"priority,omitempty"`
	OwnerID              *string    `json:"owner_id,omitempty"`
	BaselineMetric       *string    `json:"baseline_metric,omitempty"`
	CurrentMetric        *string    `json:"current_metric,omitempty"`
	TargetCompletionDate *time.Time `json:"target_completion_date,omitempty"`
	ClearTarget          bool       `json:"clear_target,omitempty"`
}

// DeleteArgs represents arguments for the path_delete operation.
type DeleteArgs struct {
	ID string `json:"id"`
}

// StatusArgs represents arguments for the path_status operation.
type StatusArgs struct {
	ID                  string `json:"id"`
	NewStatus           string `json:"new_status"`
	OnHoldReason        string `json:"on_hold_reason,omitempty"`
	CompletionLearnings string `json:"completion_learnings,omitempty"`
}

// PhaseAddArgs represents arguments for the phase_add operation.
type PhaseAddArgs struct {
	PathID      string `json:"path_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StepAddArgs represents arguments for the step_add operation.
type StepAddArgs struct {
	PathID      string `json:"path_id"`
	PhaseID     string `json:"phase_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ItemAddArgs represents arguments for the item_add operation.
type ItemAddArgs struct {
	PathID       string     `json:"path_id"`
	StepID       string     `json:"step_id"`
	Title        string     `json:"title"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AssigneeID   string     `json:"assignee_id,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// ItemStatusArgs represents arguments for the item_status operation.
type ItemStatusArgs struct {
	PathID string `json:"path_id"`
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

// ItemAssignArgs represents arguments for the item_assign operation.
type ItemAssignArgs struct {
	PathID       string `json:"path_id"`
	ItemID       string `json:"item_id"`
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
}

// ItemDueArgs represents arguments for the item_due operation. A nil
// DueDate clears the due date.
type ItemDueArgs struct {
	PathID  string     `json:"path_id"`
	ItemID  string     `json:"item_id"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// ItemRemoveArgs represents arguments for the item_remove operation.
type ItemRemoveArgs struct {
	PathID string `json:"path_id"`
	ItemID string `json:"item_id"`
}

// CommentAddArgs represents arguments for the comment_add operation.
type CommentAddArgs struct {
	PathID  string `json:"path_id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// CommentListArgs represents arguments for the comment_list operation.
type CommentListArgs struct {
	PathID string `json:"path_id"`
}

// StatsArgs represents arguments for the stats operation.
type StatsArgs struct {
	Filter types.PathFilter `json:"filter"`
}

// AskArgs represents arguments for the ask operation.
type AskArgs struct {
	PathID string `json:"path_id"`
	Query  string `json:"query"`
}

// PingResponse is the response for a ping operation.
type PingResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// StatusResponse represents the daemon status metadata.
type StatusResponse struct {
	Version       string  `json:"version"`
	DatabasePath  string  `json:"database_path"`
	SocketPath    string  `json:"socket_path"`
	PID           int     `json:"pid"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ActiveConns   int32   `json:"active_connections"`
	MaxConns      int     `json:"max_connections"`
}

// Package workflow enforces the path status state machine.
//
// States: draft, active, on_hold, completed, archived. Archived is
// terminal. Transitions outside the table fail with an
// invalid_transition error before any field is touched; transitions
// with missing required fields fail with a validation error the same
// way. A path is never stored with a status inconsistent with its
// required fields.
package workflow

import (
	"strings"
	"time"

	"github.com/jotpotato/pathlib/internal/types"
)

// transitions is the allowed-edge table. Keys are source states,
// values the set of reachable states.
var transitions = map[types.PathStatus][]types.PathStatus{
	types.StatusDraft:     {types.StatusActive, types.StatusArchived},
	types.StatusActive:    {types.StatusOnHold, types.StatusCompleted, types.StatusArchived},
	types.StatusOnHold:    {types.StatusActive, types.StatusArchived},
	types.StatusCompleted: {types.StatusArchived},
	types.StatusArchived:  {}, // terminal
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to types.PathStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedFrom returns the states reachable from the given state, for
// error messages and CLI help.
func AllowedFrom(from types.PathStatus) []types.PathStatus {
	return transitions[from]
}

// Request carries a status change plus the data some transitions
// require. OnHoldReason is required when entering on_hold;
// CompletionLearnings is required when entering completed.
type Request struct {
	NewStatus           types.PathStatus
	OnHoldReason        string
	CompletionLearnings string
}

// Transition validates the request against the current path state and,
// if valid, applies the status change plus its timestamp side effects.
// Validation is complete before the first mutation: a rejected request
// leaves the path untouched.
//
// Completion is a manual declaration and is not gated on the rollup
// reaching 100; partial completion is a legitimate business outcome.
func Transition(path *types.Path, req Request, now time.Time) error {
	if !req.NewStatus.IsValid() {
		return types.NewValidationError("status", "unknown status "+string(req.NewStatus))
	}
	if !CanTransition(path.Status, req.NewStatus) {
		return types.NewInvalidTransition(path.Status, req.NewStatus)
	}

	switch req.NewStatus {
	case types.StatusOnHold:
		if strings.TrimSpace(req.OnHoldReason) == "" {
			return types.NewValidationError("on_hold_reason", "required when putting a path on hold")
		}
	case types.StatusCompleted:
		if strings.TrimSpace(req.CompletionLearnings) == "" {
			return types.NewValidationError("completion_learnings", "required when completing a path")
		}
	}

	// Validation done; apply.
	old := path.Status
	path.Status = req.NewStatus

	switch req.NewStatus {
	case types.StatusActive:
		if path.StartedAt == nil {
			t := now
			path.StartedAt = &t
		}
		if old == types.StatusOnHold {
			path.OnHoldReason = ""
			path.PausedAt = nil
		}
	case types.StatusOnHold:
		path.OnHoldReason = strings.TrimSpace(req.OnHoldReason)
		t := now
		path.PausedAt = &t
	case types.StatusCompleted:
		path.CompletionLearnings = strings.TrimSpace(req.CompletionLearnings)
		t := now
		path.CompletedAt = &t
	}

	path.UpdatedAt = now
	return nil
}

// CheckMutable rejects plan mutations (phases, steps, action items) on
// archived paths. All mutable plan fields freeze when a path enters
// archived.
func CheckMutable(path *types.Path) error {
	if path.Status == types.StatusArchived {
		return types.NewArchivedPathImmutable(path.ID)
	}
	return nil
}

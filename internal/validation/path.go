// Package validation provides composable guards for path mutations.
package validation

import (
	"strings"

	"github.com/jotpotato/pathlib/internal/types"
)

// PathValidator validates a path and returns an error if validation
// fails. Validators compose with Chain() for multi-step checks.
type PathValidator func(id string, path *types.Path) error

// Chain composes multiple validators into a single validator.
// Validators run in order and the first error stops the chain.
func Chain(validators ...PathValidator) PathValidator {
	return func(id string, path *types.Path) error {
		for _, v := range validators {
			if err := v(id, path); err != nil {
				return err
			}
		}
		return nil
	}
}

// Exists validates that a path was found.
func Exists() PathValidator {
	return func(id string, path *types.Path) error {
		if path == nil {
			return types.NewNotFound("path", id)
		}
		return nil
	}
}

// NotArchived validates that a path is still mutable. Archived paths
// are terminal; their whole plan subtree is frozen.
func NotArchived() PathValidator {
	return func(id string, path *types.Path) error {
		if path == nil {
			return nil // let Exists() handle the nil check
		}
		if path.Status == types.StatusArchived {
			return types.NewArchivedPathImmutable(id)
		}
		return nil
	}
}

// HasStatus validates that a path is in one of the allowed statuses.
func HasStatus(allowed ...types.PathStatus) PathValidator {
	return func(id string, path *types.Path) error {
		if path == nil {
			return nil
		}
		for _, s := range allowed {
			if path.Status == s {
				return nil
			}
		}
		return types.NewValidationError("status",
			"path "+id+" has status "+string(path.Status)+", expected one of: "+joinStatuses(allowed))
	}
}

// HasTitle validates that a path carries a non-empty title.
func HasTitle() PathValidator {
	return func(id string, path *types.Path) error {
		if path == nil {
			return nil
		}
		if strings.TrimSpace(path.Title) == "" {
			return types.NewValidationError("title", "title must not be empty")
		}
		return nil
	}
}

// StatusFieldsConsistent validates the status/required-field pairing:
// on_hold_reason non-empty iff on_hold, completion_learnings non-empty
// iff completed. Archived paths keep whatever history they froze with.
// The workflow engine maintains this; storage re-checks it on save so a
// corrupted caller cannot persist an inconsistent path.
func StatusFieldsConsistent() PathValidator {
	return func(id string, path *types.Path) error {
		if path == nil {
			return nil
		}
		onHold := path.Status == types.StatusOnHold
		hasReason := strings.TrimSpace(path.OnHoldReason) != ""
		if onHold && !hasReason {
			return types.NewValidationError("on_hold_reason", "required while path is on hold")
		}
		if !onHold && hasReason && path.Status != types.StatusArchived {
			return types.NewValidationError("on_hold_reason", "only valid while path is on hold")
		}
		completed := path.Status == types.StatusCompleted
		if completed && strings.TrimSpace(path.CompletionLearnings) == "" {
			return types.NewValidationError("completion_learnings", "required while path is completed")
		}
		if !completed && path.Status != types.StatusArchived && strings.TrimSpace(path.CompletionLearnings) != "" {
			return types.NewValidationError("completion_learnings", "only valid once path is completed")
		}
		return nil
	}
}

// ForPlanMutation returns the validator chain for phase/step/item
// mutations: the path must exist and not be archived.
func ForPlanMutation() PathValidator {
	return Chain(
		Exists(),
		NotArchived(),
	)
}

// ForSave returns the validator chain run before persisting a path.
func ForSave() PathValidator {
	return Chain(
		Exists(),
		HasTitle(),
		StatusFieldsConsistent(),
	)
}

func joinStatuses(ss []types.PathStatus) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

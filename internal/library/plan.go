package library

import (
	"context"
	"strings"
	"time"

	"github.com/jotpotato/pathlib/internal/idgen"
	"github.com/jotpotato/pathlib/internal/progress"
	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/validation"
)

// mutatePlan loads the path, runs the plan-mutation guards, applies fn,
// recomputes the rollup and persists the whole subtree in one
// transaction. Every plan edit goes through here so the derived
// percentages can never be observed stale.
func (l *Library) mutatePlan(ctx context.Context, pathID string, fn func(p *types.Path, now time.Time) error) (*types.Path, error) {
	var updated *types.Path
	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		p, err := tx.GetPath(ctx, pathID)
		if err != nil {
			return err
		}
		if err := validation.ForPlanMutation()(pathID, p); err != nil {
			return err
		}
		now := l.clock().UTC()
		if err := fn(p, now); err != nil {
			return err
		}
		progress.Recompute(p)
		p.UpdatedAt = now
		if err := tx.SaveSubtree(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddPhase appends a phase at the end of the plan.
func (l *Library) AddPhase(ctx context.Context, pathID, name, description string) (*types.Path, error) {
	if strings.TrimSpace(name) == "" {
		return nil, types.NewValidationError("name", "phase name must not be empty")
	}
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		p.Phases = append(p.Phases, &types.Phase{
			ID:          idgen.New(idgen.PrefixPhase, name, now),
			PathID:      p.ID,
			Name:        strings.TrimSpace(name),
			Description: description,
			Order:       len(p.Phases) + 1,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return nil
	})
}

// AddStep appends a step to a phase.
func (l *Library) AddStep(ctx context.Context, pathID, phaseID, name, description string) (*types.Path, error) {
	if strings.TrimSpace(name) == "" {
		return nil, types.NewValidationError("name", "step name must not be empty")
	}
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		for _, ph := range p.Phases {
			if ph.ID != phaseID {
				continue
			}
			ph.Steps = append(ph.Steps, &types.Step{
				ID:          idgen.New(idgen.PrefixStep, name, now),
				PhaseID:     ph.ID,
				Name:        strings.TrimSpace(name),
				Description: description,
				Order:       len(ph.Steps) + 1,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			ph.UpdatedAt = now
			return nil
		}
		return types.NewNotFound("phase", phaseID)
	})
}

// AddItemRequest carries the fields for a new action item.
type AddItemRequest struct {
	Title        string
	DueDate      *time.Time
	AssigneeID   string
	AssigneeName string
	Notes        string
}

// AddItem appends an action item to a step, in pending status. The
// assignee name is snapshotted as given.
func (l *Library) AddItem(ctx context.Context, pathID, stepID string, req AddItemRequest) (*types.Path, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, types.NewValidationError("title", "action item title must not be empty")
	}
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		for _, ph := range p.Phases {
			for _, st := range ph.Steps {
				if st.ID != stepID {
					continue
				}
				st.Items = append(st.Items, &types.ActionItem{
					ID:           idgen.New(idgen.PrefixItem, req.Title, now),
					StepID:       st.ID,
					Title:        strings.TrimSpace(req.Title),
					Status:       types.ItemPending,
					Order:        len(st.Items) + 1,
					DueDate:      req.DueDate,
					AssigneeID:   req.AssigneeID,
					AssigneeName: req.AssigneeName,
					Notes:        req.Notes,
					CreatedAt:    now,
					UpdatedAt:    now,
				})
				st.UpdatedAt = now
				return nil
			}
		}
		return types.NewNotFound("step", stepID)
	})
}

// UpdateItemStatus changes one action item's work status and rolls the
// percentages up the chain in the same transaction. Moving to done
// stamps completed_at; moving away clears it.
func (l *Library) UpdateItemStatus(ctx context.Context, pathID, itemID string, newStatus types.ItemStatus) (*types.Path, error) {
	if !newStatus.IsValid() {
		return nil, types.NewValidationError("status", "unknown item status "+string(newStatus))
	}
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		_, st, it := p.FindItem(itemID)
		if it == nil {
			return types.NewNotFound("action item", itemID)
		}
		if it.Status == newStatus {
			return nil
		}
		it.Status = newStatus
		if newStatus == types.ItemDone {
			t := now
			it.CompletedAt = &t
		} else {
			it.CompletedAt = nil
		}
		it.UpdatedAt = now
		st.UpdatedAt = now
		return nil
	})
}

// AssignItem sets (or clears, with empty ids) an action item's
// assignee snapshot.
func (l *Library) AssignItem(ctx context.Context, pathID, itemID, assigneeID, assigneeName string) (*types.Path, error) {
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		_, _, it := p.FindItem(itemID)
		if it == nil {
			return types.NewNotFound("action item", itemID)
		}
		it.AssigneeID = assigneeID
		it.AssigneeName = assigneeName
		it.UpdatedAt = now
		return nil
	})
}

// SetItemDueDate sets or clears an action item's due date.
func (l *Library) SetItemDueDate(ctx context.Context, pathID, itemID string, due *time.Time) (*types.Path, error) {
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		_, _, it := p.FindItem(itemID)
		if it == nil {
			return types.NewNotFound("action item", itemID)
		}
		it.DueDate = due
		it.UpdatedAt = now
		return nil
	})
}

// RemoveItem deletes an action item and recomputes the rollup.
func (l *Library) RemoveItem(ctx context.Context, pathID, itemID string) (*types.Path, error) {
	return l.mutatePlan(ctx, pathID, func(p *types.Path, now time.Time) error {
		for _, ph := range p.Phases {
			for _, st := range ph.Steps {
				for i, it := range st.Items {
					if it.ID == itemID {
						st.Items = append(st.Items[:i], st.Items[i+1:]...)
						st.UpdatedAt = now
						return nil
					}
				}
			}
		}
		return types.NewNotFound("action item", itemID)
	})
}

// Package library is the orchestration core: it ties storage, the
// progress rollup, the status workflow and the assistant together
// behind one API that the CLI and the RPC server both call.
package library

import (
	"context"
	"strings"
	"time"

	"github.com/jotpotato/pathlib/internal/assistant"
	"github.com/jotpotato/pathlib/internal/idgen"
	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/validation"
	"github.com/jotpotato/pathlib/internal/workflow"
)

// Library exposes the path operations. All mutations of a path's plan
// run inside a storage transaction so the rollup is atomic with the
// leaf change.
type Library struct {
	store      storage.Storage
	clock      func() time.Time
	classifier *assistant.Classifier
}

// Option configures a Library.
type Option func(*Library)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.clock = now }
}

// WithClassifier replaces the default assistant classifier, e.g. one
// carrying keyword overrides from config.
func WithClassifier(c *assistant.Classifier) Option {
	return func(l *Library) { l.classifier = c }
}

// New returns a Library over the given store.
func New(store storage.Storage, opts ...Option) *Library {
	l := &Library{
		store:      store,
		clock:      time.Now,
		classifier: assistant.New(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CreatePathRequest carries the fields for a new path. Title is
// required; everything else is optional.
type CreatePathRequest struct {
	Title         string
	GoalStatement string
	Priority      types.Priority
	Notes         string

	IssueID      string
	RootCauseID  string
	InitiativeID string

	OrganizationID string
	OwnerID        string

	TargetCompletionDate *time.Time

	// Activate skips draft and creates the path directly in active,
	// stamping started_at.
	Activate bool
}

// CreatePath validates and persists a new path in draft (or active).
func (l *Library) CreatePath(ctx context.Context, req CreatePathRequest) (*types.Path, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, types.NewValidationError("title", "title must not be empty")
	}
	prio := req.Priority
	if prio == "" {
		prio = types.PriorityMedium
	}
	if !prio.IsValid() {
		return nil, types.NewValidationError("priority", "unknown priority "+string(prio))
	}

	now := l.clock().UTC()
	p := &types.Path{
		ID:                   idgen.New(idgen.PrefixPath, req.Title, now),
		IssueID:              req.IssueID,
		RootCauseID:          req.RootCauseID,
		InitiativeID:         req.InitiativeID,
		Title:                strings.TrimSpace(req.Title),
		GoalStatement:        req.GoalStatement,
		Status:               types.StatusDraft,
		Priority:             prio,
		Notes:                req.Notes,
		OrganizationID:       req.OrganizationID,
		OwnerID:              req.OwnerID,
		TargetCompletionDate: req.TargetCompletionDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if req.Activate {
		p.Status = types.StatusActive
		p.StartedAt = &now
	}

	if err := l.store.CreatePath(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPath loads a path with its full subtree.
func (l *Library) GetPath(ctx context.Context, id string) (*types.Path, error) {
	return l.store.GetPath(ctx, id)
}

// ListPaths applies the filter and returns matching paths.
func (l *Library) ListPaths(ctx context.Context, filter types.PathFilter) ([]*types.Path, error) {
	return l.store.ListPaths(ctx, filter)
}

// DeletePath removes a path and its subtree.
func (l *Library) DeletePath(ctx context.Context, id string) error {
	return l.store.DeletePath(ctx, id)
}

// Statistics summarizes the filtered collection.
func (l *Library) Statistics(ctx context.Context, filter types.PathFilter) (*types.Statistics, error) {
	return l.store.GetStatistics(ctx, filter)
}

// UpdateDetailsRequest carries optional scalar updates. Nil fields are
// left untouched.
type UpdateDetailsRequest struct {
	Title                *string
	GoalStatement        *string
	Notes                *string
	Priority             *types.Priority
	OwnerID              *string
	BaselineMetric       *string
	CurrentMetric        *string
	TargetCompletionDate *time.Time
	ClearTarget          bool
}

// UpdateDetails edits a path's descriptive fields. Archived paths
// reject all edits.
func (l *Library) UpdateDetails(ctx context.Context, pathID string, req UpdateDetailsRequest) (*types.Path, error) {
	var updated *types.Path
	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		p, err := tx.GetPath(ctx, pathID)
		if err != nil {
			return err
		}
		if err := workflow.CheckMutable(p); err != nil {
			return err
		}
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				return types.NewValidationError("title", "title must not be empty")
			}
			p.Title = strings.TrimSpace(*req.Title)
		}
		if req.GoalStatement != nil {
			p.GoalStatement = *req.GoalStatement
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
		if req.Priority != nil {
			if !req.Priority.IsValid() {
				return types.NewValidationError("priority", "unknown priority "+string(*req.Priority))
			}
			p.Priority = *req.Priority
		}
		if req.OwnerID != nil {
			p.OwnerID = *req.OwnerID
		}
		if req.BaselineMetric != nil {
			p.BaselineMetric = *req.BaselineMetric
		}
		if req.CurrentMetric != nil {
			p.CurrentMetric = *req.CurrentMetric
		}
		if req.ClearTarget {
			p.TargetCompletionDate = nil
		} else if req.TargetCompletionDate != nil {
			p.TargetCompletionDate = req.TargetCompletionDate
		}
		p.UpdatedAt = l.clock().UTC()
		if err := validation.ForSave()(pathID, p); err != nil {
			return err
		}
		if err := tx.SavePath(ctx, p); err != nil {
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

// TransitionStatus runs the workflow engine on a path and persists the
// result. Errors leave the stored path untouched.
func (l *Library) TransitionStatus(ctx context.Context, pathID string, req workflow.Request) (*types.Path, error) {
	var updated *types.Path
	err := l.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		p, err := tx.GetPath(ctx, pathID)
		if err != nil {
			return err
		}
		if err := workflow.Transition(p, req, l.clock().UTC()); err != nil {
			return err
		}
		if err := tx.SavePath(ctx, p); err != nil {
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

// AddComment attaches a collaboration note to a path.
func (l *Library) AddComment(ctx context.Context, pathID, authorID, content string) (*types.PathComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.NewValidationError("content", "comment must not be empty")
	}
	return l.store.AddComment(ctx, pathID, authorID, content)
}

// GetComments returns a path's comments oldest first.
func (l *Library) GetComments(ctx context.Context, pathID string) ([]*types.PathComment, error) {
	return l.store.GetComments(ctx, pathID)
}

// Ask answers a free-text question about a path.
func (l *Library) Ask(ctx context.Context, pathID, query string) (*assistant.Answer, error) {
	p, err := l.store.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	ans := l.classifier.Ask(query, p)
	return &ans, nil
}

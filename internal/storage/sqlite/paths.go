package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jotpotato/pathlib/internal/query"
	"github.com/jotpotato/pathlib/internal/types"
)

// isUniqueConstraintError checks whether err is a UNIQUE constraint
// violation, for translating duplicate inserts into validation errors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// --- feedback chain ---

func (s *Storage) CreateIssue(ctx context.Context, issue *types.Issue) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO issues (
				id, title, description, source_channel, feedback_count,
				category, priority, emotional_intensity, organization_id,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			issue.ID, issue.Title, issue.Description, issue.SourceChannel,
			issue.FeedbackCount, issue.Category, string(issue.Priority),
			issue.EmotionalIntensity, issue.OrganizationID,
			issue.CreatedAt, issue.UpdatedAt,
		)
		if isUniqueConstraintError(err) {
			return types.NewValidationError("id", "issue "+issue.ID+" already exists")
		}
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	var issue types.Issue
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, source_channel, feedback_count,
		       category, priority, emotional_intensity, organization_id,
		       created_at, updated_at
		FROM issues WHERE id = ?
	`, id).Scan(
		&issue.ID, &issue.Title, &issue.Description, &issue.SourceChannel,
		&issue.FeedbackCount, &issue.Category, &issue.Priority,
		&issue.EmotionalIntensity, &issue.OrganizationID,
		&issue.CreatedAt, &issue.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, types.NewNotFound("issue", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return &issue, nil
}

func (s *Storage) CreateRootCause(ctx context.Context, rc *types.RootCause) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		aiGen := 0
		if rc.IsAIGenerated {
			aiGen = 1
		}
		_, err := conn.ExecContext(ctx, `
			INSERT INTO root_causes (
				id, issue_id, title, description, is_ai_generated,
				confidence_score, cause_category, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rc.ID, rc.IssueID, rc.Title, rc.Description, aiGen,
			rc.ConfidenceScore, rc.CauseCategory, rc.CreatedAt, rc.UpdatedAt,
		)
		if isUniqueConstraintError(err) {
			return types.NewValidationError("id", "root cause "+rc.ID+" already exists")
		}
		if err != nil {
			return fmt.Errorf("failed to insert root cause: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetRootCause(ctx context.Context, id string) (*types.RootCause, error) {
	var rc types.RootCause
	var aiGen int
	var conf sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, issue_id, title, description, is_ai_generated,
		       confidence_score, cause_category, created_at, updated_at
		FROM root_causes WHERE id = ?
	`, id).Scan(
		&rc.ID, &rc.IssueID, &rc.Title, &rc.Description, &aiGen,
		&conf, &rc.CauseCategory, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, types.NewNotFound("root cause", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get root cause: %w", err)
	}
	rc.IsAIGenerated = aiGen != 0
	if conf.Valid {
		v := conf.Float64
		rc.ConfidenceScore = &v
	}
	return &rc, nil
}

func (s *Storage) CreateInitiative(ctx context.Context, in *types.Initiative) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		aiGen := 0
		if in.IsAIGenerated {
			aiGen = 1
		}
		_, err := conn.ExecContext(ctx, `
			INSERT INTO initiatives (
				id, root_cause_id, title, description, initiative_type,
				estimated_effort, estimated_impact, is_ai_generated,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			in.ID, in.RootCauseID, in.Title, in.Description, in.InitiativeType,
			in.EstimatedEffort, in.EstimatedImpact, aiGen,
			in.CreatedAt, in.UpdatedAt,
		)
		if isUniqueConstraintError(err) {
			return types.NewValidationError("id", "initiative "+in.ID+" already exists")
		}
		if err != nil {
			return fmt.Errorf("failed to insert initiative: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetInitiative(ctx context.Context, id string) (*types.Initiative, error) {
	var in types.Initiative
	var aiGen int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, root_cause_id, title, description, initiative_type,
		       estimated_effort, estimated_impact, is_ai_generated,
		       created_at, updated_at
		FROM initiatives WHERE id = ?
	`, id).Scan(
		&in.ID, &in.RootCauseID, &in.Title, &in.Description, &in.InitiativeType,
		&in.EstimatedEffort, &in.EstimatedImpact, &aiGen,
		&in.CreatedAt, &in.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, types.NewNotFound("initiative", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get initiative: %w", err)
	}
	in.IsAIGenerated = aiGen != 0
	return &in, nil
}

// --- paths ---

const pathColumns = `id, issue_id, root_cause_id, initiative_id, title, goal_statement,
	status, priority, progress_percentage, on_hold_reason, completion_learnings,
	notes, baseline_metric, current_metric, organization_id, owner_id,
	started_at, paused_at, completed_at, target_completion_date, created_at,
	updated_at`

func scanPath(row interface{ Scan(...any) error }) (*types.Path, error) {
	var p types.Path
	var started, paused, completed, target sql.NullTime
	err := row.Scan(
		&p.ID, &p.IssueID, &p.RootCauseID, &p.InitiativeID, &p.Title,
		&p.GoalStatement, &p.Status, &p.Priority, &p.Progress,
		&p.OnHoldReason, &p.CompletionLearnings, &p.Notes,
		&p.BaselineMetric, &p.CurrentMetric,
		&p.OrganizationID, &p.OwnerID, &started, &paused, &completed,
		&target, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.StartedAt = timePtr(started)
	p.PausedAt = timePtr(paused)
	p.CompletedAt = timePtr(completed)
	p.TargetCompletionDate = timePtr(target)
	return &p, nil
}

func insertPath(ctx context.Context, conn *sql.Conn, p *types.Path) error {
	_, err := conn.ExecContext(ctx, `
		INSERT INTO paths (`+pathColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.IssueID, p.RootCauseID, p.InitiativeID, p.Title,
		p.GoalStatement, string(p.Status), string(p.Priority), p.Progress,
		p.OnHoldReason, p.CompletionLearnings, p.Notes,
		p.BaselineMetric, p.CurrentMetric,
		p.OrganizationID, p.OwnerID,
		nullTime(p.StartedAt), nullTime(p.PausedAt), nullTime(p.CompletedAt),
		nullTime(p.TargetCompletionDate), p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueConstraintError(err) {
		return types.NewValidationError("id", "path "+p.ID+" already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert path: %w", err)
	}
	return nil
}

func getPath(ctx context.Context, conn *sql.Conn, id string) (*types.Path, error) {
	row := conn.QueryRowContext(ctx, `SELECT `+pathColumns+` FROM paths WHERE id = ?`, id)
	p, err := scanPath(row)
	if err == sql.ErrNoRows {
		return nil, types.NewNotFound("path", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get path: %w", err)
	}
	if err := loadSubtree(ctx, conn, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadSubtree populates phases, steps and action items in display
// order. Three queries, grouped in memory; no N+1 per phase.
func loadSubtree(ctx context.Context, conn *sql.Conn, p *types.Path) error {
	rows, err := conn.QueryContext(ctx, `
		SELECT id, path_id, name, description, display_order,
		       progress_percentage, created_at, updated_at
		FROM phases WHERE path_id = ? ORDER BY display_order, id
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load phases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	phaseByID := make(map[string]*types.Phase)
	for rows.Next() {
		var ph types.Phase
		if err := rows.Scan(&ph.ID, &ph.PathID, &ph.Name, &ph.Description,
			&ph.Order, &ph.Progress, &ph.CreatedAt, &ph.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan phase: %w", err)
		}
		p.Phases = append(p.Phases, &ph)
		phaseByID[ph.ID] = &ph
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate phases: %w", err)
	}
	if len(p.Phases) == 0 {
		return nil
	}

	stepRows, err := conn.QueryContext(ctx, `
		SELECT s.id, s.phase_id, s.name, s.description, s.display_order,
		       s.progress_percentage, s.created_at, s.updated_at
		FROM steps s JOIN phases ph ON s.phase_id = ph.id
		WHERE ph.path_id = ? ORDER BY s.display_order, s.id
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}
	defer func() { _ = stepRows.Close() }()

	stepByID := make(map[string]*types.Step)
	for stepRows.Next() {
		var st types.Step
		if err := stepRows.Scan(&st.ID, &st.PhaseID, &st.Name, &st.Description,
			&st.Order, &st.Progress, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan step: %w", err)
		}
		if ph, ok := phaseByID[st.PhaseID]; ok {
			ph.Steps = append(ph.Steps, &st)
			stepByID[st.ID] = &st
		}
	}
	if err := stepRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate steps: %w", err)
	}
	if len(stepByID) == 0 {
		return nil
	}

	itemRows, err := conn.QueryContext(ctx, `
		SELECT a.id, a.step_id, a.title, a.status, a.display_order,
		       a.due_date, a.assignee_id, a.assignee_name, a.notes,
		       a.completed_at, a.created_at, a.updated_at
		FROM action_items a
		JOIN steps s ON a.step_id = s.id
		JOIN phases ph ON s.phase_id = ph.id
		WHERE ph.path_id = ? ORDER BY a.display_order, a.id
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load action items: %w", err)
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var it types.ActionItem
		var due, done sql.NullTime
		if err := itemRows.Scan(&it.ID, &it.StepID, &it.Title, &it.Status,
			&it.Order, &due, &it.AssigneeID, &it.AssigneeName, &it.Notes,
			&done, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan action item: %w", err)
		}
		it.DueDate = timePtr(due)
		it.CompletedAt = timePtr(done)
		if st, ok := stepByID[it.StepID]; ok {
			st.Items = append(st.Items, &it)
		}
	}
	return itemRows.Err()
}

// savePath writes the path's scalar fields only; the plan subtree is
// untouched.
func savePath(ctx context.Context, conn *sql.Conn, p *types.Path) error {
	res, err := conn.ExecContext(ctx, `
		UPDATE paths SET
			issue_id = ?, root_cause_id = ?, initiative_id = ?, title = ?,
			goal_statement = ?, status = ?, priority = ?, progress_percentage = ?,
			on_hold_reason = ?, completion_learnings = ?, notes = ?,
			baseline_metric = ?, current_metric = ?,
			organization_id = ?, owner_id = ?, started_at = ?, paused_at = ?,
			completed_at = ?, target_completion_date = ?, updated_at = ?
		WHERE id = ?
	`,
		p.IssueID, p.RootCauseID, p.InitiativeID, p.Title,
		p.GoalStatement, string(p.Status), string(p.Priority), p.Progress,
		p.OnHoldReason, p.CompletionLearnings, p.Notes,
		p.BaselineMetric, p.CurrentMetric,
		p.OrganizationID, p.OwnerID, nullTime(p.StartedAt), nullTime(p.PausedAt),
		nullTime(p.CompletedAt), nullTime(p.TargetCompletionDate), p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update path: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return types.NewNotFound("path", p.ID)
	}
	return nil
}

// saveSubtree rewrites the plan hierarchy from the in-memory subtree
// plus the path's scalar fields. Children are replaced wholesale;
// display order is preserved exactly as given. Callers wrap this in
// RunInTransaction so readers never see a half-written plan.
func saveSubtree(ctx context.Context, conn *sql.Conn, p *types.Path) error {
	if err := savePath(ctx, conn, p); err != nil {
		return err
	}
	// ON DELETE CASCADE clears steps and action items with the phases.
	if _, err := conn.ExecContext(ctx, `DELETE FROM phases WHERE path_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear plan: %w", err)
	}
	for _, ph := range p.Phases {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO phases (id, path_id, name, description, display_order,
				progress_percentage, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, ph.ID, p.ID, ph.Name, ph.Description, ph.Order, ph.Progress,
			ph.CreatedAt, ph.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert phase %s: %w", ph.ID, err)
		}
		for _, st := range ph.Steps {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO steps (id, phase_id, name, description, display_order,
					progress_percentage, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, st.ID, ph.ID, st.Name, st.Description, st.Order, st.Progress,
				st.CreatedAt, st.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert step %s: %w", st.ID, err)
			}
			for _, it := range st.Items {
				_, err := conn.ExecContext(ctx, `
					INSERT INTO action_items (id, step_id, title, status,
						display_order, due_date, assignee_id, assignee_name,
						notes, completed_at, created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, it.ID, st.ID, it.Title, string(it.Status), it.Order,
					nullTime(it.DueDate), it.AssigneeID, it.AssigneeName,
					it.Notes, nullTime(it.CompletedAt), it.CreatedAt, it.UpdatedAt)
				if err != nil {
					return fmt.Errorf("failed to insert action item %s: %w", it.ID, err)
				}
			}
		}
	}
	return nil
}

func (s *Storage) CreatePath(ctx context.Context, p *types.Path) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if err := insertPath(ctx, conn, p); err != nil {
			return err
		}
		if len(p.Phases) > 0 {
			return saveSubtree(ctx, conn, p)
		}
		return nil
	})
}

func (s *Storage) GetPath(ctx context.Context, id string) (*types.Path, error) {
	var p *types.Path
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		p, err = getPath(ctx, conn, id)
		return err
	})
	return p, err
}

func (s *Storage) SavePath(ctx context.Context, p *types.Path) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		return savePath(ctx, conn, p)
	})
}

func (s *Storage) SaveSubtree(ctx context.Context, p *types.Path) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		return saveSubtree(ctx, conn, p)
	})
}

func (s *Storage) DeletePath(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM paths WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete path: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return types.NewNotFound("path", id)
	}
	return nil
}

// ListPaths narrows by status and organization in SQL, then hands the
// rows to the query engine for the rest of the predicates, search and
// ordering, so both backends agree on list semantics exactly.
func (s *Storage) ListPaths(ctx context.Context, filter types.PathFilter) ([]*types.Path, error) {
	if err := query.Validate(filter); err != nil {
		return nil, err
	}

	q := `SELECT ` + pathColumns + ` FROM paths`
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.OrganizationID != "" {
		conds = append(conds, "organization_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []*types.Path
	for rows.Next() {
		p, err := scanPath(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate paths: %w", err)
	}

	return query.Apply(paths, filter)
}

// --- transaction methods ---

func (t *tx) GetPath(ctx context.Context, id string) (*types.Path, error) {
	return getPath(ctx, t.conn, id)
}

func (t *tx) SavePath(ctx context.Context, p *types.Path) error {
	return savePath(ctx, t.conn, p)
}

func (t *tx) SaveSubtree(ctx context.Context, p *types.Path) error {
	return saveSubtree(ctx, t.conn, p)
}

// --- comments ---

func (s *Storage) AddComment(ctx context.Context, pathID, authorID, content string) (*types.PathComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.NewValidationError("content", "comment must not be empty")
	}
	var c *types.PathComment
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		p, err := getPath(ctx, conn, pathID)
		if err != nil {
			return err
		}
		if p.Status == types.StatusArchived {
			return types.NewArchivedPathImmutable(pathID)
		}
		now := time.Now().UTC()
		res, err := conn.ExecContext(ctx, `
			INSERT INTO path_comments (path_id, author_id, content, created_at)
			VALUES (?, ?, ?, ?)
		`, pathID, authorID, content, now)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read comment id: %w", err)
		}
		c = &types.PathComment{ID: id, PathID: pathID, AuthorID: authorID, Content: content, CreatedAt: now}
		return nil
	})
	return c, err
}

func (s *Storage) GetComments(ctx context.Context, pathID string) ([]*types.PathComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path_id, author_id, content, created_at
		FROM path_comments WHERE path_id = ? ORDER BY created_at, id
	`, pathID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.PathComment
	for rows.Next() {
		var c types.PathComment
		if err := rows.Scan(&c.ID, &c.PathID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// --- statistics ---

// GetStatistics aggregates over the filtered set ignoring ordering and
// limit, so the dashboard numbers describe the whole selection, not
// the visible page.
func (s *Storage) GetStatistics(ctx context.Context, filter types.PathFilter) (*types.Statistics, error) {
	filter.OrderBy = ""
	filter.Limit = 0
	paths, err := s.ListPaths(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := query.Stats(paths)
	return &stats, nil
}

package sqlite

const schema = `
-- Issues table (feedback problem statements, read-mostly inputs)
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    source_channel TEXT NOT NULL DEFAULT '',
    feedback_count INTEGER NOT NULL DEFAULT 0,
    category TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT 'medium',
    emotional_intensity INTEGER NOT NULL DEFAULT 0 CHECK(emotional_intensity >= 0 AND emotional_intensity <= 10),
    organization_id TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_issues_org ON issues(organization_id);

-- Root causes table
CREATE TABLE IF NOT EXISTS root_causes (
    id TEXT PRIMARY KEY,
    issue_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_ai_generated INTEGER NOT NULL DEFAULT 0,
    confidence_score REAL,
    cause_category TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_root_causes_issue ON root_causes(issue_id);

-- Initiatives table
CREATE TABLE IF NOT EXISTS initiatives (
    id TEXT PRIMARY KEY,
    root_cause_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    initiative_type TEXT NOT NULL DEFAULT '',
    estimated_effort TEXT NOT NULL DEFAULT '',
    estimated_impact TEXT NOT NULL DEFAULT '',
    is_ai_generated INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (root_cause_id) REFERENCES root_causes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_initiatives_root_cause ON initiatives(root_cause_id);

-- Paths table
CREATE TABLE IF NOT EXISTS paths (
    id TEXT PRIMARY KEY,
    issue_id TEXT NOT NULL DEFAULT '',
    root_cause_id TEXT NOT NULL DEFAULT '',
    initiative_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL CHECK(length(title) <= 500),
    goal_statement TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    priority TEXT NOT NULL DEFAULT 'medium',
    progress_percentage INTEGER NOT NULL DEFAULT 0 CHECK(progress_percentage >= 0 AND progress_percentage <= 100),
    on_hold_reason TEXT NOT NULL DEFAULT '',
    completion_learnings TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    organization_id TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL DEFAULT '',
    started_at DATETIME,
    paused_at DATETIME,
    completed_at DATETIME,
    target_completion_date DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    -- on_hold paths carry a reason; resuming clears it. Archived paths
    -- keep whatever history they froze with.
    CHECK (
        (status = 'on_hold' AND on_hold_reason != '') OR
        (status = 'archived') OR
        (status NOT IN ('on_hold', 'archived') AND on_hold_reason = '')
    )
);

CREATE INDEX IF NOT EXISTS idx_paths_status ON paths(status);
CREATE INDEX IF NOT EXISTS idx_paths_org ON paths(organization_id);
CREATE INDEX IF NOT EXISTS idx_paths_owner ON paths(owner_id);
CREATE INDEX IF NOT EXISTS idx_paths_created_at ON paths(created_at);

-- Phases table
CREATE TABLE IF NOT EXISTS phases (
    id TEXT PRIMARY KEY,
    path_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0,
    progress_percentage INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (path_id) REFERENCES paths(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_phases_path ON phases(path_id, display_order);

-- Steps table
CREATE TABLE IF NOT EXISTS steps (
    id TEXT PRIMARY KEY,
    phase_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0,
    progress_percentage INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (phase_id) REFERENCES phases(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_steps_phase ON steps(phase_id, display_order);

-- Action items table
CREATE TABLE IF NOT EXISTS action_items (
    id TEXT PRIMARY KEY,
    step_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    display_order INTEGER NOT NULL DEFAULT 0,
    due_date DATETIME,
    assignee_id TEXT NOT NULL DEFAULT '',
    assignee_name TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    completed_at DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (step_id) REFERENCES steps(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_action_items_step ON action_items(step_id, display_order);
CREATE INDEX IF NOT EXISTS idx_action_items_assignee ON action_items(assignee_id);
CREATE INDEX IF NOT EXISTS idx_action_items_due ON action_items(due_date);

-- Comments table
CREATE TABLE IF NOT EXISTS path_comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path_id TEXT NOT NULL,
    author_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (path_id) REFERENCES paths(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_path_comments_path ON path_comments(path_id);
CREATE INDEX IF NOT EXISTS idx_path_comments_created_at ON path_comments(created_at);

-- Metadata table (for internal state like schema version)
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Package memory implements an in-memory storage backend, used by
// tests and by ephemeral runs that do not want a database file.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/jotpotato/pathlib/internal/query"
	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/types"
)

// Storage implements storage.Storage with plain maps behind a mutex.
// All entities are deep-copied at the boundary so callers can never
// mutate stored state without going through a Save.
type Storage struct {
	mu          sync.RWMutex
	issues      map[string]*types.Issue
	rootCauses  map[string]*types.RootCause
	initiatives map[string]*types.Initiative
	paths       map[string]*types.Path
	pathOrder   []string // insertion order, the collection's natural order
	comments    map[string][]*types.PathComment
	nextComment int64
}

var _ storage.Storage = (*Storage)(nil)

// New returns an empty in-memory store.
func New() *Storage {
	return &Storage{
		issues:      make(map[string]*types.Issue),
		rootCauses:  make(map[string]*types.RootCause),
		initiatives: make(map[string]*types.Initiative),
		paths:       make(map[string]*types.Path),
		comments:    make(map[string][]*types.PathComment),
		nextComment: 1,
	}
}

func copyPath(p *types.Path) *types.Path {
	cp := *p
	cp.Phases = make([]*types.Phase, len(p.Phases))
	for i, ph := range p.Phases {
		cph := *ph
		cph.Steps = make([]*types.Step, len(ph.Steps))
		for j, st := range ph.Steps {
			cst := *st
			cst.Items = make([]*types.ActionItem, len(st.Items))
			for k, it := range st.Items {
				cit := *it
				cst.Items[k] = &cit
			}
			cph.Steps[j] = &cst
		}
		cp.Phases[i] = &cph
	}
	return &cp
}

// --- feedback chain ---

func (s *Storage) CreateIssue(_ context.Context, issue *types.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[issue.ID]; ok {
		return types.NewValidationError("id", "issue "+issue.ID+" already exists")
	}
	cp := *issue
	s.issues[issue.ID] = &cp
	return nil
}

func (s *Storage) GetIssue(_ context.Context, id string) (*types.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[id]
	if !ok {
		return nil, types.NewNotFound("issue", id)
	}
	cp := *issue
	return &cp, nil
}

func (s *Storage) CreateRootCause(_ context.Context, rc *types.RootCause) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rootCauses[rc.ID]; ok {
		return types.NewValidationError("id", "root cause "+rc.ID+" already exists")
	}
	cp := *rc
	s.rootCauses[rc.ID] = &cp
	return nil
}

func (s *Storage) GetRootCause(_ context.Context, id string) (*types.RootCause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rc, ok := s.rootCauses[id]
	if !ok {
		return nil, types.NewNotFound("root cause", id)
	}
	cp := *rc
	return &cp, nil
}

func (s *Storage) CreateInitiative(_ context.Context, in *types.Initiative) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.initiatives[in.ID]; ok {
		return types.NewValidationError("id", "initiative "+in.ID+" already exists")
	}
	cp := *in
	s.initiatives[in.ID] = &cp
	return nil
}

func (s *Storage) GetInitiative(_ context.Context, id string) (*types.Initiative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.initiatives[id]
	if !ok {
		return nil, types.NewNotFound("initiative", id)
	}
	cp := *in
	return &cp, nil
}

// --- paths ---

func (s *Storage) CreatePath(_ context.Context, p *types.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paths[p.ID]; ok {
		return types.NewValidationError("id", "path "+p.ID+" already exists")
	}
	s.paths[p.ID] = copyPath(p)
	s.pathOrder = append(s.pathOrder, p.ID)
	return nil
}

func (s *Storage) GetPath(_ context.Context, id string) (*types.Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPathLocked(id)
}

func (s *Storage) getPathLocked(id string) (*types.Path, error) {
	p, ok := s.paths[id]
	if !ok {
		return nil, types.NewNotFound("path", id)
	}
	return copyPath(p), nil
}

func (s *Storage) SavePath(_ context.Context, p *types.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savePathLocked(p)
}

// savePathLocked updates scalar fields only, keeping the stored plan
// subtree.
func (s *Storage) savePathLocked(p *types.Path) error {
	stored, ok := s.paths[p.ID]
	if !ok {
		return types.NewNotFound("path", p.ID)
	}
	cp := *p
	cp.Phases = stored.Phases
	s.paths[p.ID] = &cp
	return nil
}

func (s *Storage) SaveSubtree(_ context.Context, p *types.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSubtreeLocked(p)
}

func (s *Storage) saveSubtreeLocked(p *types.Path) error {
	if _, ok := s.paths[p.ID]; !ok {
		return types.NewNotFound("path", p.ID)
	}
	s.paths[p.ID] = copyPath(p)
	return nil
}

func (s *Storage) DeletePath(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paths[id]; !ok {
		return types.NewNotFound("path", id)
	}
	delete(s.paths, id)
	delete(s.comments, id)
	for i, pid := range s.pathOrder {
		if pid == id {
			s.pathOrder = append(s.pathOrder[:i], s.pathOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Storage) ListPaths(_ context.Context, filter types.PathFilter) ([]*types.Path, error) {
	s.mu.RLock()
	paths := make([]*types.Path, 0, len(s.pathOrder))
	for _, id := range s.pathOrder {
		paths = append(paths, copyPath(s.paths[id]))
	}
	s.mu.RUnlock()
	return query.Apply(paths, filter)
}

// --- comments ---

func (s *Storage) AddComment(_ context.Context, pathID, authorID, content string) (*types.PathComment, error) {
	if content == "" {
		return nil, types.NewValidationError("content", "comment must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.paths[pathID]
	if !ok {
		return nil, types.NewNotFound("path", pathID)
	}
	if p.Status == types.StatusArchived {
		return nil, types.NewArchivedPathImmutable(pathID)
	}
	c := &types.PathComment{
		ID:        s.nextComment,
		PathID:    pathID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.nextComment++
	s.comments[pathID] = append(s.comments[pathID], c)
	cp := *c
	return &cp, nil
}

func (s *Storage) GetComments(_ context.Context, pathID string) ([]*types.PathComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.comments[pathID]
	out := make([]*types.PathComment, len(list))
	for i, c := range list {
		cp := *c
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- statistics ---

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

// --- transactions ---

type memTx struct {
	s *Storage
}

var _ storage.Transaction = (*memTx)(nil)

func (t *memTx) GetPath(_ context.Context, id string) (*types.Path, error) {
	return t.s.getPathLocked(id)
}

func (t *memTx) SavePath(_ context.Context, p *types.Path) error {
	return t.s.savePathLocked(p)
}

func (t *memTx) SaveSubtree(_ context.Context, p *types.Path) error {
	return t.s.saveSubtreeLocked(p)
}

// RunInTransaction holds the write lock for the whole callback and
// restores a snapshot of the path collection if the callback fails or
// panics, matching the SQLite backend's rollback semantics.
func (s *Storage) RunInTransaction(_ context.Context, fn func(tx storage.Transaction) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*types.Path, len(s.paths))
	for id, p := range s.paths {
		snapshot[id] = copyPath(p)
	}
	order := append([]string(nil), s.pathOrder...)

	restore := func() {
		s.paths = snapshot
		s.pathOrder = order
	}
	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
		if err != nil {
			restore()
		}
	}()

	return fn(&memTx{s: s})
}

// --- lifecycle ---

func (s *Storage) Close() error { return nil }

// Path returns the empty string; there is no database file.
func (s *Storage) Path() string { return "" }

// UnderlyingDB returns nil; there is no SQL database.
func (s *Storage) UnderlyingDB() *sql.DB { return nil }

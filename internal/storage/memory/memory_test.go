package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/types"
)

func newPath(id, title string) *types.Path {
	now := time.Now().UTC()
	return &types.Path{
		ID: id, Title: title,
		Status: types.StatusDraft, Priority: types.PriorityMedium,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := newPath("path-1", "Reduce churn")
	p.Phases = []*types.Phase{{
		ID: "ph-1", PathID: "path-1", Name: "Discovery", Order: 1,
		Steps: []*types.Step{{
			ID: "st-1", PhaseID: "ph-1", Name: "Interviews", Order: 1,
			Items: []*types.ActionItem{{ID: "ai-1", StepID: "st-1", Title: "Draft guide", Status: types.ItemPending, Order: 1}},
		}},
	}}
	if err := s.CreatePath(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPath(ctx, "path-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Reduce churn" || len(got.Phases) != 1 || len(got.Phases[0].Steps[0].Items) != 1 {
		t.Errorf("roundtrip lost data: %+v", got)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreatePath(ctx, newPath("path-1", "a")); err != nil {
		t.Fatal(err)
	}
	err := s.CreatePath(ctx, newPath("path-1", "b"))
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Errorf("got %v, want validation_error", err)
	}
}

func TestGetPathNotFound(t *testing.T) {
	_, err := New().GetPath(context.Background(), "path-nope")
	if types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("got %v, want not_found", err)
	}
}

func TestBoundaryCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPath("path-1", "original")
	p.Phases = []*types.Phase{{ID: "ph-1", Name: "Phase"}}
	if err := s.CreatePath(ctx, p); err != nil {
		t.Fatal(err)
	}

	// Mutating what we passed in or got out must not affect the store.
	p.Title = "mutated input"
	p.Phases[0].Name = "mutated phase"

	got1, _ := s.GetPath(ctx, "path-1")
	got1.Title = "mutated output"
	got1.Phases[0].Name = "also mutated"

	got2, _ := s.GetPath(ctx, "path-1")
	if got2.Title != "original" || got2.Phases[0].Name != "Phase" {
		t.Errorf("store shares memory with callers: %+v", got2)
	}
}

func TestSavePathKeepsSubtree(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPath("path-1", "with plan")
	p.Phases = []*types.Phase{{ID: "ph-1", Name: "Phase"}}
	if err := s.CreatePath(ctx, p); err != nil {
		t.Fatal(err)
	}

	// A scalar-only save must not wipe the stored plan.
	update := newPath("path-1", "renamed")
	update.Phases = nil
	if err := s.SavePath(ctx, update); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetPath(ctx, "path-1")
	if got.Title != "renamed" || len(got.Phases) != 1 {
		t.Errorf("SavePath dropped the subtree: %+v", got)
	}
}

func TestListPathsNaturalOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"path-c", "path-a", "path-b"} {
		if err := s.CreatePath(ctx, newPath(id, id)); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.ListPaths(ctx, types.PathFilter{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"path-c", "path-a", "path-b"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Fatalf("order = %v, want insertion order %v", got, want)
		}
	}
}

func TestDeletePathRemovesComments(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreatePath(ctx, newPath("path-1", "t")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddComment(ctx, "path-1", "alice", "hello"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePath(ctx, "path-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPath(ctx, "path-1"); types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("path survived delete: %v", err)
	}
	comments, _ := s.GetComments(ctx, "path-1")
	if len(comments) != 0 {
		t.Errorf("comments survived delete: %v", comments)
	}
}

func TestAddCommentArchivedPath(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newPath("path-1", "t")
	p.Status = types.StatusArchived
	if err := s.CreatePath(ctx, p); err != nil {
		t.Fatal(err)
	}
	_, err := s.AddComment(ctx, "path-1", "alice", "too late")
	if types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("got %v, want archived_path_immutable", err)
	}
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreatePath(ctx, newPath("path-1", "before")); err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("boom")
	err := s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		p, err := tx.GetPath(ctx, "path-1")
		if err != nil {
			return err
		}
		p.Title = "inside tx"
		if err := tx.SavePath(ctx, p); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}

	got, _ := s.GetPath(ctx, "path-1")
	if got.Title != "before" {
		t.Errorf("failed transaction leaked a write: title = %q", got.Title)
	}
}

func TestRunInTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreatePath(ctx, newPath("path-1", "before")); err != nil {
		t.Fatal(err)
	}

	err := s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		p, err := tx.GetPath(ctx, "path-1")
		if err != nil {
			return err
		}
		p.Title = "after"
		return tx.SavePath(ctx, p)
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetPath(ctx, "path-1")
	if got.Title != "after" {
		t.Errorf("title = %q, want after", got.Title)
	}
}

func TestGetStatisticsIgnoresPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, st := range []types.PathStatus{types.StatusActive, types.StatusActive, types.StatusDraft} {
		p := newPath(string(rune('a'+i)), "t")
		p.Status = st
		if st == types.StatusActive {
			p.Progress = 50
		}
		if err := s.CreatePath(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetStatistics(ctx, types.PathFilter{Limit: 1, OrderBy: "-created_at"})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPaths != 3 {
		t.Errorf("TotalPaths = %d, want 3 (limit must not apply)", stats.TotalPaths)
	}
	if stats.AverageProgress != 50 {
		t.Errorf("AverageProgress = %v, want 50", stats.AverageProgress)
	}
}

package library

import (
	"context"
	"testing"
	"time"

	"github.com/jotpotato/pathlib/internal/storage/memory"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/workflow"
)

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	return New(memory.New(), WithClock(func() time.Time { return testNow }))
}

// buildPlan creates a path with one phase, one step and n pending items,
// returning the ids needed by the tests.
func buildPlan(t *testing.T, l *Library, items int) (pathID, phaseID, stepID string, itemIDs []string) {
	t.Helper()
	ctx := context.Background()

	p, err := l.CreatePath(ctx, CreatePathRequest{Title: "Test path", Activate: true})
	if err != nil {
		t.Fatal(err)
	}
	pathID = p.ID

	p, err = l.AddPhase(ctx, pathID, "Phase one", "")
	if err != nil {
		t.Fatal(err)
	}
	phaseID = p.Phases[0].ID

	p, err = l.AddStep(ctx, pathID, phaseID, "Step one", "")
	if err != nil {
		t.Fatal(err)
	}
	stepID = p.Phases[0].Steps[0].ID

	for i := 0; i < items; i++ {
		p, err = l.AddItem(ctx, pathID, stepID, AddItemRequest{Title: "Item"})
		if err != nil {
			t.Fatal(err)
		}
	}
	for _, it := range p.Phases[0].Steps[0].Items {
		itemIDs = append(itemIDs, it.ID)
	}
	return
}

func TestCreatePathDefaults(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)

	p, err := l.CreatePath(ctx, CreatePathRequest{Title: "  Reduce churn  "})
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Reduce churn" {
		t.Errorf("title not trimmed: %q", p.Title)
	}
	if p.Status != types.StatusDraft {
		t.Errorf("status = %s, want draft", p.Status)
	}
	if p.Priority != types.PriorityMedium {
		t.Errorf("priority = %s, want medium default", p.Priority)
	}
	if p.Progress != 0 || p.StartedAt != nil {
		t.Errorf("fresh path carries derived state: %+v", p)
	}
	if p.ID == "" {
		t.Error("no id generated")
	}
}

func TestCreatePathValidation(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)

	_, err := l.CreatePath(ctx, CreatePathRequest{Title: "   "})
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Errorf("blank title: got %v", err)
	}
	_, err = l.CreatePath(ctx, CreatePathRequest{Title: "t", Priority: "urgent"})
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Errorf("bad priority: got %v", err)
	}
}

func TestCreatePathActivate(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)

	p, err := l.CreatePath(ctx, CreatePathRequest{Title: "t", Activate: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != types.StatusActive {
		t.Errorf("status = %s, want active", p.Status)
	}
	if p.StartedAt == nil || !p.StartedAt.Equal(testNow) {
		t.Errorf("StartedAt = %v, want %v", p.StartedAt, testNow)
	}
}

func TestItemStatusRollsUpAtomically(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	pathID, _, _, itemIDs := buildPlan(t, l, 2)

	p, err := l.UpdateItemStatus(ctx, pathID, itemIDs[0], types.ItemDone)
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 50 {
		t.Errorf("path progress = %d, want 50", p.Progress)
	}
	if p.Phases[0].Progress != 50 || p.Phases[0].Steps[0].Progress != 50 {
		t.Errorf("intermediate rollups wrong: phase=%d step=%d",
			p.Phases[0].Progress, p.Phases[0].Steps[0].Progress)
	}
	if got := p.Phases[0].Steps[0].Items[0].CompletedAt; got == nil {
		t.Error("done item has no completed_at")
	}

	// The persisted path agrees with the returned one.
	stored, err := l.GetPath(ctx, pathID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Progress != 50 {
		t.Errorf("stored progress = %d, want 50", stored.Progress)
	}

	// Moving back off done clears completed_at and re-rolls.
	p, err = l.UpdateItemStatus(ctx, pathID, itemIDs[0], types.ItemInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 0 {
		t.Errorf("progress after undo = %d, want 0", p.Progress)
	}
	if p.Phases[0].Steps[0].Items[0].CompletedAt != nil {
		t.Error("completed_at survived undo")
	}
}

func TestRemoveItemRecomputes(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	pathID, _, _, itemIDs := buildPlan(t, l, 2)

	if _, err := l.UpdateItemStatus(ctx, pathID, itemIDs[0], types.ItemDone); err != nil {
		t.Fatal(err)
	}
	// Removing the pending item leaves 1/1 done.
	p, err := l.RemoveItem(ctx, pathID, itemIDs[1])
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 100 {
		t.Errorf("progress = %d, want 100", p.Progress)
	}
}

func TestPlanMutationsRejectArchived(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	pathID, _, stepID, itemIDs := buildPlan(t, l, 1)

	if _, err := l.TransitionStatus(ctx, pathID, workflow.Request{NewStatus: types.StatusArchived}); err != nil {
		t.Fatal(err)
	}

	if _, err := l.AddPhase(ctx, pathID, "too late", ""); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("AddPhase: got %v", err)
	}
	if _, err := l.AddItem(ctx, pathID, stepID, AddItemRequest{Title: "x"}); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("AddItem: got %v", err)
	}
	if _, err := l.UpdateItemStatus(ctx, pathID, itemIDs[0], types.ItemDone); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("UpdateItemStatus: got %v", err)
	}
	if _, err := l.UpdateDetails(ctx, pathID, UpdateDetailsRequest{Notes: ptr("n")}); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("UpdateDetails: got %v", err)
	}
	if _, err := l.AddComment(ctx, pathID, "alice", "hi"); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("AddComment: got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestTransitionStatusPersistsSideEffects(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	p, err := l.CreatePath(ctx, CreatePathRequest{Title: "t", Activate: true})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.TransitionStatus(ctx, p.ID, workflow.Request{NewStatus: types.StatusOnHold}); types.CategoryOf(err) != types.CategoryValidation {
		t.Fatalf("hold without reason: got %v", err)
	}

	held, err := l.TransitionStatus(ctx, p.ID, workflow.Request{NewStatus: types.StatusOnHold, OnHoldReason: "vendor"})
	if err != nil {
		t.Fatal(err)
	}
	if held.OnHoldReason != "vendor" || held.PausedAt == nil {
		t.Errorf("hold side effects missing: %+v", held)
	}

	stored, _ := l.GetPath(ctx, p.ID)
	if stored.Status != types.StatusOnHold {
		t.Errorf("stored status = %s", stored.Status)
	}
}

func TestUpdateDetailsPartial(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	p, err := l.CreatePath(ctx, CreatePathRequest{Title: "t", GoalStatement: "goal", Notes: "keep me"})
	if err != nil {
		t.Fatal(err)
	}

	upd, err := l.UpdateDetails(ctx, p.ID, UpdateDetailsRequest{Title: ptr("renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Title != "renamed" || upd.GoalStatement != "goal" || upd.Notes != "keep me" {
		t.Errorf("partial update touched other fields: %+v", upd)
	}

	upd, err = l.UpdateDetails(ctx, p.ID, UpdateDetailsRequest{CurrentMetric: ptr(`{"churn": 0.08}`)})
	if err != nil {
		t.Fatal(err)
	}
	if upd.CurrentMetric != `{"churn": 0.08}` {
		t.Errorf("current metric = %q", upd.CurrentMetric)
	}

	target := testNow.AddDate(0, 1, 0)
	upd, err = l.UpdateDetails(ctx, p.ID, UpdateDetailsRequest{TargetCompletionDate: &target})
	if err != nil {
		t.Fatal(err)
	}
	if upd.TargetCompletionDate == nil {
		t.Fatal("target not set")
	}
	upd, err = l.UpdateDetails(ctx, p.ID, UpdateDetailsRequest{ClearTarget: true})
	if err != nil {
		t.Fatal(err)
	}
	if upd.TargetCompletionDate != nil {
		t.Error("target not cleared")
	}
}

func TestAddStepUnknownPhase(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	pathID, _, _, _ := buildPlan(t, l, 0)

	_, err := l.AddStep(ctx, pathID, "ph-nope", "step", "")
	if types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("got %v, want not_found", err)
	}
	// The failed mutation must not have bumped updated_at or the plan.
	p, _ := l.GetPath(ctx, pathID)
	if len(p.Phases[0].Steps) != 1 {
		t.Errorf("failed AddStep changed the plan: %+v", p.Phases[0])
	}
}

func TestAskUsesPlanData(t *testing.T) {
	ctx := context.Background()
	l := newTestLibrary(t)
	pathID, _, stepID, _ := buildPlan(t, l, 0)

	if _, err := l.AddItem(ctx, pathID, stepID, AddItemRequest{Title: "Interview users", AssigneeID: "u-1", AssigneeName: "Paul"}); err != nil {
		t.Fatal(err)
	}

	ans, err := l.Ask(ctx, pathID, "who is working on this?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.StructuredData["count"] != 1 {
		t.Errorf("team count = %v, want 1", ans.StructuredData["count"])
	}

	if _, err := l.Ask(ctx, "path-nope", "status"); types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("unknown path: got %v", err)
	}
}

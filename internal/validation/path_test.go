package validation

import (
	"testing"

	"github.com/jotpotato/pathlib/internal/types"
)

func TestExists(t *testing.T) {
	if err := Exists()("path-1", nil); types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("nil path: got %v, want not_found", err)
	}
	if err := Exists()("path-1", &types.Path{}); err != nil {
		t.Errorf("present path: %v", err)
	}
}

func TestNotArchived(t *testing.T) {
	archived := &types.Path{ID: "path-1", Status: types.StatusArchived}
	if err := NotArchived()("path-1", archived); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("archived: got %v, want archived_path_immutable", err)
	}
	if err := NotArchived()("path-1", &types.Path{Status: types.StatusActive}); err != nil {
		t.Errorf("active: %v", err)
	}
	// Nil is Exists()'s job, not ours.
	if err := NotArchived()("path-1", nil); err != nil {
		t.Errorf("nil path: %v", err)
	}
}

func TestHasStatus(t *testing.T) {
	v := HasStatus(types.StatusActive, types.StatusOnHold)
	if err := v("p", &types.Path{Status: types.StatusOnHold}); err != nil {
		t.Errorf("allowed status: %v", err)
	}
	if err := v("p", &types.Path{Status: types.StatusDraft}); types.CategoryOf(err) != types.CategoryValidation {
		t.Errorf("disallowed status: got %v, want validation_error", err)
	}
}

func TestHasTitle(t *testing.T) {
	if err := HasTitle()("p", &types.Path{Title: "   "}); types.CategoryOf(err) != types.CategoryValidation {
		t.Errorf("blank title: got %v", err)
	}
	if err := HasTitle()("p", &types.Path{Title: "Reduce churn"}); err != nil {
		t.Errorf("good title: %v", err)
	}
}

func TestStatusFieldsConsistent(t *testing.T) {
	tests := []struct {
		name string
		path types.Path
		ok   bool
	}{
		{"on hold with reason", types.Path{Status: types.StatusOnHold, OnHoldReason: "r"}, true},
		{"on hold without reason", types.Path{Status: types.StatusOnHold}, false},
		{"active with stale reason", types.Path{Status: types.StatusActive, OnHoldReason: "r"}, false},
		{"completed with learnings", types.Path{Status: types.StatusCompleted, CompletionLearnings: "l"}, true},
		{"completed without learnings", types.Path{Status: types.StatusCompleted}, false},
		{"active with stale learnings", types.Path{Status: types.StatusActive, CompletionLearnings: "l"}, false},
		{"archived keeps learnings", types.Path{Status: types.StatusArchived, CompletionLearnings: "l"}, true},
		{"archived keeps hold reason", types.Path{Status: types.StatusArchived, OnHoldReason: "r"}, true},
		{"plain active", types.Path{Status: types.StatusActive}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusFieldsConsistent()("p", &tt.path)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && types.CategoryOf(err) != types.CategoryValidation {
				t.Errorf("got %v, want validation_error", err)
			}
		})
	}
}

func TestChainStopsAtFirstError(t *testing.T) {
	calls := 0
	counting := func(id string, p *types.Path) error { calls++; return nil }
	err := Chain(counting, Exists(), counting)("p", nil)
	if types.CategoryOf(err) != types.CategoryNotFound {
		t.Fatalf("got %v", err)
	}
	if calls != 1 {
		t.Errorf("validators after the failure ran: calls = %d", calls)
	}
}

func TestForPlanMutation(t *testing.T) {
	v := ForPlanMutation()
	if err := v("p", nil); types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("nil: %v", err)
	}
	if err := v("p", &types.Path{Status: types.StatusArchived}); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("archived: %v", err)
	}
	if err := v("p", &types.Path{Status: types.StatusDraft}); err != nil {
		t.Errorf("draft: %v", err)
	}
}

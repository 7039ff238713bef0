package workflow

import (
	"testing"
	"time"

	"github.com/jotpotato/pathlib/internal/types"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestCanTransitionTable(t *testing.T) {
	tests := []struct {
		from, to types.PathStatus
		want     bool
	}{
		{types.StatusDraft, types.StatusActive, true},
		{types.StatusDraft, types.StatusArchived, true},
		{types.StatusDraft, types.StatusOnHold, false},
		{types.StatusDraft, types.StatusCompleted, false},
		{types.StatusActive, types.StatusOnHold, true},
		{types.StatusActive, types.StatusCompleted, true},
		{types.StatusActive, types.StatusArchived, true},
		{types.StatusActive, types.StatusDraft, false},
		{types.StatusOnHold, types.StatusActive, true},
		{types.StatusOnHold, types.StatusArchived, true},
		{types.StatusOnHold, types.StatusCompleted, false},
		{types.StatusCompleted, types.StatusArchived, true},
		{types.StatusCompleted, types.StatusActive, false},
		{types.StatusArchived, types.StatusActive, false},
		{types.StatusArchived, types.StatusDraft, false},
		{types.StatusArchived, types.StatusArchived, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionRejectsInvalidEdge(t *testing.T) {
	p := &types.Path{ID: "path-1", Status: types.StatusDraft}
	err := Transition(p, Request{NewStatus: types.StatusCompleted, CompletionLearnings: "x"}, now)
	if types.CategoryOf(err) != types.CategoryInvalidTransition {
		t.Fatalf("expected invalid_transition, got %v", err)
	}
	if p.Status != types.StatusDraft {
		t.Errorf("rejected transition mutated status to %s", p.Status)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	p := &types.Path{Status: types.StatusDraft}
	err := Transition(p, Request{NewStatus: "paused"}, now)
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Fatalf("expected validation_error, got %v", err)
	}
}

func TestHoldRequiresReason(t *testing.T) {
	p := &types.Path{Status: types.StatusActive}
	err := Transition(p, Request{NewStatus: types.StatusOnHold, OnHoldReason: "   "}, now)
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Fatalf("expected validation_error, got %v", err)
	}
	if p.Status != types.StatusActive || p.PausedAt != nil {
		t.Errorf("failed hold mutated the path: status=%s pausedAt=%v", p.Status, p.PausedAt)
	}

	if err := Transition(p, Request{NewStatus: types.StatusOnHold, OnHoldReason: "waiting on vendor"}, now); err != nil {
		t.Fatalf("hold with reason failed: %v", err)
	}
	if p.OnHoldReason != "waiting on vendor" {
		t.Errorf("OnHoldReason = %q", p.OnHoldReason)
	}
	if p.PausedAt == nil || !p.PausedAt.Equal(now) {
		t.Errorf("PausedAt = %v, want %v", p.PausedAt, now)
	}
}

func TestCompleteRequiresLearnings(t *testing.T) {
	p := &types.Path{Status: types.StatusActive, Progress: 40}
	err := Transition(p, Request{NewStatus: types.StatusCompleted}, now)
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Fatalf("expected validation_error, got %v", err)
	}

	// Completion is declared, not derived; 40% progress is fine.
	if err := Transition(p, Request{NewStatus: types.StatusCompleted, CompletionLearnings: "smaller batches work"}, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if p.CompletedAt == nil || p.CompletionLearnings != "smaller batches work" {
		t.Errorf("completion side effects missing: %+v", p)
	}
}

func TestResumeClearsHoldFields(t *testing.T) {
	p := &types.Path{Status: types.StatusActive}
	if err := Transition(p, Request{NewStatus: types.StatusOnHold, OnHoldReason: "budget freeze"}, now); err != nil {
		t.Fatal(err)
	}
	if err := Transition(p, Request{NewStatus: types.StatusActive}, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if p.OnHoldReason != "" || p.PausedAt != nil {
		t.Errorf("resume left hold fields: reason=%q pausedAt=%v", p.OnHoldReason, p.PausedAt)
	}
}

func TestStartedAtSetOnce(t *testing.T) {
	p := &types.Path{Status: types.StatusDraft}
	if err := Transition(p, Request{NewStatus: types.StatusActive}, now); err != nil {
		t.Fatal(err)
	}
	first := *p.StartedAt

	if err := Transition(p, Request{NewStatus: types.StatusOnHold, OnHoldReason: "r"}, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := Transition(p, Request{NewStatus: types.StatusActive}, now.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if !p.StartedAt.Equal(first) {
		t.Errorf("StartedAt moved on resume: %v -> %v", first, p.StartedAt)
	}
}

func TestArchivedIsTerminalAndFrozen(t *testing.T) {
	p := &types.Path{ID: "path-9", Status: types.StatusArchived}
	for _, to := range []types.PathStatus{
		types.StatusDraft, types.StatusActive, types.StatusOnHold, types.StatusCompleted,
	} {
		err := Transition(p, Request{NewStatus: to, OnHoldReason: "r", CompletionLearnings: "l"}, now)
		if types.CategoryOf(err) != types.CategoryInvalidTransition {
			t.Errorf("archived -> %s: expected invalid_transition, got %v", to, err)
		}
	}

	if err := CheckMutable(p); types.CategoryOf(err) != types.CategoryArchivedImmutable {
		t.Errorf("CheckMutable on archived: expected archived_path_immutable, got %v", err)
	}
	if err := CheckMutable(&types.Path{Status: types.StatusActive}); err != nil {
		t.Errorf("CheckMutable on active: %v", err)
	}
}

func TestAllowedFrom(t *testing.T) {
	if got := AllowedFrom(types.StatusArchived); len(got) != 0 {
		t.Errorf("AllowedFrom(archived) = %v, want empty", got)
	}
	if got := AllowedFrom(types.StatusActive); len(got) != 3 {
		t.Errorf("AllowedFrom(active) = %v, want 3 states", got)
	}
}

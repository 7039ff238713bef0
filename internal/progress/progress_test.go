package progress

import (
	"testing"

	"github.com/jotpotato/pathlib/internal/types"
)

func step(statuses ...types.ItemStatus) *types.Step {
	s := &types.Step{}
	for i, st := range statuses {
		s.Items = append(s.Items, &types.ActionItem{
			ID:     string(rune('a' + i)),
			Status: st,
		})
	}
	return s
}

func TestStepProgress(t *testing.T) {
	tests := []struct {
		name     string
		statuses []types.ItemStatus
		want     int
	}{
		{"empty step reports zero", nil, 0},
		{"none done", []types.ItemStatus{types.ItemPending, types.ItemInProgress}, 0},
		{"half done", []types.ItemStatus{types.ItemDone, types.ItemPending}, 50},
		{"all done", []types.ItemStatus{types.ItemDone, types.ItemDone}, 100},
		{"one third rounds down", []types.ItemStatus{types.ItemDone, types.ItemPending, types.ItemPending}, 33},
		{"two thirds rounds up", []types.ItemStatus{types.ItemDone, types.ItemDone, types.ItemPending}, 67},
		{"blocked is not done", []types.ItemStatus{types.ItemDone, types.ItemBlocked}, 50},
		{"in_progress is not done", []types.ItemStatus{types.ItemInProgress, types.ItemInProgress}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepProgress(step(tt.statuses...)); got != tt.want {
				t.Errorf("StepProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPhaseProgressUnweightedMean(t *testing.T) {
	// A ten-item step and a one-item step count equally.
	big := step(types.ItemDone, types.ItemDone, types.ItemDone, types.ItemDone, types.ItemDone,
		types.ItemDone, types.ItemDone, types.ItemDone, types.ItemDone, types.ItemDone)
	small := step(types.ItemPending)
	big.Progress = StepProgress(big)     // 100
	small.Progress = StepProgress(small) // 0

	ph := &types.Phase{Steps: []*types.Step{big, small}}
	if got := PhaseProgress(ph); got != 50 {
		t.Errorf("PhaseProgress() = %d, want 50", got)
	}
}

func TestPhaseProgressHalfUp(t *testing.T) {
	ph := &types.Phase{Steps: []*types.Step{
		{Progress: 50}, {Progress: 51},
	}}
	// mean 50.5 rounds up
	if got := PhaseProgress(ph); got != 51 {
		t.Errorf("PhaseProgress() = %d, want 51", got)
	}
}

func TestEmptyLevelsReportZero(t *testing.T) {
	if got := PhaseProgress(&types.Phase{}); got != 0 {
		t.Errorf("empty phase = %d, want 0", got)
	}
	if got := PathProgress(&types.Path{}); got != 0 {
		t.Errorf("empty path = %d, want 0", got)
	}
}

func TestRecomputeRollsUpEveryLevel(t *testing.T) {
	// Two phases, two steps each, two items each, one done per step.
	mk := func() *types.Phase {
		return &types.Phase{Steps: []*types.Step{
			step(types.ItemDone, types.ItemPending),
			step(types.ItemDone, types.ItemPending),
		}}
	}
	p := &types.Path{Phases: []*types.Phase{mk(), mk()}}

	Recompute(p)

	for _, ph := range p.Phases {
		for _, st := range ph.Steps {
			if st.Progress != 50 {
				t.Errorf("step progress = %d, want 50", st.Progress)
			}
		}
		if ph.Progress != 50 {
			t.Errorf("phase progress = %d, want 50", ph.Progress)
		}
	}
	if p.Progress != 50 {
		t.Errorf("path progress = %d, want 50", p.Progress)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	p := &types.Path{Phases: []*types.Phase{
		{Steps: []*types.Step{step(types.ItemDone, types.ItemPending, types.ItemPending)}},
	}}
	Recompute(p)
	first := p.Progress
	Recompute(p)
	if p.Progress != first {
		t.Errorf("second Recompute changed progress: %d -> %d", first, p.Progress)
	}
	if first != 33 {
		t.Errorf("path progress = %d, want 33", first)
	}
}

func TestRecomputeRoundsPerLevel(t *testing.T) {
	// Rounding happens at each level; remainders do not carry upward.
	// Steps of 1/3 done each: step progress 33 (not 33.33), phase mean
	// of three 33s is 33.
	p := &types.Path{Phases: []*types.Phase{
		{Steps: []*types.Step{
			step(types.ItemDone, types.ItemPending, types.ItemPending),
			step(types.ItemDone, types.ItemPending, types.ItemPending),
			step(types.ItemDone, types.ItemPending, types.ItemPending),
		}},
	}}
	Recompute(p)
	if p.Phases[0].Progress != 33 {
		t.Errorf("phase progress = %d, want 33", p.Phases[0].Progress)
	}
	if p.Progress != 33 {
		t.Errorf("path progress = %d, want 33", p.Progress)
	}
}

func TestBlockedItems(t *testing.T) {
	blocked1 := &types.ActionItem{ID: "ai-1", Title: "first", Status: types.ItemBlocked}
	blocked2 := &types.ActionItem{ID: "ai-2", Title: "second", Status: types.ItemBlocked}
	p := &types.Path{Phases: []*types.Phase{
		{Name: "Phase A", Steps: []*types.Step{
			{Name: "Step 1", Items: []*types.ActionItem{
				{ID: "ai-0", Status: types.ItemDone},
				blocked1,
			}},
		}},
		{Name: "Phase B", Steps: []*types.Step{
			{Name: "Step 2", Items: []*types.ActionItem{blocked2}},
		}},
	}}

	got := BlockedItems(p)
	if len(got) != 2 {
		t.Fatalf("BlockedItems() returned %d items, want 2", len(got))
	}
	if got[0].Item != blocked1 || got[1].Item != blocked2 {
		t.Errorf("blocked items out of display order")
	}
	if got[0].Phase.Name != "Phase A" || got[0].Step.Name != "Step 1" {
		t.Errorf("blocked item location mismatch: phase %q step %q", got[0].Phase.Name, got[0].Step.Name)
	}
}

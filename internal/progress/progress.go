// Package progress implements the bottom-up rollup of completion
// percentages through the plan hierarchy: action items roll up into
// steps, steps into phases, phases into the path.
//
// All functions are pure over the in-memory subtree: they write only
// the derived Progress fields and are idempotent. Callers persist the
// subtree atomically so readers never observe a partial rollup.
package progress

import (
	"math"

	"github.com/jotpotato/pathlib/internal/types"
)

// roundHalfUp converts a fraction in [0,1] (or a percentage mean) to an
// integer percentage, rounding .5 upward. Rounding happens at each
// level independently; fractional remainders are not carried upward.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// StepProgress returns the percentage of done action items in a step.
// A step with no action items reports 0, never an undefined value.
// Blocked items count as not complete.
func StepProgress(s *types.Step) int {
	if len(s.Items) == 0 {
		return 0
	}
	done := 0
	for _, it := range s.Items {
		if it.Status == types.ItemDone {
			done++
		}
	}
	return roundHalfUp(float64(done) / float64(len(s.Items)) * 100)
}

// PhaseProgress returns the unweighted mean of the phase's step
// percentages. Each step counts equally regardless of how many action
// items it contains. A phase with no steps reports 0.
func PhaseProgress(p *types.Phase) int {
	if len(p.Steps) == 0 {
		return 0
	}
	sum := 0
	for _, st := range p.Steps {
		sum += st.Progress
	}
	return roundHalfUp(float64(sum) / float64(len(p.Steps)))
}

// PathProgress returns the unweighted mean of the path's phase
// percentages. A path with no phases reports 0.
func PathProgress(p *types.Path) int {
	if len(p.Phases) == 0 {
		return 0
	}
	sum := 0
	for _, ph := range p.Phases {
		sum += ph.Progress
	}
	return roundHalfUp(float64(sum) / float64(len(p.Phases)))
}

// Recompute rewrites every derived percentage in the subtree in one
// bottom-up pass. Safe to call any number of times; the result is a
// pure function of the leaf statuses.
func Recompute(path *types.Path) {
	for _, ph := range path.Phases {
		for _, st := range ph.Steps {
			st.Progress = StepProgress(st)
		}
		ph.Progress = PhaseProgress(ph)
	}
	path.Progress = PathProgress(path)
}

// BlockedItems returns the blocked action items with their owning step
// and phase, in display order. Blocked work is excluded from the
// completion rollup but surfaced separately for reporting.
func BlockedItems(path *types.Path) []BlockedItem {
	var out []BlockedItem
	for _, ph := range path.Phases {
		for _, st := range ph.Steps {
			for _, it := range st.Items {
				if it.Status == types.ItemBlocked {
					out = append(out, BlockedItem{Item: it, Step: st, Phase: ph})
				}
			}
		}
	}
	return out
}

// BlockedItem pairs a blocked action item with its location in the plan.
type BlockedItem struct {
	Item  *types.ActionItem
	Step  *types.Step
	Phase *types.Phase
}

package main

import (
	"testing"

	"github.com/jotpotato/pathlib/internal/types"
)

func TestStatusMarkerDisabled(t *testing.T) {
	t.Setenv("PL_NO_EMOJI", "1")
	for _, s := range []types.PathStatus{
		types.StatusDraft,
		types.StatusActive,
		types.StatusOnHold,
		types.StatusCompleted,
		types.StatusArchived,
	} {
		if got := statusMarker(s); got != "" {
			t.Errorf("statusMarker(%s) = %q with PL_NO_EMOJI set, want empty", s, got)
		}
	}
}

// Package query implements in-memory filtering, searching, ordering and
// aggregation over path collections. Both storage backends delegate to
// it so list semantics stay identical regardless of backend; the sqlite
// backend may pre-narrow with SQL but the predicate of record lives
// here.
package query

import (
	"sort"
	"strings"

	"github.com/jotpotato/pathlib/internal/types"
)

// orderKeys are the recognized values for order_by, without the
// direction prefix.
var orderKeys = map[string]bool{
	"created_at":          true,
	"updated_at":          true,
	"priority":            true,
	"progress_percentage": true,
}

// Apply filters, searches, orders and truncates the given paths per f.
// The input slice is not modified. Unknown filter values and ordering
// keys are rejected with an invalid_query_parameter error rather than
// silently ignored.
func Apply(paths []*types.Path, f types.PathFilter) ([]*types.Path, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	out := make([]*types.Path, 0, len(paths))
	for _, p := range paths {
		if Matches(p, f) {
			out = append(out, p)
		}
	}

	if f.OrderBy != "" {
		sortPaths(out, f.OrderBy)
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Validate rejects filters carrying unknown enum values or ordering
// keys. It runs before any matching so a bad query never returns a
// partial result.
func Validate(f types.PathFilter) error {
	if f.Status != "" && !types.PathStatus(f.Status).IsValid() {
		return types.NewInvalidQueryParameter("status", "unknown status "+f.Status)
	}
	if f.Priority != "" && !types.Priority(f.Priority).IsValid() {
		return types.NewInvalidQueryParameter("priority", "unknown priority "+f.Priority)
	}
	if f.MinProgress != nil && (*f.MinProgress < 0 || *f.MinProgress > 100) {
		return types.NewInvalidQueryParameter("min_progress", "must be between 0 and 100")
	}
	if f.MaxProgress != nil && (*f.MaxProgress < 0 || *f.MaxProgress > 100) {
		return types.NewInvalidQueryParameter("max_progress", "must be between 0 and 100")
	}
	if f.OrderBy != "" {
		key := strings.TrimPrefix(f.OrderBy, "-")
		if !orderKeys[key] {
			return types.NewInvalidQueryParameter("order_by", "unknown ordering key "+key)
		}
	}
	return nil
}

// Matches reports whether a single path satisfies every supplied filter.
// Filters combine conjunctively; a zero-valued dimension is skipped.
func Matches(p *types.Path, f types.PathFilter) bool {
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(p.Priority) != f.Priority {
		return false
	}
	if f.OrganizationID != "" && p.OrganizationID != f.OrganizationID {
		return false
	}
	if f.OwnerID != "" && p.OwnerID != f.OwnerID {
		return false
	}
	if f.CreatedAfter != nil && p.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && p.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	if f.TargetAfter != nil {
		if p.TargetCompletionDate == nil || p.TargetCompletionDate.Before(*f.TargetAfter) {
			return false
		}
	}
	if f.TargetBefore != nil {
		if p.TargetCompletionDate == nil || p.TargetCompletionDate.After(*f.TargetBefore) {
			return false
		}
	}
	if f.MinProgress != nil && p.Progress < *f.MinProgress {
		return false
	}
	if f.MaxProgress != nil && p.Progress > *f.MaxProgress {
		return false
	}
	if f.Search != "" && !matchesSearch(p, f.Search) {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring match across the
// path's title, goal statement and notes. Matching any one field is
// enough.
func matchesSearch(p *types.Path, term string) bool {
	needle := strings.ToLower(term)
	for _, hay := range []string{p.Title, p.GoalStatement, p.Notes} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// sortPaths orders in place by the given key, "-" prefix for
// descending. The sort is stable: ties keep their incoming relative
// order so repeated queries over the same data agree.
func sortPaths(paths []*types.Path, orderBy string) {
	key := orderBy
	desc := false
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	}

	less := func(a, b *types.Path) bool { return false }
	switch key {
	case "created_at":
		less = func(a, b *types.Path) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *types.Path) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "priority":
		less = func(a, b *types.Path) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case "progress_percentage":
		less = func(a, b *types.Path) bool { return a.Progress < b.Progress }
	}

	sort.SliceStable(paths, func(i, j int) bool {
		if desc {
			return less(paths[j], paths[i])
		}
		return less(paths[i], paths[j])
	})
}

// Stats aggregates the collection for the library dashboard. The status
// breakdown always contains every status, including zero counts, so
// dashboards render a stable set of buckets. Average progress covers
// active paths only; with no active paths it is 0.
func Stats(paths []*types.Path) types.Statistics {
	s := types.Statistics{
		TotalPaths: len(paths),
		ByStatus: map[types.PathStatus]int{
			types.StatusDraft:     0,
			types.StatusActive:    0,
			types.StatusOnHold:    0,
			types.StatusCompleted: 0,
			types.StatusArchived:  0,
		},
	}
	activeSum := 0
	activeN := 0
	for _, p := range paths {
		s.ByStatus[p.Status]++
		if p.Status == types.StatusActive {
			activeSum += p.Progress
			activeN++
		}
	}
	if activeN > 0 {
		s.AverageProgress = float64(activeSum) / float64(activeN)
	}
	return s
}

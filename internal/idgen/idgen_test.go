package idgen

import (
	"regexp"
	"testing"
	"time"
)

func TestNewFormat(t *testing.T) {
	now := time.Now()
	for _, prefix := range []string{PrefixPath, PrefixPhase, PrefixStep, PrefixItem} {
		id := New(prefix, "Reduce churn", now)
		want := regexp.MustCompile("^" + prefix + "-[0-9a-f]{8}$")
		if !want.MatchString(id) {
			t.Errorf("New(%q) = %q, want match for %s", prefix, id, want)
		}
	}
}

func TestNewDistinctForSameSeed(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New(PrefixPath, "same title", now)
		if seen[id] {
			t.Fatalf("duplicate id %q for identical seed and timestamp", id)
		}
		seen[id] = true
	}
}

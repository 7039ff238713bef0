// Package assistant answers free-text questions about a path using a
// deterministic keyword classifier. There is no model call and no
// conversation state: every answer is a pure function of the query text
// and the path snapshot, so the same question against the same data
// always yields the same response.
package assistant

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jotpotato/pathlib/internal/types"
)

// Category identifies the classified intent of a query.
type Category string

const (
	CategoryStatus    Category = "status_overview"
	CategoryBlocked   Category = "blocked_items"
	CategoryDueDates  Category = "upcoming_due_dates"
	CategoryCompleted Category = "completed_work"
	CategoryTeam      Category = "team_roster"
	CategoryPhases    Category = "implementation_phases"
	CategoryDefault   Category = "general_info"
)

// UrgentHorizon is how far ahead a due date may be and still be flagged
// urgent.
const UrgentHorizon = 3 * 24 * time.Hour

// Answer is the structured result of an assistant query.
type Answer struct {
	Category       Category       `json:"category"`
	AnswerText     string         `json:"answer_text"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
}

// rule pairs an intent category with its trigger keywords. Rules are
// evaluated in slice order and the first match wins, so a query hitting
// several categories routes to the highest-priority one only.
type rule struct {
	Category Category
	Keywords []string
}

func defaultRules() []rule {
	return []rule{
		{CategoryStatus, []string{"status", "progress", "overview", "how"}},
		{CategoryBlocked, []string{"block", "issue", "problem", "stuck"}},
		{CategoryDueDates, []string{"due", "deadline", "upcoming", "soon"}},
		{CategoryCompleted, []string{"accomplish", "done", "complete", "finish", "solved"}},
		{CategoryTeam, []string{"team", "who", "assignee", "member", "person"}},
		{CategoryPhases, []string{"phase", "stage", "step"}},
	}
}

// Classifier routes queries to response builders. The zero value is not
// usable; construct with New.
type Classifier struct {
	rules []rule
	now   func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock overrides the time source, for tests and for the due-date
// urgency window.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New returns a classifier with the built-in keyword table.
func New(opts ...Option) *Classifier {
	c := &Classifier{rules: defaultRules(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// keywordFile is the on-disk shape of a keyword override file. Each
// entry replaces the keyword set of one category; the priority order
// itself is fixed and not overridable.
type keywordFile struct {
	Keywords map[string][]string `toml:"keywords"`
}

// LoadKeywords merges per-category keyword overrides from a TOML file.
// Unknown category names are rejected so a typo in the config fails
// loudly instead of silently dropping a rule.
func (c *Classifier) LoadKeywords(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading keyword overrides: %w", err)
	}
	var kf keywordFile
	if err := toml.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("parsing keyword overrides: %w", err)
	}
	for name, words := range kf.Keywords {
		found := false
		for i := range c.rules {
			if string(c.rules[i].Category) == name {
				if len(words) > 0 {
					c.rules[i].Keywords = words
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("keyword overrides: unknown category %q", name)
		}
	}
	return nil
}

// Classify returns the intent category for a query without building the
// response. Matching is case-insensitive substring containment.
func (c *Classifier) Classify(query string) Category {
	q := strings.ToLower(query)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(q, kw) {
				return r.Category
			}
		}
	}
	return CategoryDefault
}

// Ask classifies the query and builds the deterministic answer from the
// path snapshot. The path must carry its full subtree.
func (c *Classifier) Ask(query string, path *types.Path) Answer {
	cat := c.Classify(query)
	switch cat {
	case CategoryStatus:
		return c.answerStatus(path)
	case CategoryBlocked:
		return c.answerBlocked(path)
	case CategoryDueDates:
		return c.answerDueDates(path)
	case CategoryCompleted:
		return c.answerCompleted(path)
	case CategoryTeam:
		return c.answerTeam(path)
	case CategoryPhases:
		return c.answerPhases(path)
	}
	return c.answerDefault(path)
}

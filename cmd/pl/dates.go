package main

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDate accepts 2006-01-02, RFC3339, or natural language ("next
// friday", "in 2 weeks") via the when parser.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	r, err := dateParser.Parse(s, time.Now())
	if err == nil && r != nil {
		return r.Time.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (try 2006-01-02 or natural language like 'next friday')", s)
}

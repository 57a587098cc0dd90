package client

import (
	"sort"
	"time"
)

// Project derives the on-screen ordering of a fetched page. It does not
// trust the server sort: missing or unparseable due dates go last,
// completed items go after incomplete ones, then due date ascending.
// The sort is stable, so full ties keep their server-relative order.
// Pure function; the input slice is never mutated.
func Project(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	sort.SliceStable(out, func(i, j int) bool { return displayLess(out[i], out[j]) })
	return out
}

func displayLess(a, b Todo) bool {
	aDue, aOK := parseDue(a.DueDate)
	bDue, bOK := parseDue(b.DueDate)
	if aOK != bOK {
		return aOK
	}
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if !aOK {
		return false
	}
	return aDue.Before(bDue)
}

var dueLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDue parses a wire due date. Anything unparseable counts as
// missing; ordering never fails on bad data.
func parseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOrdering(t *testing.T) {
	in := []Todo{
		{ID: "1", Title: "no due"},
		{ID: "2", Title: "done early", Completed: true, DueDate: "2025-01-01T00:00:00Z"},
		{ID: "3", Title: "late", DueDate: "2025-03-01T00:00:00Z"},
		{ID: "4", Title: "broken date", DueDate: "not-a-date"},
		{ID: "5", Title: "early", DueDate: "2025-01-15T00:00:00Z"},
	}

	out := Project(in)

	ids := make([]string, len(out))
	for i, td := range out {
		ids[i] = td.ID
	}
	// Dated incomplete by due date, then dated completed, then the
	// missing/unparseable bucket in original order.
	assert.Equal(t, []string{"5", "3", "2", "1", "4"}, ids)
}

func TestProjectCompletedNeverPrecedesIncomplete(t *testing.T) {
	in := []Todo{
		{ID: "done", Completed: true, DueDate: "2025-01-01T00:00:00Z"},
		{ID: "open", DueDate: "2025-06-01T00:00:00Z"},
	}
	out := Project(in)
	require.Len(t, out, 2)
	assert.Equal(t, "open", out[0].ID)
	assert.Equal(t, "done", out[1].ID)
}

func TestProjectStable(t *testing.T) {
	in := []Todo{
		{ID: "a", DueDate: "2025-01-01T00:00:00Z"},
		{ID: "b", DueDate: "2025-01-01T00:00:00Z"},
		{ID: "c", DueDate: "2025-01-01T00:00:00Z"},
	}
	out := Project(in)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestProjectPure(t *testing.T) {
	in := []Todo{
		{ID: "2", DueDate: "2025-02-01T00:00:00Z"},
		{ID: "1", DueDate: "2025-01-01T00:00:00Z"},
	}
	first := Project(in)
	second := Project(in)
	assert.Equal(t, first, second, "same input, same output")
	assert.Equal(t, "2", in[0].ID, "input slice is not mutated")
}

func TestParseDue(t *testing.T) {
	for _, ok := range []string{"2025-06-01", "2025-06-01T10:30:00Z", "2025-06-01T10:30:00+02:00"} {
		_, got := parseDue(ok)
		assert.True(t, got, ok)
	}
	for _, bad := range []string{"", "garbage", "01/06/2025"} {
		_, got := parseDue(bad)
		assert.False(t, got, bad)
	}
}

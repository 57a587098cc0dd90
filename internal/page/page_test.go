package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Window
	}{
		{"in range", 3, 20, Window{Page: 3, Limit: 20}},
		{"zero page", 0, 10, Window{Page: 1, Limit: 10}},
		{"negative page", -5, 10, Window{Page: 1, Limit: 10}},
		{"zero limit never divides", 1, 0, Window{Page: 1, Limit: 1}},
		{"limit above max", 1, 9999, Window{Page: 1, Limit: MaxLimit}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.page, tc.limit))
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, 0, Window{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, 10, Window{Page: 2, Limit: 10}.Skip())
	assert.Equal(t, 28, Window{Page: 5, Limit: 7}.Skip())
}

func TestMeta(t *testing.T) {
	tests := []struct {
		name  string
		w     Window
		total int
		want  Meta
	}{
		{
			name: "empty set", w: Window{Page: 1, Limit: 10}, total: 0,
			want: Meta{CurrentPage: 1, TotalPages: 0, TotalTodos: 0},
		},
		{
			name: "exact division", w: Window{Page: 2, Limit: 10}, total: 20,
			want: Meta{CurrentPage: 2, TotalPages: 2, TotalTodos: 20, HasPrevPage: true},
		},
		{
			name: "partial last page", w: Window{Page: 1, Limit: 10}, total: 21,
			want: Meta{CurrentPage: 1, TotalPages: 3, TotalTodos: 21, HasNextPage: true},
		},
		{
			name: "far past the end", w: Window{Page: 9999, Limit: 10}, total: 3,
			want: Meta{CurrentPage: 9999, TotalPages: 1, TotalTodos: 3, HasNextPage: false, HasPrevPage: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.w.Meta(tc.total))
		})
	}
}

package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults pass through", 1, 20, 1, 20},
		{"zero limit falls back", 1, 0, 1, 20},
		{"negative limit falls back", 2, -1, 2, 20},
		{"oversized limit capped", 1, 1000, 1, 20},
		{"zero page clamped", 0, 50, 1, 50},
		{"valid values untouched", 7, 100, 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := normalizePagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestBuildOrderClauseRejectsUnknownFields(t *testing.T) {
	s := &Service{}
	assert.Equal(t, "created_at desc", s.buildOrderClause("admin_notes; drop", "asc'"))
	assert.Equal(t, "total_amount asc", s.buildOrderClause("total_amount", "asc"))
}

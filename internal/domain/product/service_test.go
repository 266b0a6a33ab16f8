package product

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	slug := generateSlug("Smoked Paprika (Hot)")
	assert.True(t, strings.HasPrefix(slug, "smoked-paprika-hot-"))
	assert.NotContains(t, slug, "(")
	assert.NotContains(t, slug, " ")
}

func TestGetFormattedPrice(t *testing.T) {
	p := &Product{Price: 12550}
	assert.Equal(t, 125.5, p.GetFormattedPrice())
}

func TestCartSnapshot(t *testing.T) {
	p := &Product{ID: 7, Name: "Sumac", Price: 5000, ImageURL: "/images/sumac.jpg"}

	id, name, price, imageURL := p.CartSnapshot()
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "Sumac", name)
	assert.Equal(t, int64(5000), price)
	assert.Equal(t, "/images/sumac.jpg", imageURL)
}

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
		{"negative limit falls back", 3, -5, 3, 20},
		{"oversized limit capped", 1, 500, 1, 20},
		{"zero page clamped", 0, 10, 1, 10},
		{"negative page clamped", -2, 10, 1, 10},
		{"valid values untouched", 4, 100, 4, 100},
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
	assert.Equal(t, "sort_order asc", s.buildOrderClause("password", "drop"))
	assert.Equal(t, "price desc", s.buildOrderClause("price", "desc"))
}

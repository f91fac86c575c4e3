package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	p := &PaginationParams{Page: -3, PerPage: 1000}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)

	p = &PaginationParams{Page: 2}
	p.Validate()
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, defaultPerPage, p.Offset())
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := Slice(items, &PaginationParams{Page: 1, PerPage: 2})
	assert.Equal(t, []int{1, 2}, first.Items)
	assert.Equal(t, 3, first.Pagination.TotalPages)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)

	last := Slice(items, &PaginationParams{Page: 3, PerPage: 2})
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.Pagination.HasNext)

	beyond := Slice(items, &PaginationParams{Page: 9, PerPage: 2})
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(5), beyond.Pagination.Total)

	all := Slice(items, nil)
	assert.Len(t, all.Items, 5)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	p := PaginationParams{Page: 0, Limit: 500, SortBy: "name; DROP TABLE employees", Order: "sideways"}
	p.Normalize("name", "position")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPageLimit, p.Limit)
	assert.Equal(t, "name asc", p.OrderClause())

	p = PaginationParams{Page: 3, Limit: 5, SortBy: "position", Order: "desc"}
	p.Normalize("name", "position")
	assert.Equal(t, 10, p.GetSkip())
	assert.Equal(t, "position desc", p.OrderClause())
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a"}, 21, PaginationParams{Page: 2, Limit: 10})
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrevious)
}

func TestRoleAndCaller(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("ROOT").Valid())
	assert.True(t, SystemCaller().IsAdmin())
	assert.False(t, Caller{SubjectID: "u1", Role: RoleUser}.IsAdmin())
}

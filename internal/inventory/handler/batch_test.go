package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
)

func TestBatchFilterFromQuery_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/batches", nil)

	filter := batchFilterFromQuery(r)

	assert.False(t, filter.ShowExpired)
	assert.Equal(t, 0, filter.ExpiringInDays)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.PerPage)
	assert.Equal(t, repository.SortByExpirationDate, filter.SortBy)
	assert.Equal(t, repository.SortAsc, filter.SortOrder)
}

func TestBatchFilterFromQuery_ParsesAllParams(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/batches?show_expired=true&expiring_in_days=14&page=3&per_page=50&sort_by=current_quantity&sort_order=desc", nil)

	filter := batchFilterFromQuery(r)

	assert.True(t, filter.ShowExpired)
	assert.Equal(t, 14, filter.ExpiringInDays)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 50, filter.PerPage)
	assert.Equal(t, repository.SortByCurrentQuantity, filter.SortBy)
	assert.Equal(t, repository.SortDesc, filter.SortOrder)
}

func TestBatchFilterFromQuery_ClampsBadValues(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/batches?page=-2&per_page=5000&expiring_in_days=-7&sort_by=drop+table&sort_order=sideways", nil)

	filter := batchFilterFromQuery(r)

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.PerPage)
	assert.Equal(t, 0, filter.ExpiringInDays)
	assert.Equal(t, repository.SortByExpirationDate, filter.SortBy)
	assert.Equal(t, repository.SortAsc, filter.SortOrder)
}

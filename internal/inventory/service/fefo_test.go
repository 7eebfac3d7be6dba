package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
)

func batchFixture(id string, qty int, expiresIn time.Duration, now time.Time) *repository.ProductBatch {
	return &repository.ProductBatch{
		ID:              id,
		ProductID:       "product-1",
		ExpirationDate:  now.Add(expiresIn),
		InitialQuantity: qty,
		CurrentQuantity: qty,
	}
}

func TestAllocate_DrainsSoonestExpiringFirst(t *testing.T) {
	now := time.Now().UTC()
	// Candidates arrive pre-sorted by expiration, the way the
	// allocation query returns them.
	batches := []*repository.ProductBatch{
		batchFixture("b1", 10, 24*time.Hour, now),
		batchFixture("b2", 5, 48*time.Hour, now),
	}

	allocations, available := allocate(batches, 12, now)
	require.NotNil(t, allocations)
	assert.Equal(t, 15, available)

	require.Len(t, allocations, 2)
	assert.Equal(t, "b1", allocations[0].BatchID)
	assert.Equal(t, 10, allocations[0].Quantity)
	assert.Equal(t, 0, allocations[0].RemainingInLot)
	assert.Equal(t, "b2", allocations[1].BatchID)
	assert.Equal(t, 2, allocations[1].Quantity)
	assert.Equal(t, 3, allocations[1].RemainingInLot)
}

func TestAllocate_CoversRequestExactly(t *testing.T) {
	now := time.Now().UTC()
	batches := []*repository.ProductBatch{
		batchFixture("b1", 4, 24*time.Hour, now),
		batchFixture("b2", 6, 48*time.Hour, now),
		batchFixture("b3", 8, 72*time.Hour, now),
	}

	allocations, _ := allocate(batches, 10, now)
	require.NotNil(t, allocations)

	total := 0
	for _, a := range allocations {
		total += a.Quantity
		assert.Positive(t, a.Quantity)
	}
	assert.Equal(t, 10, total)
	// Third batch untouched once the request is covered
	require.Len(t, allocations, 2)
}

func TestAllocate_SingleBatchCoversAll(t *testing.T) {
	now := time.Now().UTC()
	batches := []*repository.ProductBatch{
		batchFixture("b1", 10, 24*time.Hour, now),
		batchFixture("b2", 5, 48*time.Hour, now),
	}

	allocations, _ := allocate(batches, 7, now)
	require.Len(t, allocations, 1)
	assert.Equal(t, "b1", allocations[0].BatchID)
	assert.Equal(t, 7, allocations[0].Quantity)
	assert.Equal(t, 3, allocations[0].RemainingInLot)
}

func TestAllocate_ShortfallReturnsNilPlan(t *testing.T) {
	now := time.Now().UTC()
	batches := []*repository.ProductBatch{
		batchFixture("b1", 10, 24*time.Hour, now),
		batchFixture("b2", 5, 48*time.Hour, now),
	}

	allocations, available := allocate(batches, 20, now)
	assert.Nil(t, allocations)
	assert.Equal(t, 15, available)
}

func TestAllocate_NoBatches(t *testing.T) {
	now := time.Now().UTC()

	allocations, available := allocate(nil, 1, now)
	assert.Nil(t, allocations)
	assert.Equal(t, 0, available)
}

func TestAllocate_MarksExpiredSlices(t *testing.T) {
	now := time.Now().UTC()
	batches := []*repository.ProductBatch{
		batchFixture("expired", 3, -24*time.Hour, now),
		batchFixture("fresh", 5, 24*time.Hour, now),
	}

	allocations, _ := allocate(batches, 5, now)
	require.Len(t, allocations, 2)
	assert.True(t, allocations[0].IsExpired)
	assert.False(t, allocations[1].IsExpired)
}

func TestErrInsufficientStock_Details(t *testing.T) {
	err := ErrInsufficientStock(15, 20)
	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, "15", err.Details["available"])
	assert.Equal(t, "20", err.Details["requested"])
}

func TestErrInsufficientCurrentStock_Details(t *testing.T) {
	err := ErrInsufficientCurrentStock(2, 3, 4)
	assert.Equal(t, CodeInsufficientCurrentStock, err.Code)
	assert.Equal(t, "2", err.Details["available"])
	assert.Equal(t, "3", err.Details["requested"])
	assert.Equal(t, "4", err.Details["expired_available"])
}

func TestErrBatchNotEmpty_Details(t *testing.T) {
	err := ErrBatchNotEmpty("batch-1", 4)
	assert.Equal(t, CodeBatchNotEmpty, err.Code)
	assert.Equal(t, "4", err.Details["remaining"])
	assert.Equal(t, "batch-1", err.Details["batch_id"])
}

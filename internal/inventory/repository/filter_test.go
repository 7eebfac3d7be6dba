package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchFilter_WhereClause(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default hides expired", func(t *testing.T) {
		clause, args := BatchFilter{}.whereClause(now, 3)
		assert.Equal(t, " AND b.expiration_date >= $3", clause)
		require.Len(t, args, 1)
		assert.Equal(t, now, args[0])
	})

	t.Run("show expired drops the window", func(t *testing.T) {
		clause, args := BatchFilter{ShowExpired: true}.whereClause(now, 3)
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("expiring window excludes expired", func(t *testing.T) {
		clause, args := BatchFilter{ExpiringInDays: 7}.whereClause(now, 3)
		assert.Equal(t, " AND b.expiration_date >= $3 AND b.expiration_date < $4", clause)
		require.Len(t, args, 2)
		assert.Equal(t, now, args[0])
		assert.Equal(t, now.AddDate(0, 0, 7), args[1])
	})

	t.Run("expiring window with expired keeps no lower bound", func(t *testing.T) {
		clause, args := BatchFilter{ExpiringInDays: 7, ShowExpired: true}.whereClause(now, 3)
		assert.Equal(t, " AND b.expiration_date < $3", clause)
		require.Len(t, args, 1)
		assert.Equal(t, now.AddDate(0, 0, 7), args[0])
	})
}

func TestBatchSortField_Column(t *testing.T) {
	assert.Equal(t, "expiration_date", SortByExpirationDate.column())
	assert.Equal(t, "created_at", SortByCreatedAt.column())
	assert.Equal(t, "current_quantity", SortByCurrentQuantity.column())
	// Anything unknown falls back instead of reaching the query
	assert.Equal(t, "expiration_date", BatchSortField("id; DROP TABLE products").column())
}

func TestSortOrder_Direction(t *testing.T) {
	assert.Equal(t, "ASC", SortAsc.direction())
	assert.Equal(t, "DESC", SortDesc.direction())
	assert.Equal(t, "ASC", SortOrder("sideways").direction())
}

func TestBatchFilter_Normalize(t *testing.T) {
	f := BatchFilter{Page: 0, PerPage: 1000}.normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PerPage)

	f = BatchFilter{Page: 3, PerPage: 50}.normalize()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PerPage)
}

func TestBatchPatch_IsZero(t *testing.T) {
	assert.True(t, BatchPatch{}.IsZero())

	number := "LOT-1"
	assert.False(t, BatchPatch{BatchNumber: &number}.IsZero())

	date := time.Now()
	assert.False(t, BatchPatch{ExpirationDate: &date}.IsZero())
}

func TestMovementType_Valid(t *testing.T) {
	for _, mt := range []MovementType{MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementDamage} {
		assert.True(t, mt.Valid(), string(mt))
	}
	assert.False(t, MovementType("TRANSFER").Valid())
	assert.False(t, MovementType("").Valid())
}

func TestProductBatch_IsExpired(t *testing.T) {
	now := time.Now().UTC()
	expired := ProductBatch{ExpirationDate: now.Add(-time.Hour)}
	fresh := ProductBatch{ExpirationDate: now.Add(time.Hour)}

	assert.True(t, expired.IsExpired(now))
	assert.False(t, fresh.IsExpired(now))
	// Expiring exactly now still counts as usable
	boundary := ProductBatch{ExpirationDate: now}
	assert.False(t, boundary.IsExpired(now))
}

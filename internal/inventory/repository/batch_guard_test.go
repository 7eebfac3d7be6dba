package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/testutil"
)

// The decrement guard is what turns a stale allocation plan into a
// conflict instead of negative stock, so its row-count semantics get
// pinned down here against a mock.

func TestBatchRepository_DecrementQuantityTx_Applied(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectExec("UPDATE product_batches").
		WithArgs("batch-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := mockDB.DB.Beginx()
	require.NoError(t, err)

	repo := repository.NewBatchRepository(nil)
	ok, err := repo.DecrementQuantityTx(context.Background(), tx, "batch-1", 5)
	require.NoError(t, err)
	assert.True(t, ok)

	mockDB.ExpectationsWereMet(t)
}

func TestBatchRepository_DecrementQuantityTx_StaleBatch(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectExec("UPDATE product_batches").
		WithArgs("batch-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := mockDB.DB.Beginx()
	require.NoError(t, err)

	repo := repository.NewBatchRepository(nil)
	ok, err := repo.DecrementQuantityTx(context.Background(), tx, "batch-1", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	mockDB.ExpectationsWereMet(t)
}

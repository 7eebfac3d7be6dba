package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/testutil"
)

func newAllocationTestService() *BatchService {
	return NewBatchService(
		nil,
		repository.NewProductRepository(nil),
		repository.NewBatchRepository(nil),
		repository.NewMovementRepository(nil),
		repository.NewBatchMovementRepository(nil),
		nil,
		logger.New("test", "test"),
	)
}

// A plan built against batches that another transaction has since
// drained must surface as a concurrency conflict, not apply partially.
func TestApplyAllocation_StaleBatchIsConcurrencyConflict(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectQuery("INSERT INTO stock_movements").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	// Guarded decrement misses: the batch no longer holds the planned
	// quantity.
	mockDB.Mock.ExpectExec("UPDATE product_batches").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := mockDB.DB.Beginx()
	require.NoError(t, err)

	svc := newAllocationTestService()
	movement := &repository.StockMovement{
		ProductID: "22222222-2222-2222-2222-222222222222",
		Type:      repository.MovementSale,
		Quantity:  -5,
	}

	err = svc.applyAllocationTx(context.Background(), tx, movement, []BatchAllocation{
		{BatchID: "batch-1", Quantity: 5},
	})
	require.Error(t, err)
	assert.Equal(t, CodeConcurrencyConflict, ErrorCode(err))
	mockDB.ExpectationsWereMet(t)
}

func TestApplyAllocation_AppliesPlanAndAuditTrail(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectQuery("INSERT INTO stock_movements").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mockDB.Mock.ExpectExec("UPDATE product_batches").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.Mock.ExpectQuery("INSERT INTO batch_stock_movements").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	tx, err := mockDB.DB.Beginx()
	require.NoError(t, err)

	svc := newAllocationTestService()
	movement := &repository.StockMovement{
		ProductID: "22222222-2222-2222-2222-222222222222",
		Type:      repository.MovementSale,
		Quantity:  -5,
	}

	err = svc.applyAllocationTx(context.Background(), tx, movement, []BatchAllocation{
		{BatchID: "batch-1", Quantity: 5},
	})
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

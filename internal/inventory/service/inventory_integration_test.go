package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstock/shopstock-backend/internal/inventory/events"
	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		panic("failed to create integration suite: " + err.Error())
	}
	defer suite.Cleanup(ctx)

	code := m.Run()
	os.Exit(code)
}

type services struct {
	fefo      *service.FEFOService
	batches   *service.BatchService
	stock     *service.StockService
	receiving *service.ReceivingService
	reports   *service.ReportService
}

func newServices() services {
	productRepo := repository.NewProductRepository(suite.DB)
	batchRepo := repository.NewBatchRepository(suite.DB)
	movementRepo := repository.NewMovementRepository(suite.DB)
	batchMovementRepo := repository.NewBatchMovementRepository(suite.DB)

	publisher := events.NewPublisher(nil, suite.Logger)
	fefo := service.NewFEFOService(suite.DB, batchRepo, suite.Logger)
	batches := service.NewBatchService(suite.DB, productRepo, batchRepo, movementRepo, batchMovementRepo, publisher, suite.Logger)
	stock := service.NewStockService(suite.DB, productRepo, movementRepo, fefo, batches, publisher, suite.Logger)
	receiving := service.NewReceivingService(productRepo, batches, stock, suite.Logger)
	reports := service.NewReportService(batchRepo, suite.Logger)

	return services{fefo: fefo, batches: batches, stock: stock, receiving: receiving, reports: reports}
}

func setupTracked(t *testing.T, ctx context.Context) (context.Context, string, services) {
	t.Helper()
	st := suite.SetupStore(t, ctx)
	storeCtx := st.Context(ctx)
	svc := newServices()
	productID := suite.Fixtures.CreateTrackedProduct(t, st.ID, "Tracked Product")
	return storeCtx, productID, svc
}

func createBatch(t *testing.T, ctx context.Context, svc services, productID string, qty int, expiresIn time.Duration) *repository.ProductBatch {
	t.Helper()
	batch, err := svc.batches.CreateBatch(ctx, service.CreateBatchInput{
		ProductID:       productID,
		ExpirationDate:  time.Now().UTC().Add(expiresIn),
		InitialQuantity: qty,
		UnitCost:        decimal.NewFromFloat(2.50),
	})
	require.NoError(t, err)
	return batch
}

func currentStock(t *testing.T, productID string) int {
	t.Helper()
	var stock int
	require.NoError(t, suite.RawDB.Get(&stock,
		`SELECT current_stock FROM products WHERE id = $1`, productID))
	return stock
}

// --- FEFO allocation ---

func TestAllocate_SpansBatchesInExpiryOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	b1 := createBatch(t, ctx, svc, productID, 10, 24*time.Hour)
	b2 := createBatch(t, ctx, svc, productID, 5, 48*time.Hour)

	allocations, err := svc.stock.Allocate(ctx, productID, 12, repository.MovementSale, false, nil)
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, b1.ID, allocations[0].BatchID)
	assert.Equal(t, 10, allocations[0].Quantity)
	assert.Equal(t, b2.ID, allocations[1].BatchID)
	assert.Equal(t, 2, allocations[1].Quantity)

	// Batches drained, aggregate reconciled
	remaining, err := svc.batches.GetBatch(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining.CurrentQuantity)
	assert.Equal(t, 3, currentStock(t, productID))
}

func TestAllocate_ShortfallCarriesQuantities(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	createBatch(t, ctx, svc, productID, 10, 24*time.Hour)
	createBatch(t, ctx, svc, productID, 5, 48*time.Hour)

	_, err := svc.stock.Allocate(ctx, productID, 20, repository.MovementSale, false, nil)
	require.Error(t, err)
	assert.Equal(t, service.CodeInsufficientStock, service.ErrorCode(err))

	// Nothing moved
	assert.Equal(t, 15, currentStock(t, productID))
}

func TestAllocate_ExpiredOnlyShortfallIsDistinct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	// Expired stock cannot go through CreateBatch validation paths, so
	// seed it directly.
	suite.Fixtures.CreateBatch(t, productID, testutil.BatchFixture{
		ExpiresIn:       -24 * time.Hour,
		CurrentQuantity: 10,
	})
	fresh := createBatch(t, ctx, svc, productID, 2, 48*time.Hour)

	_, err := svc.stock.Allocate(ctx, productID, 3, repository.MovementSale, false, nil)
	require.Error(t, err)
	assert.Equal(t, service.CodeInsufficientCurrentStock, service.ErrorCode(err))

	// With the override the expired batch is drained first
	allocations, err := svc.stock.Allocate(ctx, productID, 3, repository.MovementSale, true, nil)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.True(t, allocations[0].IsExpired)
	assert.NotEqual(t, fresh.ID, allocations[0].BatchID)
}

func TestAllocate_PreviewDoesNotTouchStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	createBatch(t, ctx, svc, productID, 10, 24*time.Hour)

	allocations, err := svc.fefo.SelectBatchesForQuantity(ctx, productID, 4, false)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, 4, allocations[0].Quantity)

	assert.Equal(t, 10, currentStock(t, productID))
}

func TestHasAvailableStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	suite.Fixtures.CreateBatch(t, productID, testutil.BatchFixture{
		ExpiresIn:       -24 * time.Hour,
		CurrentQuantity: 10,
	})
	createBatch(t, ctx, svc, productID, 5, 24*time.Hour)

	ok, err := svc.fefo.HasAvailableStock(ctx, productID, 5, false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.fefo.HasAvailableStock(ctx, productID, 8, false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.fefo.HasAvailableStock(ctx, productID, 8, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNextExpiringBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	createBatch(t, ctx, svc, productID, 5, 72*time.Hour)
	soonest := createBatch(t, ctx, svc, productID, 5, 24*time.Hour)

	next, err := svc.fefo.NextExpiringBatch(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, soonest.ID, next.ID)

	// An expired batch with stock is more urgent than any fresh one
	expiredID := suite.Fixtures.CreateBatch(t, productID, testutil.BatchFixture{
		ExpiresIn:       -time.Hour,
		CurrentQuantity: 5,
	})
	next, err = svc.fefo.NextExpiringBatch(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, expiredID, next.ID)
}

func TestNextExpiringBatch_OnlyExpiredStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	older := suite.Fixtures.CreateBatch(t, productID, testutil.BatchFixture{
		ExpiresIn:       -48 * time.Hour,
		CurrentQuantity: 3,
	})
	suite.Fixtures.CreateBatch(t, productID, testutil.BatchFixture{
		ExpiresIn:       -24 * time.Hour,
		CurrentQuantity: 7,
	})

	next, err := svc.fefo.NextExpiringBatch(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, older, next.ID)

	// Empty batches never surface as the hint
	suite.Fixtures.SetCurrentStock(t, productID, 0)
	_, err = suite.RawDB.Exec(`UPDATE product_batches SET current_quantity = 0 WHERE product_id = $1`, productID)
	require.NoError(t, err)

	next, err = svc.fefo.NextExpiringBatch(ctx, productID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

// --- Batch lifecycle ---

func TestCreateBatch_WritesLedgerAndReconciles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	batch := createBatch(t, ctx, svc, productID, 8, 24*time.Hour)
	assert.Equal(t, 8, batch.CurrentQuantity)
	assert.Equal(t, 8, currentStock(t, productID))

	movements, err := svc.stock.ListMovements(ctx, repository.MovementFilter{ProductID: productID})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, repository.MovementAdjustment, movements[0].Type)
	assert.Equal(t, 8, movements[0].Quantity)

	trail, err := svc.batches.ListBatchMovements(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, movements[0].ID, *trail[0].StockMovementID)
}

func TestCreateBatch_UntrackedProductRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{Tracked: false})

	_, err := svc.batches.CreateBatch(ctx, service.CreateBatchInput{
		ProductID:       productID,
		ExpirationDate:  time.Now().Add(24 * time.Hour),
		InitialQuantity: 5,
	})
	require.Error(t, err)
	assert.Equal(t, service.CodeProductNotTracked, service.ErrorCode(err))
}

func TestAdjustBatch_QuantityDeltaHitsLedgerAndAggregate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	batch := createBatch(t, ctx, svc, productID, 10, 24*time.Hour)

	newQty := 6
	updated, err := svc.batches.AdjustBatch(ctx, batch.ID, service.AdjustBatchInput{
		CurrentQuantity: &newQty,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.CurrentQuantity)
	assert.Equal(t, 10, updated.InitialQuantity) // immutable
	assert.Equal(t, 6, currentStock(t, productID))

	movements, err := svc.stock.ListMovements(ctx, repository.MovementFilter{
		ProductID: productID,
		Type:      repository.MovementAdjustment,
	})
	require.NoError(t, err)
	require.Len(t, movements, 2) // creation inflow + this delta
	assert.Equal(t, -4, movements[0].Quantity)
}

func TestAdjustBatch_MetadataOnlyLeavesLedgerAlone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	batch := createBatch(t, ctx, svc, productID, 10, 24*time.Hour)

	number := "LOT-2026-03"
	updated, err := svc.batches.AdjustBatch(ctx, batch.ID, service.AdjustBatchInput{
		Patch: repository.BatchPatch{BatchNumber: &number},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.BatchNumber)
	assert.Equal(t, number, *updated.BatchNumber)

	movements, err := svc.stock.ListMovements(ctx, repository.MovementFilter{ProductID: productID})
	require.NoError(t, err)
	assert.Len(t, movements, 1) // only the creation inflow
}

func TestDeleteBatch_OnlyWhenEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	full := createBatch(t, ctx, svc, productID, 4, 24*time.Hour)
	err := svc.batches.DeleteBatch(ctx, full.ID)
	require.Error(t, err)
	assert.Equal(t, service.CodeBatchNotEmpty, service.ErrorCode(err))

	zero := 0
	_, err = svc.batches.AdjustBatch(ctx, full.ID, service.AdjustBatchInput{CurrentQuantity: &zero})
	require.NoError(t, err)

	require.NoError(t, svc.batches.DeleteBatch(ctx, full.ID))
	_, err = svc.batches.GetBatch(ctx, full.ID)
	require.Error(t, err)
	assert.Equal(t, 0, currentStock(t, productID))
}

func TestReconcile_IsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	createBatch(t, ctx, svc, productID, 7, 24*time.Hour)

	// Drift the aggregate, then repair it
	suite.Fixtures.SetCurrentStock(t, productID, 99)
	stock, err := svc.batches.Reconcile(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	var updatedAt time.Time
	require.NoError(t, suite.RawDB.Get(&updatedAt,
		`SELECT updated_at FROM products WHERE id = $1`, productID))

	// Second run finds nothing to do and skips the write
	stock, err = svc.batches.Reconcile(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	var after time.Time
	require.NoError(t, suite.RawDB.Get(&after,
		`SELECT updated_at FROM products WHERE id = $1`, productID))
	assert.Equal(t, updatedAt, after)
}

// --- Stock ledger ---

func TestRecordMovement_UntrackedAppliesSignedDelta(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{CurrentStock: 10})

	_, err := svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementSale,
		Quantity:  -3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, currentStock(t, productID))

	_, err = svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementReturn,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, currentStock(t, productID))
}

func TestRecordMovement_UntrackedCannotGoNegative(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{CurrentStock: 2})

	_, err := svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementSale,
		Quantity:  -5,
	})
	require.Error(t, err)
	assert.Equal(t, service.CodeInsufficientStock, service.ErrorCode(err))
	assert.Equal(t, 2, currentStock(t, productID))
}

func TestRecordMovement_TrackedInflowRequiresBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	_, err := svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementPurchase,
		Quantity:  5,
	})
	require.Error(t, err)
	assert.Equal(t, service.CodeTrackedRequiresBatch, service.ErrorCode(err))
}

func TestRecordMovement_TrackedOutflowDrainsFEFO(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	first := createBatch(t, ctx, svc, productID, 3, 24*time.Hour)
	createBatch(t, ctx, svc, productID, 5, 48*time.Hour)

	movement, err := svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementDamage,
		Quantity:  -4,
	})
	require.NoError(t, err)
	assert.Equal(t, -4, movement.Quantity)
	assert.Equal(t, 4, currentStock(t, productID))

	drained, err := svc.batches.GetBatch(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, drained.CurrentQuantity)
}

func TestRecordMovement_ZeroQuantityRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())

	_, err := svc.stock.RecordMovement(ctx, service.RecordMovementInput{
		ProductID: productID,
		Type:      repository.MovementAdjustment,
		Quantity:  0,
	})
	require.Error(t, err)
	assert.Equal(t, service.CodeInvalidQuantity, service.ErrorCode(err))
}

// --- Expiration tracking toggle ---

func TestSetExpirationTracking_ReportsProductsNeedingBatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()

	withStock := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{Name: "Has Stock", CurrentStock: 12})
	empty := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{Name: "Empty"})

	result, err := svc.stock.SetExpirationTracking(ctx, []string{withStock, empty}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.UpdatedCount)
	require.Len(t, result.ProductsRequiringBatches, 1)
	assert.Equal(t, withStock, result.ProductsRequiringBatches[0].ProductID)
	assert.Equal(t, 12, result.ProductsRequiringBatches[0].CurrentStock)
}

func TestSetExpirationTracking_MissingProductFailsWhole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{})

	_, err := svc.stock.SetExpirationTracking(ctx, []string{productID, "11111111-1111-1111-1111-111111111111"}, true)
	require.Error(t, err)

	var tracked bool
	require.NoError(t, suite.RawDB.Get(&tracked,
		`SELECT track_expiration_dates FROM products WHERE id = $1`, productID))
	assert.False(t, tracked)
}

func TestSetExpirationTracking_EmptyProductListRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()

	_, err := svc.stock.SetExpirationTracking(ctx, nil, true)
	require.Error(t, err)
	assert.Equal(t, service.CodeInvalidInput, service.ErrorCode(err))
}

// --- Store isolation ---

func TestCrossStoreAccessLooksLikeNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	baseCtx := context.Background()
	ctx, productID, svc := setupTracked(t, baseCtx)
	batch := createBatch(t, ctx, svc, productID, 5, 24*time.Hour)

	other := suite.SetupStore(t, baseCtx)
	otherCtx := other.Context(baseCtx)

	_, err := svc.batches.GetBatch(otherCtx, batch.ID)
	require.Error(t, err)
	_, _, err = svc.batches.ListBatches(otherCtx, productID, repository.BatchFilter{})
	require.Error(t, err)
}

// --- Goods receipt ---

func TestGoodsReceived_TrackedCreatesBatchWithProvenance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateTrackedProduct(t, st.ID, "Tracked Receipt")

	expiration := time.Now().UTC().Add(90 * 24 * time.Hour)
	err := svc.receiving.GoodsReceived(ctx, goodsLine(st.ID, productID, 24, &expiration))
	require.NoError(t, err)

	batches, _, err := svc.batches.ListBatches(ctx, productID, repository.BatchFilter{})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 24, batches[0].CurrentQuantity)
	require.NotNil(t, batches[0].PurchaseOrderID)
	assert.Equal(t, 24, currentStock(t, productID))

	movements, err := svc.stock.ListMovements(ctx, repository.MovementFilter{
		ProductID: productID,
		Type:      repository.MovementPurchase,
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)
}

func TestGoodsReceived_TrackedWithoutExpirationRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateTrackedProduct(t, st.ID, "No Expiry Line")

	err := svc.receiving.GoodsReceived(ctx, goodsLine(st.ID, productID, 10, nil))
	require.Error(t, err)
	assert.Equal(t, service.CodeInvalidInput, service.ErrorCode(err))
	assert.Equal(t, 0, currentStock(t, productID))
}

func TestGoodsReceived_UntrackedTakesLedgerPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	st := suite.SetupStore(t, context.Background())
	ctx := st.Context(context.Background())
	svc := newServices()
	productID := suite.Fixtures.CreateProduct(t, st.ID, testutil.ProductFixture{CurrentStock: 5})

	err := svc.receiving.GoodsReceived(ctx, goodsLine(st.ID, productID, 10, nil))
	require.NoError(t, err)
	assert.Equal(t, 15, currentStock(t, productID))
}

// --- Expiring report ---

func TestExpiringProducts_GroupsByProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx, productID, svc := setupTracked(t, context.Background())
	createBatch(t, ctx, svc, productID, 5, 3*24*time.Hour)
	createBatch(t, ctx, svc, productID, 7, 5*24*time.Hour)
	createBatch(t, ctx, svc, productID, 9, 90*24*time.Hour) // outside window

	report, err := svc.reports.ExpiringProducts(ctx, 7, false)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, productID, report[0].ProductID)
	assert.Equal(t, 12, report[0].TotalQuantity)
	require.Len(t, report[0].Batches, 2)
	assert.LessOrEqual(t,
		report[0].Batches[0].ExpirationDate.Unix(),
		report[0].Batches[1].ExpirationDate.Unix())
}

func goodsLine(storeID, productID string, qty int, expiration *time.Time) messaging.OrderLineReceivedEvent {
	return messaging.OrderLineReceivedEvent{
		StoreID:             storeID,
		PurchaseOrderID:     "33333333-3333-3333-3333-333333333333",
		PurchaseOrderItemID: "44444444-4444-4444-4444-444444444444",
		OrderNumber:         "PO-1001",
		ProductID:           productID,
		Quantity:            qty,
		UnitCost:            "3.75",
		ExpirationDate:      expiration,
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/internal/inventory/events"
	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// CreateBatchInput are the fields for a new batch. MovementType
// defaults to ADJUSTMENT; goods receipt passes PURCHASE.
type CreateBatchInput struct {
	ProductID           string
	BatchNumber         *string
	ExpirationDate      time.Time
	InitialQuantity     int
	UnitCost            decimal.Decimal
	PurchaseOrderID     *string
	PurchaseOrderItemID *string
	MovementType        repository.MovementType
	Reference           *string
	PerformedBy         *string
}

// AdjustBatchInput is a partial batch update. CurrentQuantity, when
// set, produces a ledger entry for the delta; the other fields are
// metadata-only.
type AdjustBatchInput struct {
	Patch           repository.BatchPatch
	CurrentQuantity *int
	Reason          *string
	PerformedBy     *string
}

// BatchService owns the batch lifecycle and the aggregate-stock
// reconciliation that every batch mutation ends with
type BatchService struct {
	db          *database.DB
	productRepo *repository.ProductRepository
	batchRepo   *repository.BatchRepository
	moveRepo    *repository.MovementRepository
	batchMoves  *repository.BatchMovementRepository
	publisher   *events.Publisher
	logger      *logger.Logger
}

// NewBatchService creates a new batch service
func NewBatchService(
	db *database.DB,
	productRepo *repository.ProductRepository,
	batchRepo *repository.BatchRepository,
	moveRepo *repository.MovementRepository,
	batchMoves *repository.BatchMovementRepository,
	publisher *events.Publisher,
	log *logger.Logger,
) *BatchService {
	return &BatchService{
		db:          db,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		moveRepo:    moveRepo,
		batchMoves:  batchMoves,
		publisher:   publisher,
		logger:      log.WithComponent("batch"),
	}
}

// CreateBatch creates a batch for an expiration-tracked product. The
// batch, its inflow ledger entries and the aggregate update commit
// atomically.
func (s *BatchService) CreateBatch(ctx context.Context, input CreateBatchInput) (*repository.ProductBatch, error) {
	if input.InitialQuantity <= 0 {
		return nil, ErrInvalidQuantity("initial quantity must be positive")
	}
	if input.ExpirationDate.IsZero() {
		return nil, ErrInvalidInput("expiration date is required")
	}
	movementType := input.MovementType
	if movementType == "" {
		movementType = repository.MovementAdjustment
	}

	var (
		batch   *repository.ProductBatch
		product *repository.Product
	)
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		product, err = s.productRepo.GetForUpdateTx(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.TrackExpirationDates {
			return ErrProductNotTracked(product.ID)
		}

		batch = &repository.ProductBatch{
			ProductID:           product.ID,
			BatchNumber:         input.BatchNumber,
			ExpirationDate:      input.ExpirationDate,
			InitialQuantity:     input.InitialQuantity,
			CurrentQuantity:     input.InitialQuantity,
			UnitCost:            input.UnitCost,
			PurchaseOrderID:     input.PurchaseOrderID,
			PurchaseOrderItemID: input.PurchaseOrderItemID,
		}
		if err := s.batchRepo.CreateTx(ctx, tx, batch); err != nil {
			return err
		}

		notes := batchNotes("Batch created", batch)
		movement := &repository.StockMovement{
			ProductID:   product.ID,
			Type:        movementType,
			Quantity:    input.InitialQuantity,
			UnitPrice:   &input.UnitCost,
			Notes:       &notes,
			Reference:   input.Reference,
			PerformedBy: input.PerformedBy,
		}
		if err := s.moveRepo.InsertTx(ctx, tx, movement); err != nil {
			return err
		}
		if err := s.batchMoves.InsertTx(ctx, tx, &repository.BatchStockMovement{
			BatchID:         batch.ID,
			ProductID:       product.ID,
			StockMovementID: &movement.ID,
			Type:            movementType,
			Quantity:        input.InitialQuantity,
			UnitPrice:       &input.UnitCost,
			Notes:           &notes,
			PerformedBy:     input.PerformedBy,
		}); err != nil {
			return err
		}

		product.CurrentStock, err = s.reconcileTx(ctx, tx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("batch_id", batch.ID).
		Str("product_id", product.ID).
		Int("quantity", batch.InitialQuantity).
		Time("expiration_date", batch.ExpirationDate).
		Msg("batch created")

	storeID := store.MustStoreID(ctx)
	s.publisher.BatchCreated(ctx, messaging.BatchCreatedEvent{
		StoreID:         storeID,
		BatchID:         batch.ID,
		ProductID:       product.ID,
		BatchNumber:     strOrEmpty(batch.BatchNumber),
		ExpirationDate:  batch.ExpirationDate,
		InitialQuantity: batch.InitialQuantity,
		PurchaseOrderID: strOrEmpty(batch.PurchaseOrderID),
	})
	s.publisher.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		StoreID:      storeID,
		ProductID:    product.ID,
		MovementType: string(movementType),
		Quantity:     batch.InitialQuantity,
		CurrentStock: product.CurrentStock,
		PerformedBy:  strOrEmpty(input.PerformedBy),
	})

	return batch, nil
}

// GetBatch returns a single batch
func (s *BatchService) GetBatch(ctx context.Context, batchID string) (*repository.ProductBatch, error) {
	return s.batchRepo.GetByID(ctx, batchID)
}

// ListBatches lists a product's batches. The product must exist and
// track expiration dates; listing batches of an untracked product is
// a caller error, not an empty result.
func (s *BatchService) ListBatches(ctx context.Context, productID string, filter repository.BatchFilter) ([]*repository.ProductBatch, int64, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if !product.TrackExpirationDates {
		return nil, 0, ErrProductNotTracked(product.ID)
	}
	return s.batchRepo.ListByProduct(ctx, productID, filter)
}

// ListBatchMovements returns the audit trail of one batch
func (s *BatchService) ListBatchMovements(ctx context.Context, batchID string) ([]*repository.BatchStockMovement, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.batchMoves.ListByBatch(ctx, batchID)
}

// AdjustBatch patches a batch. A quantity change writes ledger entries
// for the signed delta and reconciles the aggregate; metadata changes
// touch only the batch row.
func (s *BatchService) AdjustBatch(ctx context.Context, batchID string, input AdjustBatchInput) (*repository.ProductBatch, error) {
	if input.CurrentQuantity != nil && *input.CurrentQuantity < 0 {
		return nil, ErrInvalidQuantity("current quantity cannot be negative")
	}
	if input.Patch.IsZero() && input.CurrentQuantity == nil {
		return nil, ErrInvalidInput("nothing to adjust")
	}

	// Unlocked peek to learn the owning product. All stock paths lock
	// product before batch; a batch never moves between products, so
	// the peek cannot go stale in a way that matters.
	peek, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	var (
		batch        *repository.ProductBatch
		delta        int
		currentStock int
	)
	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.productRepo.GetForUpdateTx(ctx, tx, peek.ProductID); err != nil {
			return err
		}
		var err error
		batch, err = s.batchRepo.GetForUpdateTx(ctx, tx, batchID)
		if err != nil {
			return err
		}

		if err := s.batchRepo.ApplyPatchTx(ctx, tx, batch.ID, input.Patch); err != nil {
			return err
		}
		if input.Patch.BatchNumber != nil {
			batch.BatchNumber = input.Patch.BatchNumber
		}
		if input.Patch.ExpirationDate != nil {
			batch.ExpirationDate = *input.Patch.ExpirationDate
		}
		if input.Patch.UnitCost != nil {
			batch.UnitCost = *input.Patch.UnitCost
		}

		if input.CurrentQuantity != nil {
			delta = *input.CurrentQuantity - batch.CurrentQuantity
			if delta != 0 {
				if err := s.batchRepo.SetQuantityTx(ctx, tx, batch.ID, *input.CurrentQuantity); err != nil {
					return err
				}
				batch.CurrentQuantity = *input.CurrentQuantity

				notes := input.Reason
				if notes == nil {
					n := batchNotes("Batch quantity adjusted", batch)
					notes = &n
				}
				movement := &repository.StockMovement{
					ProductID:   batch.ProductID,
					Type:        repository.MovementAdjustment,
					Quantity:    delta,
					Notes:       notes,
					PerformedBy: input.PerformedBy,
				}
				if err := s.moveRepo.InsertTx(ctx, tx, movement); err != nil {
					return err
				}
				if err := s.batchMoves.InsertTx(ctx, tx, &repository.BatchStockMovement{
					BatchID:         batch.ID,
					ProductID:       batch.ProductID,
					StockMovementID: &movement.ID,
					Type:            repository.MovementAdjustment,
					Quantity:        delta,
					Notes:           notes,
					PerformedBy:     input.PerformedBy,
				}); err != nil {
					return err
				}
			}
		}

		currentStock, err = s.reconcileTx(ctx, tx, batch.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		s.publisher.StockAdjusted(ctx, messaging.StockAdjustedEvent{
			StoreID:      store.MustStoreID(ctx),
			ProductID:    batch.ProductID,
			MovementType: string(repository.MovementAdjustment),
			Quantity:     delta,
			CurrentStock: currentStock,
			PerformedBy:  strOrEmpty(input.PerformedBy),
		})
		if delta < 0 {
			s.notifyIfLowStock(ctx, batch.ProductID)
		}
	}
	return batch, nil
}

// DeleteBatch removes a batch. Only empty batches may go; a batch with
// remaining stock must be adjusted to zero first so the ledger explains
// where the stock went.
func (s *BatchService) DeleteBatch(ctx context.Context, batchID string) error {
	peek, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	productID := peek.ProductID

	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.productRepo.GetForUpdateTx(ctx, tx, productID); err != nil {
			return err
		}
		batch, err := s.batchRepo.GetForUpdateTx(ctx, tx, batchID)
		if err != nil {
			return err
		}
		if batch.CurrentQuantity > 0 {
			return ErrBatchNotEmpty(batch.ID, batch.CurrentQuantity)
		}
		if err := s.batchRepo.DeleteTx(ctx, tx, batch.ID); err != nil {
			return err
		}
		_, err = s.reconcileTx(ctx, tx, productID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("batch_id", batchID).Str("product_id", productID).Msg("batch deleted")
	s.publisher.BatchDeleted(ctx, messaging.BatchDeletedEvent{
		StoreID:   store.MustStoreID(ctx),
		BatchID:   batchID,
		ProductID: productID,
	})
	return nil
}

// Reconcile recomputes a product's aggregate from its batches. The
// normal paths reconcile inline; this entry point repairs drift after
// manual intervention.
func (s *BatchService) Reconcile(ctx context.Context, productID string) (int, error) {
	var stock int
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.productRepo.GetForUpdateTx(ctx, tx, productID); err != nil {
			return err
		}
		var err error
		stock, err = s.reconcileTx(ctx, tx, productID)
		return err
	})
	return stock, err
}

// reconcileTx sets current_stock to the sum of batch quantities. It is
// idempotent and skips the write when the aggregate already matches.
// An error here must abort the whole transaction: committing batch
// changes without the aggregate update corrupts the invariant.
func (s *BatchService) reconcileTx(ctx context.Context, tx *sqlx.Tx, productID string) (int, error) {
	sum, err := s.batchRepo.SumQuantitiesTx(ctx, tx, productID)
	if err != nil {
		return 0, fmt.Errorf("reconcile %s: sum batches: %w", productID, err)
	}
	product, err := s.productRepo.GetForUpdateTx(ctx, tx, productID)
	if err != nil {
		return 0, fmt.Errorf("reconcile %s: %w", productID, err)
	}
	if product.CurrentStock == sum {
		return sum, nil
	}
	if err := s.productRepo.SetCurrentStockTx(ctx, tx, productID, sum); err != nil {
		return 0, fmt.Errorf("reconcile %s: write aggregate: %w", productID, err)
	}
	return sum, nil
}

// applyAllocationTx drains batches per an allocation plan and writes
// the ledger entries for it. The guarded decrement catches plans built
// in an earlier transaction whose batches have since moved.
func (s *BatchService) applyAllocationTx(ctx context.Context, tx *sqlx.Tx, movement *repository.StockMovement, allocations []BatchAllocation) error {
	if err := s.moveRepo.InsertTx(ctx, tx, movement); err != nil {
		return err
	}
	for _, alloc := range allocations {
		ok, err := s.batchRepo.DecrementQuantityTx(ctx, tx, alloc.BatchID, alloc.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrencyConflict(alloc.BatchID)
		}
		if err := s.batchMoves.InsertTx(ctx, tx, &repository.BatchStockMovement{
			BatchID:         alloc.BatchID,
			ProductID:       movement.ProductID,
			StockMovementID: &movement.ID,
			Type:            movement.Type,
			Quantity:        -alloc.Quantity,
			UnitPrice:       movement.UnitPrice,
			Notes:           movement.Notes,
			PerformedBy:     movement.PerformedBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

// notifyIfLowStock publishes a low-stock event when the product sits
// below its configured minimum
func (s *BatchService) notifyIfLowStock(ctx context.Context, productID string) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("low stock check failed")
		return
	}
	if product.MinStockLevel <= 0 || product.CurrentStock >= product.MinStockLevel {
		return
	}
	s.publisher.LowStock(ctx, messaging.LowStockEvent{
		StoreID:       product.StoreID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		CurrentStock:  product.CurrentStock,
		MinStockLevel: product.MinStockLevel,
	})
}

func batchNotes(prefix string, batch *repository.ProductBatch) string {
	if batch.BatchNumber != nil && *batch.BatchNumber != "" {
		return fmt.Sprintf("%s: %s", prefix, *batch.BatchNumber)
	}
	return fmt.Sprintf("%s: %s", prefix, batch.ID)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/internal/inventory/events"
	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// RecordMovementInput describes one ledger entry to record. Quantity
// is signed; zero is rejected.
type RecordMovementInput struct {
	ProductID      string
	Type           repository.MovementType
	Quantity       int
	UnitPrice      *decimal.Decimal
	Notes          *string
	Reference      *string
	PerformedBy    *string
	IncludeExpired bool
}

// TrackingToggleResult reports a bulk expiration-tracking change.
// ProductsRequiringBatches lists newly tracked products that still
// carry untracked stock; their owners must enter batches manually
// before that stock can be allocated.
type TrackingToggleResult struct {
	UpdatedCount             int64             `json:"updated_count"`
	ProductsRequiringBatches []ProductStockRef `json:"products_requiring_batches,omitempty"`
}

// ProductStockRef identifies a product and its aggregate stock
type ProductStockRef struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
}

// StockService owns the movement ledger and routes each movement down
// the untracked (aggregate-only) or tracked (FEFO batch) path
type StockService struct {
	db          *database.DB
	productRepo *repository.ProductRepository
	moveRepo    *repository.MovementRepository
	fefo        *FEFOService
	batches     *BatchService
	publisher   *events.Publisher
	logger      *logger.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	db *database.DB,
	productRepo *repository.ProductRepository,
	moveRepo *repository.MovementRepository,
	fefo *FEFOService,
	batches *BatchService,
	publisher *events.Publisher,
	log *logger.Logger,
) *StockService {
	return &StockService{
		db:          db,
		productRepo: productRepo,
		moveRepo:    moveRepo,
		fefo:        fefo,
		batches:     batches,
		publisher:   publisher,
		logger:      log.WithComponent("stock"),
	}
}

// RecordMovement appends a ledger entry and applies its effect on
// stock. Untracked products move the aggregate directly; tracked
// products drain batches FEFO for outflows and refuse ledger inflows
// outright, because new tracked stock needs an expiration date.
func (s *StockService) RecordMovement(ctx context.Context, input RecordMovementInput) (*repository.StockMovement, error) {
	if input.Quantity == 0 {
		return nil, ErrInvalidQuantity("movement quantity cannot be zero")
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidInput("unknown movement type")
	}

	var (
		movement     *repository.StockMovement
		currentStock int
	)
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		product, err := s.productRepo.GetForUpdateTx(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}

		movement = &repository.StockMovement{
			ProductID:   product.ID,
			Type:        input.Type,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Notes:       input.Notes,
			Reference:   input.Reference,
			PerformedBy: input.PerformedBy,
		}

		if product.TrackExpirationDates {
			if input.Quantity > 0 {
				return ErrTrackedProductRequiresBatch(product.ID)
			}
			currentStock, err = s.recordTrackedOutflowTx(ctx, tx, movement, input.IncludeExpired)
			return err
		}

		if product.CurrentStock+input.Quantity < 0 {
			return ErrInsufficientStock(product.CurrentStock, -input.Quantity)
		}
		currentStock, err = s.productRepo.IncrementStockTx(ctx, tx, product.ID, input.Quantity)
		if err != nil {
			return err
		}
		return s.moveRepo.InsertTx(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("movement_id", movement.ID).
		Str("product_id", movement.ProductID).
		Str("movement_type", string(movement.Type)).
		Int("quantity", movement.Quantity).
		Int("current_stock", currentStock).
		Msg("stock movement recorded")

	s.publisher.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		StoreID:      store.MustStoreID(ctx),
		ProductID:    movement.ProductID,
		MovementID:   movement.ID,
		MovementType: string(movement.Type),
		Quantity:     movement.Quantity,
		CurrentStock: currentStock,
		PerformedBy:  strOrEmpty(movement.PerformedBy),
	})
	if movement.Quantity < 0 {
		s.batches.notifyIfLowStock(ctx, movement.ProductID)
	}

	return movement, nil
}

// recordTrackedOutflowTx plans a FEFO allocation for the outflow and
// applies it, batches and aggregate in the same transaction
func (s *StockService) recordTrackedOutflowTx(ctx context.Context, tx *sqlx.Tx, movement *repository.StockMovement, includeExpired bool) (int, error) {
	allocations, err := s.fefo.SelectBatchesForQuantityTx(ctx, tx, movement.ProductID, -movement.Quantity, includeExpired)
	if err != nil {
		return 0, err
	}
	if err := s.batches.applyAllocationTx(ctx, tx, movement, allocations); err != nil {
		return 0, err
	}
	return s.batches.reconcileTx(ctx, tx, movement.ProductID)
}

// Allocate applies a FEFO outflow for the given quantity and records
// it under the given movement type. This is the committed counterpart
// of the allocation preview.
func (s *StockService) Allocate(ctx context.Context, productID string, quantity int, movementType repository.MovementType, includeExpired bool, performedBy *string) ([]BatchAllocation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity("allocation quantity must be positive")
	}
	if movementType == "" {
		movementType = repository.MovementSale
	}

	var (
		allocations  []BatchAllocation
		currentStock int
		movement     *repository.StockMovement
	)
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		product, err := s.productRepo.GetForUpdateTx(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !product.TrackExpirationDates {
			return ErrProductNotTracked(product.ID)
		}

		allocations, err = s.fefo.SelectBatchesForQuantityTx(ctx, tx, productID, quantity, includeExpired)
		if err != nil {
			return err
		}

		movement = &repository.StockMovement{
			ProductID:   productID,
			Type:        movementType,
			Quantity:    -quantity,
			PerformedBy: performedBy,
		}
		if err := s.batches.applyAllocationTx(ctx, tx, movement, allocations); err != nil {
			return err
		}
		currentStock, err = s.batches.reconcileTx(ctx, tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		StoreID:      store.MustStoreID(ctx),
		ProductID:    productID,
		MovementID:   movement.ID,
		MovementType: string(movementType),
		Quantity:     -quantity,
		CurrentStock: currentStock,
		PerformedBy:  strOrEmpty(performedBy),
	})
	s.batches.notifyIfLowStock(ctx, productID)

	return allocations, nil
}

// ListMovements lists ledger entries
func (s *StockService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*repository.StockMovement, error) {
	return s.moveRepo.List(ctx, filter)
}

// ListProducts lists the store's active products with their aggregate
// stock, for the stock overview screen
func (s *StockService) ListProducts(ctx context.Context, page, perPage int) ([]*repository.Product, int64, error) {
	return s.productRepo.List(ctx, page, perPage)
}

// SetExpirationTracking toggles expiration tracking for a set of
// products. Enabling tracking does not invent batches: products that
// already hold stock are reported back so batches can be entered
// manually, and until then their stock cannot be allocated.
func (s *StockService) SetExpirationTracking(ctx context.Context, productIDs []string, enabled bool) (*TrackingToggleResult, error) {
	if len(productIDs) == 0 {
		return nil, ErrInvalidInput("at least one product is required")
	}

	result := &TrackingToggleResult{}
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		products, err := s.productRepo.ListByIDsTx(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return apperrNotFoundProducts(productIDs, products)
		}

		if enabled {
			for _, p := range products {
				if !p.TrackExpirationDates && p.CurrentStock > 0 {
					result.ProductsRequiringBatches = append(result.ProductsRequiringBatches, ProductStockRef{
						ProductID:    p.ID,
						Name:         p.Name,
						CurrentStock: p.CurrentStock,
					})
				}
			}
		}

		result.UpdatedCount, err = s.productRepo.SetExpirationTrackingTx(ctx, tx, productIDs, enabled)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("products", len(productIDs)).
		Bool("enabled", enabled).
		Int("requiring_batches", len(result.ProductsRequiringBatches)).
		Msg("expiration tracking toggled")

	s.publisher.TrackingToggled(ctx, messaging.TrackingToggledEvent{
		StoreID:    store.MustStoreID(ctx),
		ProductIDs: productIDs,
		Enabled:    enabled,
	})

	return result, nil
}

package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/logger"
)

// BatchAllocation is one slice of an allocation plan: take Quantity
// units from BatchID. A plan covers the requested quantity exactly.
type BatchAllocation struct {
	BatchID        string    `json:"batch_id"`
	BatchNumber    *string   `json:"batch_number,omitempty"`
	Quantity       int       `json:"quantity"`
	ExpirationDate time.Time `json:"expiration_date"`
	IsExpired      bool      `json:"is_expired"`
	RemainingInLot int       `json:"remaining_in_lot"`
}

// FEFOService plans stock allocations first-expired-first-out
type FEFOService struct {
	db        *database.DB
	batchRepo *repository.BatchRepository
	logger    *logger.Logger
}

// NewFEFOService creates a new FEFO service
func NewFEFOService(db *database.DB, batchRepo *repository.BatchRepository, log *logger.Logger) *FEFOService {
	return &FEFOService{
		db:        db,
		batchRepo: batchRepo,
		logger:    log.WithComponent("fefo"),
	}
}

// allocate walks batches in the order given (soonest-expiring first)
// and drains each one before touching the next. It returns the plan and
// the total available; when available < requested the plan is nil.
func allocate(batches []*repository.ProductBatch, requested int, now time.Time) ([]BatchAllocation, int) {
	available := 0
	for _, b := range batches {
		available += b.CurrentQuantity
	}
	if available < requested {
		return nil, available
	}

	allocations := make([]BatchAllocation, 0, len(batches))
	remaining := requested
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		take := b.CurrentQuantity
		if take > remaining {
			take = remaining
		}
		allocations = append(allocations, BatchAllocation{
			BatchID:        b.ID,
			BatchNumber:    b.BatchNumber,
			Quantity:       take,
			ExpirationDate: b.ExpirationDate,
			IsExpired:      b.IsExpired(now),
			RemainingInLot: b.CurrentQuantity - take,
		})
		remaining -= take
	}
	return allocations, available
}

// SelectBatchesForQuantityTx builds an allocation plan under row locks.
// The caller applies the plan in the same transaction, so selection and
// application cannot interleave with other writers.
//
// On shortfall the error distinguishes whether counting expired batches
// would have covered the request.
func (s *FEFOService) SelectBatchesForQuantityTx(ctx context.Context, tx *sqlx.Tx, productID string, quantity int, includeExpired bool) ([]BatchAllocation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity("allocation quantity must be positive")
	}
	now := time.Now().UTC()

	batches, err := s.batchRepo.ListForAllocationTx(ctx, tx, productID, includeExpired, now)
	if err != nil {
		return nil, err
	}

	allocations, available := allocate(batches, quantity, now)
	if allocations == nil {
		if !includeExpired {
			expired, err := s.batchRepo.SumExpiredTx(ctx, tx, productID, now)
			if err != nil {
				return nil, err
			}
			if available+expired >= quantity {
				return nil, ErrInsufficientCurrentStock(available, quantity, expired)
			}
		}
		return nil, ErrInsufficientStock(available, quantity)
	}

	s.logger.Debug().
		Str("product_id", productID).
		Int("quantity", quantity).
		Int("batches", len(allocations)).
		Bool("include_expired", includeExpired).
		Msg("allocation plan built")

	return allocations, nil
}

// SelectBatchesForQuantity is the read-only preview variant. The plan
// it returns is advisory: applying it later may hit a concurrency
// conflict if stock moves in between.
func (s *FEFOService) SelectBatchesForQuantity(ctx context.Context, productID string, quantity int, includeExpired bool) ([]BatchAllocation, error) {
	var allocations []BatchAllocation
	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		allocations, err = s.SelectBatchesForQuantityTx(ctx, tx, productID, quantity, includeExpired)
		return err
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// HasAvailableStock reports whether an allocation of the given quantity
// would succeed right now
func (s *FEFOService) HasAvailableStock(ctx context.Context, productID string, quantity int, includeExpired bool) (bool, error) {
	_, err := s.SelectBatchesForQuantity(ctx, productID, quantity, includeExpired)
	if err != nil {
		switch ErrorCode(err) {
		case CodeInsufficientStock, CodeInsufficientCurrentStock:
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NextExpiringBatch returns the soonest-expiring batch that still
// holds stock, expired batches included, or nil when the product has
// no stock at all
func (s *FEFOService) NextExpiringBatch(ctx context.Context, productID string) (*repository.ProductBatch, error) {
	return s.batchRepo.NextExpiring(ctx, productID)
}

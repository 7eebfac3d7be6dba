package service

import (
	"context"
	"time"

	"github.com/shopstock/shopstock-backend/internal/inventory/events"
	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// AlertScanner sweeps a store's inventory and publishes alert events
// for conditions the synchronous paths cannot see, like batches aging
// into their expiry window with no stock movement at all.
type AlertScanner struct {
	productRepo *repository.ProductRepository
	batchRepo   *repository.BatchRepository
	publisher   *events.Publisher
	expiryDays  int
	logger      *logger.Logger
}

// NewAlertScanner creates a new alert scanner. expiryDays is the
// warning window for expiring batches.
func NewAlertScanner(
	productRepo *repository.ProductRepository,
	batchRepo *repository.BatchRepository,
	publisher *events.Publisher,
	expiryDays int,
	log *logger.Logger,
) *AlertScanner {
	if expiryDays < 1 {
		expiryDays = 30
	}
	return &AlertScanner{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		publisher:   publisher,
		expiryDays:  expiryDays,
		logger:      log.WithComponent("alerts"),
	}
}

// ScanStore runs all scans for the store in the context. Scan errors
// are logged and do not stop the remaining scans.
func (s *AlertScanner) ScanStore(ctx context.Context) error {
	var lastErr error
	if err := s.scanLowStock(ctx); err != nil {
		s.logger.Error().Err(err).Msg("low stock scan failed")
		lastErr = err
	}
	if err := s.scanExpiring(ctx); err != nil {
		s.logger.Error().Err(err).Msg("expiry scan failed")
		lastErr = err
	}
	return lastErr
}

func (s *AlertScanner) scanLowStock(ctx context.Context) error {
	products, err := s.productRepo.ListBelowMinStock(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		s.publisher.LowStock(ctx, messaging.LowStockEvent{
			StoreID:       p.StoreID,
			ProductID:     p.ID,
			ProductName:   p.Name,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
		})
	}
	return nil
}

func (s *AlertScanner) scanExpiring(ctx context.Context) error {
	storeID := store.MustStoreID(ctx)
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, s.expiryDays)

	batches, err := s.batchRepo.ListExpiring(ctx, cutoff, false)
	if err != nil {
		return err
	}
	for _, b := range batches {
		s.publisher.BatchExpiring(ctx, messaging.BatchExpiringEvent{
			StoreID:         storeID,
			BatchID:         b.ID,
			ProductID:       b.ProductID,
			BatchNumber:     strOrEmpty(b.BatchNumber),
			ExpirationDate:  b.ExpirationDate,
			CurrentQuantity: b.CurrentQuantity,
			DaysUntilExpiry: int(b.ExpirationDate.Sub(now).Hours() / 24),
		})
	}
	return nil
}

// AlertScheduler runs alert scans periodically for every active store
type AlertScheduler struct {
	scanner  *AlertScanner
	db       *database.DB
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewAlertScheduler creates a new alert scheduler
func NewAlertScheduler(scanner *AlertScanner, db *database.DB, interval time.Duration, log *logger.Logger) *AlertScheduler {
	return &AlertScheduler{
		scanner:  scanner,
		db:       db,
		interval: interval,
		logger:   log.WithComponent("alert-scheduler"),
	}
}

// Start starts the scheduler in a background goroutine
func (s *AlertScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("alert scheduler started")

		s.runScanCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("alert scheduler stopped")
				return
			case <-ticker.C:
				s.runScanCycle(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *AlertScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AlertScheduler) runScanCycle(ctx context.Context) {
	start := time.Now()

	storeIDs, err := s.getActiveStoreIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query active stores")
		return
	}

	for _, storeID := range storeIDs {
		storeCtx := store.WithStoreID(ctx, storeID)
		if err := s.scanner.ScanStore(storeCtx); err != nil {
			s.logger.Error().Err(err).Str("store_id", storeID).Msg("alert scan failed for store")
		}
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Int("store_count", len(storeIDs)).
		Msg("alert scan cycle completed")
}

func (s *AlertScheduler) getActiveStoreIDs(ctx context.Context) ([]string, error) {
	var storeIDs []string
	query := `SELECT id FROM stores WHERE is_active = TRUE`
	if err := s.db.SelectContext(ctx, &storeIDs, query); err != nil {
		return nil, err
	}
	return storeIDs, nil
}

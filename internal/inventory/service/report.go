package service

import (
	"context"
	"time"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/logger"
)

// ExpiringBatchEntry is one batch in the expiring-products report
type ExpiringBatchEntry struct {
	BatchID             string    `json:"batch_id"`
	BatchNumber         *string   `json:"batch_number,omitempty"`
	ExpirationDate      time.Time `json:"expiration_date"`
	CurrentQuantity     int       `json:"current_quantity"`
	DaysUntilExpiration int       `json:"days_until_expiration"`
	IsExpired           bool      `json:"is_expired"`
}

// ExpiringProduct groups a product's expiring batches for the report
type ExpiringProduct struct {
	ProductID     string               `json:"product_id"`
	ProductName   string               `json:"product_name"`
	ProductSKU    *string              `json:"product_sku,omitempty"`
	TotalQuantity int                  `json:"total_quantity"`
	Batches       []ExpiringBatchEntry `json:"batches"`
}

// ReportService builds read-only inventory reports
type ReportService struct {
	batchRepo *repository.BatchRepository
	logger    *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(batchRepo *repository.BatchRepository, log *logger.Logger) *ReportService {
	return &ReportService{
		batchRepo: batchRepo,
		logger:    log.WithComponent("report"),
	}
}

// ExpiringProducts lists products with stock expiring within the next
// days, soonest batch first. With onlyExpired, the report narrows to
// stock already past its date.
func (s *ReportService) ExpiringProducts(ctx context.Context, days int, onlyExpired bool) ([]*ExpiringProduct, error) {
	if days < 1 {
		days = 30
	}
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, days)

	batches, err := s.batchRepo.ListExpiring(ctx, cutoff, onlyExpired)
	if err != nil {
		return nil, err
	}

	// Batches arrive ordered by expiration date, so products appear in
	// order of their most urgent batch.
	var report []*ExpiringProduct
	index := make(map[string]*ExpiringProduct)
	for _, b := range batches {
		entry, ok := index[b.ProductID]
		if !ok {
			entry = &ExpiringProduct{
				ProductID:   b.ProductID,
				ProductName: b.ProductName,
				ProductSKU:  b.ProductSKU,
			}
			index[b.ProductID] = entry
			report = append(report, entry)
		}
		days := int(time.Until(b.ExpirationDate).Hours() / 24)
		entry.TotalQuantity += b.CurrentQuantity
		entry.Batches = append(entry.Batches, ExpiringBatchEntry{
			BatchID:             b.ID,
			BatchNumber:         b.BatchNumber,
			ExpirationDate:      b.ExpirationDate,
			CurrentQuantity:     b.CurrentQuantity,
			DaysUntilExpiration: days,
			IsExpired:           b.ExpirationDate.Before(now),
		})
	}
	return report, nil
}

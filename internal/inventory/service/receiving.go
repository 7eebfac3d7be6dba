package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/pkg/actor"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
)

// ReceivingService turns goods-received notifications from purchasing
// into stock. The purchase-order workflow itself lives in the
// purchasing service; this is only its landing point.
type ReceivingService struct {
	productRepo *repository.ProductRepository
	batches     *BatchService
	stock       *StockService
	logger      *logger.Logger
}

// NewReceivingService creates a new receiving service
func NewReceivingService(
	productRepo *repository.ProductRepository,
	batches *BatchService,
	stock *StockService,
	log *logger.Logger,
) *ReceivingService {
	return &ReceivingService{
		productRepo: productRepo,
		batches:     batches,
		stock:       stock,
		logger:      log.WithComponent("receiving"),
	}
}

// GoodsReceived books a received purchase-order line into stock.
// Tracked products become a batch carrying the line's expiration date
// and provenance; untracked products take a plain PURCHASE movement.
// A tracked line without an expiration date is a purchasing data error
// and is rejected rather than booked untracked.
func (s *ReceivingService) GoodsReceived(ctx context.Context, line messaging.OrderLineReceivedEvent) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity("received quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		return err
	}

	unitCost, err := decimal.NewFromString(line.UnitCost)
	if err != nil {
		return ErrInvalidInput(fmt.Sprintf("invalid unit cost %q", line.UnitCost))
	}

	reference := fmt.Sprintf("PO %s", line.OrderNumber)
	receivedBy := line.ReceivedBy
	if receivedBy == "" {
		receivedBy = actor.SystemActor("purchasing", line.StoreID).UserID()
	}
	performedBy := &receivedBy

	if product.TrackExpirationDates {
		if line.ExpirationDate == nil {
			return ErrInvalidInput("expiration date is required for tracked products")
		}
		var batchNumber *string
		if line.BatchNumber != "" {
			batchNumber = &line.BatchNumber
		}
		_, err := s.batches.CreateBatch(ctx, CreateBatchInput{
			ProductID:           product.ID,
			BatchNumber:         batchNumber,
			ExpirationDate:      *line.ExpirationDate,
			InitialQuantity:     line.Quantity,
			UnitCost:            unitCost,
			PurchaseOrderID:     &line.PurchaseOrderID,
			PurchaseOrderItemID: &line.PurchaseOrderItemID,
			MovementType:        repository.MovementPurchase,
			Reference:           &reference,
			PerformedBy:         performedBy,
		})
		return err
	}

	_, err = s.stock.RecordMovement(ctx, RecordMovementInput{
		ProductID:   product.ID,
		Type:        repository.MovementPurchase,
		Quantity:    line.Quantity,
		UnitPrice:   &unitCost,
		Reference:   &reference,
		PerformedBy: performedBy,
	})
	return err
}

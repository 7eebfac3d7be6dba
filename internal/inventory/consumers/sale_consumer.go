package consumers

import (
	"context"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/actor"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// SaleConsumer consumes completed sales from the POS and decrements
// stock line by line. Checkout itself stays in the POS; only the stock
// effect lands here.
type SaleConsumer struct {
	consumer *messaging.Consumer
	stock    *service.StockService
	logger   *logger.Logger
}

// NewSaleConsumer creates a new sale consumer
func NewSaleConsumer(rmq *messaging.RabbitMQ, stock *service.StockService, log *logger.Logger) (*SaleConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "inventory-service.pos-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangePosEvents, "pos.sale.#"); err != nil {
		return nil, err
	}

	c := &SaleConsumer{
		consumer: consumer,
		stock:    stock,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventSaleCompleted, c.handleSaleCompleted)

	return c, nil
}

// Start starts consuming messages
func (c *SaleConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *SaleConsumer) handleSaleCompleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.SaleCompletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("sale_id", data.SaleID).
		Int("lines", len(data.Lines)).
		Msg("received sale completed event")

	ctx = store.WithStoreID(ctx, data.StoreID)

	performedBy := data.UserID
	if performedBy == "" {
		performedBy = actor.SystemActor("pos-consumer", data.StoreID).UserID()
	}
	reference := "Sale " + data.SaleID

	// Each line is its own movement. Returning an error requeues the
	// whole sale, so lines before the failing one repeat on retry;
	// the reference keeps the duplicates traceable.
	for _, line := range data.Lines {
		_, err := c.stock.RecordMovement(ctx, service.RecordMovementInput{
			ProductID:   line.ProductID,
			Type:        repository.MovementSale,
			Quantity:    -line.Quantity,
			Reference:   &reference,
			PerformedBy: &performedBy,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

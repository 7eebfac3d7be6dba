package consumers

import (
	"context"

	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// PurchaseOrderConsumer consumes purchasing events and books received
// goods into stock
type PurchaseOrderConsumer struct {
	consumer  *messaging.Consumer
	receiving *service.ReceivingService
	logger    *logger.Logger
}

// NewPurchaseOrderConsumer creates a new purchase order consumer
func NewPurchaseOrderConsumer(rmq *messaging.RabbitMQ, receiving *service.ReceivingService, log *logger.Logger) (*PurchaseOrderConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "inventory-service.purchasing-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangePurchasingEvents, "purchasing.order.#"); err != nil {
		return nil, err
	}

	c := &PurchaseOrderConsumer{
		consumer:  consumer,
		receiving: receiving,
		logger:    log,
	}

	consumer.RegisterHandler(messaging.EventOrderLineReceived, c.handleLineReceived)

	return c, nil
}

// Start starts consuming messages
func (c *PurchaseOrderConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *PurchaseOrderConsumer) handleLineReceived(ctx context.Context, event *messaging.Event) error {
	var data messaging.OrderLineReceivedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("purchase_order_id", data.PurchaseOrderID).
		Str("product_id", data.ProductID).
		Int("quantity", data.Quantity).
		Msg("received order line received event")

	// Events carry their own store scope; there is no HTTP middleware
	// on this path.
	ctx = store.WithStoreID(ctx, data.StoreID)

	return c.receiving.GoodsReceived(ctx, data)
}

package events

import (
	"context"

	"github.com/shopstock/shopstock-backend/pkg/logger"
	"github.com/shopstock/shopstock-backend/pkg/messaging"
)

// Publisher publishes inventory events. A nil Publisher is valid and
// drops everything, so services run unchanged without RabbitMQ.
type Publisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewPublisher creates an inventory event publisher
func NewPublisher(pub *messaging.Publisher, log *logger.Logger) *Publisher {
	return &Publisher{
		publisher: pub,
		logger:    log.WithComponent("events"),
	}
}

func (p *Publisher) publish(ctx context.Context, eventType string, data interface{}) {
	if p == nil || p.publisher == nil {
		return
	}
	// Events are emitted after the transaction commits. A publish
	// failure must not fail the already-committed operation.
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// StockAdjusted announces a change to a product's aggregate stock
func (p *Publisher) StockAdjusted(ctx context.Context, event messaging.StockAdjustedEvent) {
	p.publish(ctx, messaging.EventStockAdjusted, event)
}

// BatchCreated announces a new batch
func (p *Publisher) BatchCreated(ctx context.Context, event messaging.BatchCreatedEvent) {
	p.publish(ctx, messaging.EventBatchCreated, event)
}

// BatchDeleted announces the removal of an empty batch
func (p *Publisher) BatchDeleted(ctx context.Context, event messaging.BatchDeletedEvent) {
	p.publish(ctx, messaging.EventBatchDeleted, event)
}

// BatchExpiring announces a batch nearing expiry
func (p *Publisher) BatchExpiring(ctx context.Context, event messaging.BatchExpiringEvent) {
	p.publish(ctx, messaging.EventBatchExpiring, event)
}

// LowStock announces a product falling below its minimum stock level
func (p *Publisher) LowStock(ctx context.Context, event messaging.LowStockEvent) {
	p.publish(ctx, messaging.EventLowStock, event)
}

// TrackingToggled announces an expiration-tracking toggle
func (p *Publisher) TrackingToggled(ctx context.Context, event messaging.TrackingToggledEvent) {
	p.publish(ctx, messaging.EventTrackingToggled, event)
}

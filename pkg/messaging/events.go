package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Inventory events
	EventStockAdjusted    = "inventory.stock.adjusted"
	EventBatchCreated     = "inventory.batch.created"
	EventBatchDeleted     = "inventory.batch.deleted"
	EventBatchExpiring    = "inventory.batch.expiring"
	EventLowStock         = "inventory.stock.low"
	EventTrackingToggled  = "inventory.tracking.toggled"

	// Purchasing events (consumed by the inventory service)
	EventOrderLineReceived = "purchasing.order.line_received"
	EventOrderCancelled    = "purchasing.order.cancelled"

	// POS events (consumed by the inventory service)
	EventSaleCompleted = "pos.sale.completed"
)

// Exchange names
const (
	ExchangeInventoryEvents  = "inventory.events"
	ExchangePurchasingEvents = "purchasing.events"
	ExchangePosEvents        = "pos.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Inventory events

// StockAdjustedEvent is published whenever a product's aggregate stock changes.
// Quantity is the signed net delta applied by the movement or allocation.
type StockAdjustedEvent struct {
	StoreID      string `json:"store_id"`
	ProductID    string `json:"product_id"`
	MovementID   string `json:"movement_id,omitempty"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	CurrentStock int    `json:"current_stock"`
	PerformedBy  string `json:"performed_by,omitempty"`
}

// BatchCreatedEvent is published when a new batch enters the batch store
type BatchCreatedEvent struct {
	StoreID         string    `json:"store_id"`
	BatchID         string    `json:"batch_id"`
	ProductID       string    `json:"product_id"`
	BatchNumber     string    `json:"batch_number,omitempty"`
	ExpirationDate  time.Time `json:"expiration_date"`
	InitialQuantity int       `json:"initial_quantity"`
	PurchaseOrderID string    `json:"purchase_order_id,omitempty"`
}

// BatchDeletedEvent is published when an empty batch is removed
type BatchDeletedEvent struct {
	StoreID   string `json:"store_id"`
	BatchID   string `json:"batch_id"`
	ProductID string `json:"product_id"`
}

// BatchExpiringEvent is published for batches nearing their expiration date
type BatchExpiringEvent struct {
	StoreID         string    `json:"store_id"`
	BatchID         string    `json:"batch_id"`
	ProductID       string    `json:"product_id"`
	BatchNumber     string    `json:"batch_number,omitempty"`
	ExpirationDate  time.Time `json:"expiration_date"`
	CurrentQuantity int       `json:"current_quantity"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
}

// LowStockEvent is published when a product's aggregate stock falls below
// its configured minimum level
type LowStockEvent struct {
	StoreID       string `json:"store_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
}

// TrackingToggledEvent is published when expiration tracking is switched
// on or off for a set of products
type TrackingToggledEvent struct {
	StoreID    string   `json:"store_id"`
	ProductIDs []string `json:"product_ids"`
	Enabled    bool     `json:"enabled"`
}

// Purchasing events

// OrderLineReceivedEvent is published by the purchasing service when goods
// for a purchase-order line arrive. For expiration-tracked products the
// inventory service turns this into a new batch.
type OrderLineReceivedEvent struct {
	StoreID             string     `json:"store_id"`
	PurchaseOrderID     string     `json:"purchase_order_id"`
	PurchaseOrderItemID string     `json:"purchase_order_item_id"`
	OrderNumber         string     `json:"order_number"`
	ProductID           string     `json:"product_id"`
	Quantity            int        `json:"quantity"`
	UnitCost            string     `json:"unit_cost"`
	ExpirationDate      *time.Time `json:"expiration_date,omitempty"`
	BatchNumber         string     `json:"batch_number,omitempty"`
	ReceivedBy          string     `json:"received_by,omitempty"`
}

// POS events

// SaleCompletedEvent is published by the POS when a checkout commits.
// Each line decrements stock through the ledger (and FEFO for tracked products).
type SaleCompletedEvent struct {
	StoreID string     `json:"store_id"`
	SaleID  string     `json:"sale_id"`
	UserID  string     `json:"user_id,omitempty"`
	Lines   []SaleLine `json:"lines"`
}

// SaleLine is a single product line of a completed sale
type SaleLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price,omitempty"`
}

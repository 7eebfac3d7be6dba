package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FixtureFactory seeds inventory rows for integration tests. It writes
// through raw SQL so fixtures do not depend on the code under test.
type FixtureFactory struct {
	db *sqlx.DB
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory(db *sqlx.DB) *FixtureFactory {
	return &FixtureFactory{db: db}
}

// ProductFixture configures a product fixture
type ProductFixture struct {
	Name          string
	SKU           string
	CurrentStock  int
	MinStockLevel int
	Tracked       bool
}

// CreateProduct inserts a product and returns its ID
func (f *FixtureFactory) CreateProduct(t *testing.T, storeID string, fx ProductFixture) string {
	t.Helper()

	id := uuid.New().String()
	if fx.Name == "" {
		fx.Name = "Product " + id[:8]
	}
	sku := fx.SKU
	if sku == "" {
		sku = "SKU-" + id[:8]
	}

	_, err := f.db.Exec(`
		INSERT INTO products (id, store_id, name, sku, current_stock, min_stock_level, track_expiration_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, storeID, fx.Name, sku, fx.CurrentStock, fx.MinStockLevel, fx.Tracked,
	)
	if err != nil {
		t.Fatalf("failed to create product fixture: %v", err)
	}
	return id
}

// CreateTrackedProduct inserts an expiration-tracked product with no
// stock; batches supply the stock
func (f *FixtureFactory) CreateTrackedProduct(t *testing.T, storeID, name string) string {
	return f.CreateProduct(t, storeID, ProductFixture{Name: name, Tracked: true})
}

// BatchFixture configures a batch fixture
type BatchFixture struct {
	BatchNumber     string
	ExpiresIn       time.Duration
	InitialQuantity int
	CurrentQuantity int
	UnitCost        string
}

// CreateBatch inserts a batch and returns its ID. It does not touch
// the product aggregate; tests that need the invariant to hold seed it
// explicitly or call reconciliation.
func (f *FixtureFactory) CreateBatch(t *testing.T, productID string, fx BatchFixture) string {
	t.Helper()

	id := uuid.New().String()
	if fx.InitialQuantity == 0 {
		fx.InitialQuantity = fx.CurrentQuantity
	}
	if fx.InitialQuantity == 0 {
		fx.InitialQuantity = 1
	}
	if fx.UnitCost == "" {
		fx.UnitCost = "1.00"
	}
	var batchNumber *string
	if fx.BatchNumber != "" {
		batchNumber = &fx.BatchNumber
	}

	_, err := f.db.Exec(`
		INSERT INTO product_batches (id, product_id, batch_number, expiration_date, initial_quantity, current_quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, productID, batchNumber, time.Now().UTC().Add(fx.ExpiresIn),
		fx.InitialQuantity, fx.CurrentQuantity, fx.UnitCost,
	)
	if err != nil {
		t.Fatalf("failed to create batch fixture: %v", err)
	}
	return id
}

// SetCurrentStock overwrites a product's aggregate directly
func (f *FixtureFactory) SetCurrentStock(t *testing.T, productID string, stock int) {
	t.Helper()
	if _, err := f.db.Exec(`UPDATE products SET current_stock = $2 WHERE id = $1`, productID, stock); err != nil {
		t.Fatalf("failed to set current stock: %v", err)
	}
}

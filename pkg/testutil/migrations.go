package testutil

// InventorySchema is the inventory service schema used by integration
// tests. It mirrors the production migrations: named CHECK constraints
// are load-bearing because pkg/database maps their violations to
// domain errors.
const InventorySchema = `
	CREATE TABLE IF NOT EXISTS stores (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(100) UNIQUE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		store_id UUID NOT NULL REFERENCES stores(id),
		name VARCHAR(255) NOT NULL,
		sku VARCHAR(100),
		current_stock INTEGER NOT NULL DEFAULT 0,
		min_stock_level INTEGER NOT NULL DEFAULT 0,
		track_expiration_dates BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT current_stock_non_negative CHECK (current_stock >= 0),
		CONSTRAINT sku_unique_per_store UNIQUE (store_id, sku)
	);

	CREATE TABLE IF NOT EXISTS product_batches (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		batch_number VARCHAR(100),
		expiration_date TIMESTAMPTZ NOT NULL,
		initial_quantity INTEGER NOT NULL,
		current_quantity INTEGER NOT NULL,
		unit_cost DECIMAL(12,2) NOT NULL DEFAULT 0,
		purchase_order_id UUID,
		purchase_order_item_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT initial_quantity_positive CHECK (initial_quantity > 0),
		CONSTRAINT current_quantity_non_negative CHECK (current_quantity >= 0)
	);

	CREATE INDEX IF NOT EXISTS idx_batches_product_expiration
		ON product_batches (product_id, expiration_date, created_at);

	CREATE TABLE IF NOT EXISTS stock_movements (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		movement_type VARCHAR(20) NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DECIMAL(12,2),
		notes TEXT,
		reference VARCHAR(255),
		performed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT movement_type_valid CHECK (
			movement_type IN ('PURCHASE', 'SALE', 'ADJUSTMENT', 'RETURN', 'DAMAGE')
		)
	);

	CREATE INDEX IF NOT EXISTS idx_movements_product_created
		ON stock_movements (product_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS batch_stock_movements (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		batch_id UUID NOT NULL,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		stock_movement_id UUID REFERENCES stock_movements(id),
		movement_type VARCHAR(20) NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DECIMAL(12,2),
		notes TEXT,
		performed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT batch_movement_type_valid CHECK (
			movement_type IN ('PURCHASE', 'SALE', 'ADJUSTMENT', 'RETURN', 'DAMAGE')
		)
	);

	CREATE INDEX IF NOT EXISTS idx_batch_movements_batch
		ON batch_stock_movements (batch_id, created_at DESC);
`

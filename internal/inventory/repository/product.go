package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/errors"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// Product represents a sellable product. CurrentStock is denormalized:
// for expiration-tracked products it always equals the sum of the
// product's batch quantities and is only ever written by reconciliation.
type Product struct {
	ID                   string    `db:"id" json:"id"`
	StoreID              string    `db:"store_id" json:"store_id"`
	Name                 string    `db:"name" json:"name"`
	SKU                  *string   `db:"sku" json:"sku,omitempty"`
	CurrentStock         int       `db:"current_stock" json:"current_stock"`
	MinStockLevel        int       `db:"min_stock_level" json:"min_stock_level"`
	TrackExpirationDates bool      `db:"track_expiration_dates" json:"track_expiration_dates"`
	IsActive             bool      `db:"is_active" json:"is_active"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// ProductRepository handles product persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product scoped to the store in the context
func (r *ProductRepository) Create(ctx context.Context, product *Product) error {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.StoreID = storeID

	query := `
		INSERT INTO products (
			id, store_id, name, sku, current_stock, min_stock_level,
			track_expiration_dates, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowxContext(ctx, query,
		product.ID, product.StoreID, product.Name, product.SKU,
		product.CurrentStock, product.MinStockLevel,
		product.TrackExpirationDates, product.IsActive,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// GetByID gets a product by ID. Products of other stores are reported
// as not found, never as forbidden.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var product Product
	query := `SELECT * FROM products WHERE id = $1 AND store_id = $2`
	if err := r.db.GetContext(ctx, &product, query, id, storeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, err
	}
	return &product, nil
}

// GetForUpdateTx loads a product with a row lock. Every stock mutation
// locks the product first so concurrent movements on the same product
// serialize at the aggregate.
func (r *ProductRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (*Product, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var product Product
	query := `SELECT * FROM products WHERE id = $1 AND store_id = $2 FOR UPDATE`
	if err := tx.GetContext(ctx, &product, query, id, storeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDsTx loads a set of products by ID inside a transaction.
// Missing or cross-store IDs are simply absent from the result.
func (r *ProductRepository) ListByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []string) ([]*Product, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM products WHERE id IN (?) AND store_id = ? FOR UPDATE`,
		ids, storeID,
	)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var products []*Product
	if err := tx.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

// List lists active products for the store
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]*Product, int64, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products WHERE store_id = $1 AND is_active = true`
	if err := r.db.GetContext(ctx, &total, countQuery, storeID); err != nil {
		return nil, 0, err
	}

	var products []*Product
	query := `
		SELECT * FROM products
		WHERE store_id = $1 AND is_active = true
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &products, query, storeID, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// SetCurrentStockTx overwrites the denormalized aggregate. Only the
// reconciliation step may call this.
func (r *ProductRepository) SetCurrentStockTx(ctx context.Context, tx *sqlx.Tx, productID string, stock int) error {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE products SET current_stock = $3, updated_at = NOW()
		WHERE id = $1 AND store_id = $2
	`
	result, err := tx.ExecContext(ctx, query, productID, storeID, stock)
	if err != nil {
		return database.WrapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("product")
	}
	return nil
}

// IncrementStockTx applies a signed delta to the aggregate of an
// untracked product. The WHERE guard keeps the aggregate from going
// negative under concurrent decrements; zero rows means the stock moved
// underneath the caller.
func (r *ProductRepository) IncrementStockTx(ctx context.Context, tx *sqlx.Tx, productID string, delta int) (int, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return 0, err
	}

	var newStock int
	query := `
		UPDATE products SET current_stock = current_stock + $3, updated_at = NOW()
		WHERE id = $1 AND store_id = $2 AND current_stock + $3 >= 0
		RETURNING current_stock
	`
	err = tx.QueryRowxContext(ctx, query, productID, storeID, delta).Scan(&newStock)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, errors.Conflict("stock level changed concurrently")
		}
		return 0, database.WrapError(err)
	}
	return newStock, nil
}

// SetExpirationTrackingTx toggles expiration tracking for a set of
// products and returns the number of rows changed
func (r *ProductRepository) SetExpirationTrackingTx(ctx context.Context, tx *sqlx.Tx, productIDs []string, enabled bool) (int64, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return 0, err
	}
	if len(productIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`UPDATE products SET track_expiration_dates = ?, updated_at = NOW()
		 WHERE id IN (?) AND store_id = ?`,
		enabled, productIDs, storeID,
	)
	if err != nil {
		return 0, err
	}
	query = tx.Rebind(query)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, database.WrapError(err)
	}
	return result.RowsAffected()
}

// ListBelowMinStock lists active products whose aggregate has fallen
// below their configured minimum
func (r *ProductRepository) ListBelowMinStock(ctx context.Context) ([]*Product, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var products []*Product
	query := `
		SELECT * FROM products
		WHERE store_id = $1 AND is_active = true
		  AND min_stock_level > 0 AND current_stock < min_stock_level
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &products, query, storeID); err != nil {
		return nil, err
	}
	return products, nil
}

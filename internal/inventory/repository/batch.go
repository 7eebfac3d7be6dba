package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/errors"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// ProductBatch is a physical lot of a tracked product. InitialQuantity
// is immutable after creation; CurrentQuantity only ever moves through
// guarded updates so it cannot go negative.
type ProductBatch struct {
	ID                  string          `db:"id" json:"id"`
	ProductID           string          `db:"product_id" json:"product_id"`
	BatchNumber         *string         `db:"batch_number" json:"batch_number,omitempty"`
	ExpirationDate      time.Time       `db:"expiration_date" json:"expiration_date"`
	InitialQuantity     int             `db:"initial_quantity" json:"initial_quantity"`
	CurrentQuantity     int             `db:"current_quantity" json:"current_quantity"`
	UnitCost            decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	PurchaseOrderID     *string         `db:"purchase_order_id" json:"purchase_order_id,omitempty"`
	PurchaseOrderItemID *string         `db:"purchase_order_item_id" json:"purchase_order_item_id,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// IsExpired reports whether the batch has expired as of now
func (b *ProductBatch) IsExpired(now time.Time) bool {
	return b.ExpirationDate.Before(now)
}

// BatchSortField is a sortable batch column
type BatchSortField string

// SortOrder is a sort direction
type SortOrder string

const (
	SortByExpirationDate  BatchSortField = "expiration_date"
	SortByCreatedAt       BatchSortField = "created_at"
	SortByCurrentQuantity BatchSortField = "current_quantity"

	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

func (f BatchSortField) column() string {
	switch f {
	case SortByCreatedAt, SortByCurrentQuantity:
		return string(f)
	default:
		return string(SortByExpirationDate)
	}
}

func (o SortOrder) direction() string {
	if o == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// BatchFilter narrows and pages a batch listing. ShowExpired and
// ExpiringInDays combine: with both set, the window is expiration_date
// < now+N days with no lower bound; with only ExpiringInDays, the
// window is [now, now+N days); with only ShowExpired, everything.
type BatchFilter struct {
	ShowExpired    bool
	ExpiringInDays int
	Page           int
	PerPage        int
	SortBy         BatchSortField
	SortOrder      SortOrder
}

func (f BatchFilter) normalize() BatchFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	return f
}

// whereClause builds the expiry window predicate starting at argument
// position pos. It returns the SQL fragment and its bind arguments.
func (f BatchFilter) whereClause(now time.Time, pos int) (string, []interface{}) {
	switch {
	case f.ExpiringInDays > 0 && f.ShowExpired:
		return fmt.Sprintf(" AND b.expiration_date < $%d", pos),
			[]interface{}{now.AddDate(0, 0, f.ExpiringInDays)}
	case f.ExpiringInDays > 0:
		return fmt.Sprintf(" AND b.expiration_date >= $%d AND b.expiration_date < $%d", pos, pos+1),
			[]interface{}{now, now.AddDate(0, 0, f.ExpiringInDays)}
	case f.ShowExpired:
		return "", nil
	default:
		return fmt.Sprintf(" AND b.expiration_date >= $%d", pos), []interface{}{now}
	}
}

// BatchPatch is a partial batch update. Nil fields are left untouched.
// CurrentQuantity changes go through the service so the movement ledger
// and the aggregate stay consistent.
type BatchPatch struct {
	BatchNumber    *string          `json:"batch_number,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
}

// IsZero reports whether the patch changes nothing
func (p BatchPatch) IsZero() bool {
	return p.BatchNumber == nil && p.ExpirationDate == nil && p.UnitCost == nil
}

// BatchRepository handles batch persistence. Batches carry no store_id
// column; every query scopes through the owning product's store.
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// CreateTx inserts a new batch
func (r *BatchRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, batch *ProductBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	query := `
		INSERT INTO product_batches (
			id, product_id, batch_number, expiration_date, initial_quantity,
			current_quantity, unit_cost, purchase_order_id, purchase_order_item_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query,
		batch.ID, batch.ProductID, batch.BatchNumber, batch.ExpirationDate,
		batch.InitialQuantity, batch.CurrentQuantity, batch.UnitCost,
		batch.PurchaseOrderID, batch.PurchaseOrderItemID,
	).Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// GetByID gets a batch by ID, scoped to the store in the context
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*ProductBatch, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var batch ProductBatch
	query := `
		SELECT b.* FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.id = $1 AND p.store_id = $2
	`
	if err := r.db.GetContext(ctx, &batch, query, id, storeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, err
	}
	return &batch, nil
}

// GetForUpdateTx loads a batch with a row lock
func (r *BatchRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (*ProductBatch, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var batch ProductBatch
	query := `
		SELECT b.* FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.id = $1 AND p.store_id = $2
		FOR UPDATE OF b
	`
	if err := tx.GetContext(ctx, &batch, query, id, storeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, err
	}
	return &batch, nil
}

// ListByProduct lists batches for a product with the filter applied,
// returning the page and the total count for the same window
func (r *BatchRepository) ListByProduct(ctx context.Context, productID string, filter BatchFilter) ([]*ProductBatch, int64, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter = filter.normalize()
	now := time.Now().UTC()

	where, whereArgs := filter.whereClause(now, 3)
	base := `
		FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.product_id = $1 AND p.store_id = $2` + where

	args := append([]interface{}{productID, storeID}, whereArgs...)

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT b.* %s ORDER BY b.%s %s, b.created_at ASC LIMIT $%d OFFSET $%d",
		base, filter.SortBy.column(), filter.SortOrder.direction(),
		len(args)+1, len(args)+2,
	)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	var batches []*ProductBatch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// ListForAllocationTx loads the FEFO candidate set under row locks:
// non-empty batches ordered soonest-expiring first, creation order as
// the tiebreaker. With includeExpired false, batches already expired at
// now are excluded.
func (r *BatchRepository) ListForAllocationTx(ctx context.Context, tx *sqlx.Tx, productID string, includeExpired bool, now time.Time) ([]*ProductBatch, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT b.* FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.product_id = $1 AND p.store_id = $2 AND b.current_quantity > 0
	`
	args := []interface{}{productID, storeID}
	if !includeExpired {
		query += ` AND b.expiration_date >= $3`
		args = append(args, now)
	}
	query += ` ORDER BY b.expiration_date ASC, b.created_at ASC FOR UPDATE OF b`

	var batches []*ProductBatch
	if err := tx.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, err
	}
	return batches, nil
}

// SumQuantitiesTx sums current quantities across all of a product's
// batches. This is the reconciliation source of truth.
func (r *BatchRepository) SumQuantitiesTx(ctx context.Context, tx *sqlx.Tx, productID string) (int, error) {
	var sum int
	query := `
		SELECT COALESCE(SUM(current_quantity), 0)
		FROM product_batches WHERE product_id = $1
	`
	if err := tx.GetContext(ctx, &sum, query, productID); err != nil {
		return 0, err
	}
	return sum, nil
}

// SumExpiredTx sums remaining stock sitting in expired batches
func (r *BatchRepository) SumExpiredTx(ctx context.Context, tx *sqlx.Tx, productID string, now time.Time) (int, error) {
	var sum int
	query := `
		SELECT COALESCE(SUM(current_quantity), 0)
		FROM product_batches
		WHERE product_id = $1 AND expiration_date < $2
	`
	if err := tx.GetContext(ctx, &sum, query, productID, now); err != nil {
		return 0, err
	}
	return sum, nil
}

// DecrementQuantityTx decrements a batch by qty. The guard refuses the
// update when the batch no longer holds qty units; zero rows affected
// means the caller's view of the batch is stale.
func (r *BatchRepository) DecrementQuantityTx(ctx context.Context, tx *sqlx.Tx, batchID string, qty int) (bool, error) {
	query := `
		UPDATE product_batches
		SET current_quantity = current_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND current_quantity >= $2
	`
	result, err := tx.ExecContext(ctx, query, batchID, qty)
	if err != nil {
		return false, database.WrapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// SetQuantityTx overwrites a batch's current quantity
func (r *BatchRepository) SetQuantityTx(ctx context.Context, tx *sqlx.Tx, batchID string, qty int) error {
	query := `
		UPDATE product_batches
		SET current_quantity = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, batchID, qty)
	if err != nil {
		return database.WrapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("batch")
	}
	return nil
}

// ApplyPatchTx applies the non-nil fields of a patch
func (r *BatchRepository) ApplyPatchTx(ctx context.Context, tx *sqlx.Tx, batchID string, patch BatchPatch) error {
	if patch.IsZero() {
		return nil
	}

	set := "updated_at = NOW()"
	args := []interface{}{batchID}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	if patch.BatchNumber != nil {
		add("batch_number", *patch.BatchNumber)
	}
	if patch.ExpirationDate != nil {
		add("expiration_date", *patch.ExpirationDate)
	}
	if patch.UnitCost != nil {
		add("unit_cost", *patch.UnitCost)
	}

	query := fmt.Sprintf("UPDATE product_batches SET %s WHERE id = $1", set)
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return database.WrapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("batch")
	}
	return nil
}

// DeleteTx removes a batch row. The caller has already verified it is
// empty; the guard here is the last line of defense.
func (r *BatchRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, batchID string) error {
	query := `DELETE FROM product_batches WHERE id = $1 AND current_quantity = 0`
	result, err := tx.ExecContext(ctx, query, batchID)
	if err != nil {
		return database.WrapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Conflict("batch is not empty or no longer exists")
	}
	return nil
}

// NextExpiring returns the soonest-expiring non-empty batch for a
// product, or nil when there is none. Expired batches count: stock
// that has already expired is still the most urgent stock there is.
func (r *BatchRepository) NextExpiring(ctx context.Context, productID string) (*ProductBatch, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var batch ProductBatch
	query := `
		SELECT b.* FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.product_id = $1 AND p.store_id = $2
		  AND b.current_quantity > 0
		ORDER BY b.expiration_date ASC, b.created_at ASC
		LIMIT 1
	`
	err = r.db.GetContext(ctx, &batch, query, productID, storeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// ExpiringBatch is a batch row joined with its product for reporting
type ExpiringBatch struct {
	ProductBatch
	ProductName          string  `db:"product_name" json:"product_name"`
	ProductSKU           *string `db:"product_sku" json:"product_sku,omitempty"`
	TrackExpirationDates bool    `db:"track_expiration_dates" json:"-"`
}

// ListExpiring lists non-empty batches expiring before the cutoff
// (including already-expired ones when onlyExpired is false, or only
// those when true), joined with product identity for reporting
func (r *BatchRepository) ListExpiring(ctx context.Context, cutoff time.Time, onlyExpired bool) ([]*ExpiringBatch, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT b.*, p.name AS product_name, p.sku AS product_sku,
		       p.track_expiration_dates
		FROM product_batches b
		JOIN products p ON p.id = b.product_id
		WHERE p.store_id = $1 AND b.current_quantity > 0
		  AND b.expiration_date < $2
	`
	args := []interface{}{storeID, cutoff}
	if onlyExpired {
		query += ` AND b.expiration_date < $3`
		args = append(args, time.Now().UTC())
	}
	query += ` ORDER BY b.expiration_date ASC, b.created_at ASC`

	var batches []*ExpiringBatch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, err
	}
	return batches, nil
}

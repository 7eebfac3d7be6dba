package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// BatchStockMovement records which batch a ledger entry touched and by
// how much. One aggregate movement may fan out across several batches
// when FEFO spans lots.
type BatchStockMovement struct {
	ID              string           `db:"id" json:"id"`
	BatchID         string           `db:"batch_id" json:"batch_id"`
	ProductID       string           `db:"product_id" json:"product_id"`
	StockMovementID *string          `db:"stock_movement_id" json:"stock_movement_id,omitempty"`
	Type            MovementType     `db:"movement_type" json:"movement_type"`
	Quantity        int              `db:"quantity" json:"quantity"`
	UnitPrice       *decimal.Decimal `db:"unit_price" json:"unit_price,omitempty"`
	Notes           *string          `db:"notes" json:"notes,omitempty"`
	PerformedBy     *string          `db:"performed_by" json:"performed_by,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// BatchMovementRepository handles the per-batch audit trail.
// Append-only, like the stock ledger it annotates.
type BatchMovementRepository struct {
	db *database.DB
}

// NewBatchMovementRepository creates a new batch movement repository
func NewBatchMovementRepository(db *database.DB) *BatchMovementRepository {
	return &BatchMovementRepository{db: db}
}

// InsertTx appends a batch movement
func (r *BatchMovementRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, m *BatchStockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO batch_stock_movements (
			id, batch_id, product_id, stock_movement_id, movement_type,
			quantity, unit_price, notes, performed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := tx.QueryRowxContext(ctx, query,
		m.ID, m.BatchID, m.ProductID, m.StockMovementID, m.Type,
		m.Quantity, m.UnitPrice, m.Notes, m.PerformedBy,
	).Scan(&m.CreatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// ListByBatch lists the audit trail of one batch, newest first
func (r *BatchMovementRepository) ListByBatch(ctx context.Context, batchID string) ([]*BatchStockMovement, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}

	var movements []*BatchStockMovement
	query := `
		SELECT m.* FROM batch_stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.batch_id = $1 AND p.store_id = $2
		ORDER BY m.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &movements, query, batchID, storeID); err != nil {
		return nil, err
	}
	return movements, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/pkg/database"
	"github.com/shopstock/shopstock-backend/pkg/store"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
	MovementDamage     MovementType = "DAMAGE"
)

// Valid reports whether the movement type is a known one
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementDamage:
		return true
	}
	return false
}

// StockMovement is one entry in the append-only stock ledger. Quantity
// is signed: positive for inflow, negative for outflow.
type StockMovement struct {
	ID          string           `db:"id" json:"id"`
	ProductID   string           `db:"product_id" json:"product_id"`
	Type        MovementType     `db:"movement_type" json:"movement_type"`
	Quantity    int              `db:"quantity" json:"quantity"`
	UnitPrice   *decimal.Decimal `db:"unit_price" json:"unit_price,omitempty"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	Reference   *string          `db:"reference" json:"reference,omitempty"`
	PerformedBy *string          `db:"performed_by" json:"performed_by,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// MovementFilter narrows a ledger listing
type MovementFilter struct {
	ProductID string
	Type      MovementType
	Limit     int
}

// MovementRepository handles the stock ledger. The ledger is
// append-only: there are deliberately no update or delete methods.
type MovementRepository struct {
	db *database.DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *database.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// InsertTx appends a movement to the ledger
func (r *MovementRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, m *StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stock_movements (
			id, product_id, movement_type, quantity, unit_price,
			notes, reference, performed_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := tx.QueryRowxContext(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.UnitPrice,
		m.Notes, m.Reference, m.PerformedBy,
	).Scan(&m.CreatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// List lists ledger entries newest first
func (r *MovementRepository) List(ctx context.Context, filter MovementFilter) ([]*StockMovement, error) {
	storeID, err := store.StoreID(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}

	query := `
		SELECT m.* FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.store_id = $1
	`
	args := []interface{}{storeID}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND m.product_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND m.movement_type = $%d", len(args))
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d", len(args))

	var movements []*StockMovement
	if err := r.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, err
	}
	return movements, nil
}

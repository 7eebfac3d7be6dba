package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/httputil"
	"github.com/shopstock/shopstock-backend/pkg/logger"
)

// MovementHandler handles the stock ledger endpoints
type MovementHandler struct {
	stock  *service.StockService
	logger *logger.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(stock *service.StockService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{
		stock:  stock,
		logger: log,
	}
}

type recordMovementRequest struct {
	ProductID      string           `json:"product_id" validate:"required,uuid"`
	Type           string           `json:"movement_type" validate:"required"`
	Quantity       int              `json:"quantity" validate:"required"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	Notes          *string          `json:"notes"`
	Reference      *string          `json:"reference"`
	IncludeExpired bool             `json:"include_expired"`
}

// Record appends a movement to the ledger and applies its stock effect
func (h *MovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordMovementRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	movement, err := h.stock.RecordMovement(r.Context(), service.RecordMovementInput{
		ProductID:      req.ProductID,
		Type:           repository.MovementType(req.Type),
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		Notes:          req.Notes,
		Reference:      req.Reference,
		PerformedBy:    performedByFromContext(r),
		IncludeExpired: req.IncludeExpired,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, movement)
}

// List lists ledger entries, optionally filtered by product and type
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.MovementFilter{
		ProductID: q.Get("product_id"),
		Type:      repository.MovementType(q.Get("movement_type")),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	movements, err := h.stock.ListMovements(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, movements)
}

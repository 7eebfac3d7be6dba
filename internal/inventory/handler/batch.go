package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/actor"
	"github.com/shopstock/shopstock-backend/pkg/httputil"
	"github.com/shopstock/shopstock-backend/pkg/logger"
)

// BatchHandler handles batch endpoints
type BatchHandler struct {
	batches *service.BatchService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batches *service.BatchService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		batches: batches,
		logger:  log,
	}
}

type createBatchRequest struct {
	BatchNumber     *string         `json:"batch_number"`
	ExpirationDate  time.Time       `json:"expiration_date" validate:"required"`
	InitialQuantity int             `json:"initial_quantity" validate:"required,gt=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	PurchaseOrderID *string         `json:"purchase_order_id"`
}

type adjustBatchRequest struct {
	BatchNumber     *string          `json:"batch_number"`
	ExpirationDate  *time.Time       `json:"expiration_date"`
	CurrentQuantity *int             `json:"current_quantity" validate:"omitempty,gte=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Reason          *string          `json:"reason"`
}

// ListByProduct lists a product's batches with the expiry filter
// applied from query parameters
func (h *BatchHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	filter := batchFilterFromQuery(r)

	batches, total, err := h.batches.ListBatches(r.Context(), productID, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, batches, &httputil.Meta{
		Page:    filter.Page,
		PerPage: filter.PerPage,
		Total:   total,
	})
}

// Get gets a batch by ID
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	batch, err := h.batches.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, batch)
}

// Movements lists the audit trail of a batch
func (h *BatchHandler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.batches.ListBatchMovements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, movements)
}

// Create creates a batch for a product
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var req createBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	performedBy := performedByFromContext(r)
	batch, err := h.batches.CreateBatch(r.Context(), service.CreateBatchInput{
		ProductID:       productID,
		BatchNumber:     req.BatchNumber,
		ExpirationDate:  req.ExpirationDate,
		InitialQuantity: req.InitialQuantity,
		UnitCost:        req.UnitCost,
		PurchaseOrderID: req.PurchaseOrderID,
		PerformedBy:     performedBy,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, batch)
}

// Adjust patches a batch
func (h *BatchHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req adjustBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	batch, err := h.batches.AdjustBatch(r.Context(), id, service.AdjustBatchInput{
		Patch: repository.BatchPatch{
			BatchNumber:    req.BatchNumber,
			ExpirationDate: req.ExpirationDate,
			UnitCost:       req.UnitCost,
		},
		CurrentQuantity: req.CurrentQuantity,
		Reason:          req.Reason,
		PerformedBy:     performedByFromContext(r),
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Delete deletes an empty batch
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.batches.DeleteBatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// Reconcile recomputes a product's aggregate from its batches
func (h *BatchHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	stock, err := h.batches.Reconcile(r.Context(), productID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"product_id":    productID,
		"current_stock": stock,
	})
}

func batchFilterFromQuery(r *http.Request) repository.BatchFilter {
	q := r.URL.Query()
	filter := repository.BatchFilter{
		ShowExpired: q.Get("show_expired") == "true",
		SortOrder:   repository.SortAsc,
	}
	if days, err := strconv.Atoi(q.Get("expiring_in_days")); err == nil && days > 0 {
		filter.ExpiringInDays = days
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		filter.PerPage = perPage
	}
	switch q.Get("sort_by") {
	case "created_at":
		filter.SortBy = repository.SortByCreatedAt
	case "current_quantity":
		filter.SortBy = repository.SortByCurrentQuantity
	default:
		filter.SortBy = repository.SortByExpirationDate
	}
	if q.Get("sort_order") == "desc" {
		filter.SortOrder = repository.SortDesc
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	return filter
}

func performedByFromContext(r *http.Request) *string {
	if id := actor.FromContext(r.Context()).UserID(); id != "" {
		return &id
	}
	return nil
}

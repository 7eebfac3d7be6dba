package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	"github.com/shopstock/shopstock-backend/internal/inventory/service"
	"github.com/shopstock/shopstock-backend/pkg/httputil"
	"github.com/shopstock/shopstock-backend/pkg/logger"
)

// ProductHandler handles product-level stock endpoints: allocation,
// tracking toggles and the expiring report
type ProductHandler struct {
	stock   *service.StockService
	fefo    *service.FEFOService
	reports *service.ReportService
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(stock *service.StockService, fefo *service.FEFOService, reports *service.ReportService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		stock:   stock,
		fefo:    fefo,
		reports: reports,
		logger:  log,
	}
}

// List returns the store's active products with their aggregate stock
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	products, total, err := h.stock.ListProducts(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, products, &httputil.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

type allocateRequest struct {
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	IncludeExpired bool   `json:"include_expired"`
	MovementType   string `json:"movement_type"`
	Preview        bool   `json:"preview"`
}

type toggleTrackingRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,uuid"`
	Enabled    *bool    `json:"enabled" validate:"required"`
}

// Allocate plans a FEFO allocation for a product. With preview set the
// plan is returned without touching stock; otherwise it is applied and
// recorded in the ledger.
func (h *ProductHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var req allocateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	var (
		allocations []service.BatchAllocation
		err         error
	)
	if req.Preview {
		allocations, err = h.fefo.SelectBatchesForQuantity(r.Context(), productID, req.Quantity, req.IncludeExpired)
	} else {
		allocations, err = h.stock.Allocate(r.Context(), productID, req.Quantity,
			repository.MovementType(req.MovementType), req.IncludeExpired, performedByFromContext(r))
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, allocations)
}

// NextExpiring returns the batch FEFO would drain next for a product
func (h *ProductHandler) NextExpiring(w http.ResponseWriter, r *http.Request) {
	batch, err := h.fefo.NextExpiringBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, batch)
}

// ToggleTracking switches expiration tracking on or off for a set of
// products
func (h *ProductHandler) ToggleTracking(w http.ResponseWriter, r *http.Request) {
	var req toggleTrackingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.stock.SetExpirationTracking(r.Context(), req.ProductIDs, *req.Enabled)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// ExpiringReport lists products with stock expiring soon
func (h *ProductHandler) ExpiringReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := 30
	if d, err := strconv.Atoi(q.Get("days")); err == nil && d > 0 {
		days = d
	}
	onlyExpired := q.Get("only_expired") == "true"

	report, err := h.reports.ExpiringProducts(r.Context(), days, onlyExpired)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

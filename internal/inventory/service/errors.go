package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopstock/shopstock-backend/internal/inventory/repository"
	apperrors "github.com/shopstock/shopstock-backend/pkg/errors"
)

// Error codes for the stock domain. Handlers pass these through
// unchanged so API clients can branch on them.
const (
	CodeInsufficientStock        = "INSUFFICIENT_STOCK"
	CodeInsufficientCurrentStock = "INSUFFICIENT_CURRENT_STOCK"
	CodeBatchNotEmpty            = "BATCH_NOT_EMPTY"
	CodeProductNotTracked        = "PRODUCT_NOT_TRACKED"
	CodeTrackedRequiresBatch     = "TRACKED_PRODUCT_REQUIRES_BATCH"
	CodeConcurrencyConflict      = "CONCURRENCY_CONFLICT"
	CodeInvalidQuantity          = "INVALID_QUANTITY"
	CodeInvalidInput             = "INVALID_INPUT"
)

// ErrInsufficientStock is a true shortfall: even counting expired
// batches there is not enough stock to cover the request.
func ErrInsufficientStock(available, requested int) *apperrors.AppError {
	err := apperrors.New(
		CodeInsufficientStock,
		fmt.Sprintf("insufficient stock: %d available, %d requested", available, requested),
		http.StatusConflict,
	)
	return err.WithDetails(map[string]string{
		"available": strconv.Itoa(available),
		"requested": strconv.Itoa(requested),
	})
}

// ErrInsufficientCurrentStock is a shortfall that exists only because
// expired batches were excluded. Callers can offer an include-expired
// override when they see this code.
func ErrInsufficientCurrentStock(available, requested, expiredAvailable int) *apperrors.AppError {
	err := apperrors.New(
		CodeInsufficientCurrentStock,
		fmt.Sprintf("insufficient unexpired stock: %d available, %d requested (%d more in expired batches)",
			available, requested, expiredAvailable),
		http.StatusConflict,
	)
	return err.WithDetails(map[string]string{
		"available":         strconv.Itoa(available),
		"requested":         strconv.Itoa(requested),
		"expired_available": strconv.Itoa(expiredAvailable),
	})
}

// ErrBatchNotEmpty rejects deletion of a batch that still holds stock
func ErrBatchNotEmpty(batchID string, remaining int) *apperrors.AppError {
	err := apperrors.New(
		CodeBatchNotEmpty,
		fmt.Sprintf("batch still holds %d units and cannot be deleted", remaining),
		http.StatusConflict,
	)
	return err.WithDetails(map[string]string{
		"batch_id":  batchID,
		"remaining": strconv.Itoa(remaining),
	})
}

// ErrProductNotTracked rejects a batch operation on a product that
// does not track expiration dates
func ErrProductNotTracked(productID string) *apperrors.AppError {
	err := apperrors.New(
		CodeProductNotTracked,
		"product does not track expiration dates",
		http.StatusBadRequest,
	)
	return err.WithDetails(map[string]string{"product_id": productID})
}

// ErrTrackedProductRequiresBatch rejects a positive ledger movement on
// a tracked product. Inflows for tracked products must create a batch
// so the new stock has an expiration date.
func ErrTrackedProductRequiresBatch(productID string) *apperrors.AppError {
	err := apperrors.New(
		CodeTrackedRequiresBatch,
		"stock for expiration-tracked products must be added as a batch",
		http.StatusBadRequest,
	)
	return err.WithDetails(map[string]string{"product_id": productID})
}

// ErrConcurrencyConflict reports that batch state changed between
// selection and application
func ErrConcurrencyConflict(batchID string) *apperrors.AppError {
	err := apperrors.New(
		CodeConcurrencyConflict,
		"batch quantity changed concurrently, retry the operation",
		http.StatusConflict,
	)
	return err.WithDetails(map[string]string{"batch_id": batchID})
}

// ErrInvalidQuantity rejects non-positive quantities where a positive
// one is required, and zero where a signed one is
func ErrInvalidQuantity(message string) *apperrors.AppError {
	return apperrors.New(CodeInvalidQuantity, message, http.StatusBadRequest)
}

// ErrInvalidInput rejects malformed input that is not a quantity
// problem, such as a missing expiration date or an unparsable cost
func ErrInvalidInput(message string) *apperrors.AppError {
	return apperrors.New(CodeInvalidInput, message, http.StatusBadRequest)
}

// apperrNotFoundProducts reports which requested products do not exist
// in the store. Cross-store products look missing on purpose.
func apperrNotFoundProducts(requested []string, found []*repository.Product) *apperrors.AppError {
	seen := make(map[string]bool, len(found))
	for _, p := range found {
		seen[p.ID] = true
	}
	var missing []string
	for _, id := range requested {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return apperrors.NotFound("product").WithDetails(map[string]string{
		"missing_product_ids": strings.Join(missing, ","),
	})
}

// ErrorCode extracts the domain code from an error, or "" when the
// error carries none
func ErrorCode(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

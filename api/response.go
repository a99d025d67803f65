package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"pos_sales/internal/apperror"
	"pos_sales/internal/customers"
	"pos_sales/internal/finance"
	"pos_sales/internal/gateway"
	"pos_sales/internal/i18n"
	"pos_sales/internal/sales"
)

// APIResponse is the envelope of every answer.
type APIResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Key     string                `json:"key,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Meta    Meta                  `json:"meta"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.GetString(requestIDKey),
	}
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{
		Success: true,
		Message: i18n.T(language(c), "ok"),
		Data:    data,
		Meta:    newMeta(c),
	})
}

// respondError translates err for the caller's language. notFoundKey names
// the resource when the backend answers 404.
func respondError(c *gin.Context, err error, notFoundKey string) {
	appErr := toAppError(err, notFoundKey)
	_ = c.Error(err)
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: i18n.T(language(c), appErr.Key),
		Key:     appErr.Key,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

func toAppError(err error, notFoundKey string) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verr *sales.ValidationError
	if errors.As(err, &verr) {
		e := apperror.Unprocessable(verr.Key, err)
		if verr.LineID != "" {
			e.WithField("line_id", verr.LineID)
		}
		return e
	}

	var serr *sales.SubmitError
	if errors.As(err, &serr) {
		if serr.RolledBack {
			return apperror.BadGateway("sale.submit_failed", err)
		}
		e := apperror.BadGateway("sale.submit_partial", err)
		for _, r := range serr.Orphans {
			e.WithField(string(r.Kind), r.ID)
		}
		return e
	}

	switch {
	case errors.Is(err, sales.ErrNotFound):
		return apperror.NotFound("draft.not_found", err)
	case errors.Is(err, sales.ErrLineNotFound):
		return apperror.NotFound("line.not_found", err)
	case errors.Is(err, sales.ErrPaymentNotFound):
		return apperror.NotFound("payment.not_found", err)
	case errors.Is(err, sales.ErrCatalogItemNotFound):
		return apperror.NotFound("catalog.item_not_found", err)
	case errors.Is(err, sales.ErrPriceFixed):
		return apperror.Conflict("line.price_fixed", err)
	case errors.Is(err, sales.ErrUnknownField):
		return apperror.BadRequest("field.unknown", err)
	case errors.Is(err, sales.ErrInvalidMethod):
		return apperror.BadRequest("payment.invalid_method", err)
	case errors.Is(err, sales.ErrInvalidAmount):
		return apperror.BadRequest("payment.invalid_amount", err)
	case errors.Is(err, sales.ErrExceedsPending):
		return apperror.Conflict("payment.exceeds_pending", err)
	case errors.Is(err, sales.ErrNothingPending):
		return apperror.Conflict("payment.nothing_pending", err)
	case errors.Is(err, sales.ErrSubmitInProgress):
		return apperror.Conflict("sale.submit_in_progress", err)
	case errors.Is(err, customers.ErrNameRequired):
		return apperror.BadRequest("customer.name_required", err)
	case errors.Is(err, finance.ErrInvalidExpense):
		return apperror.BadRequest("expense.invalid", err)
	case errors.Is(err, gateway.ErrNotFound) && notFoundKey != "":
		return apperror.NotFound(notFoundKey, err)
	}

	var apiErr *gateway.APIError
	var urlErr *url.Error
	if errors.As(err, &apiErr) || errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.BadGateway("backend.unavailable", err)
	}
	return apperror.New(http.StatusInternalServerError, "internal", err)
}

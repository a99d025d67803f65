package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/apperror"
	"pos_sales/internal/catalog"
	"pos_sales/internal/customers"
	"pos_sales/internal/finance"
	"pos_sales/internal/gateway"
	"pos_sales/internal/sales"
)

// CatalogStore is what the catalog endpoints need from the catalog cache.
type CatalogStore interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

type catalogHandler struct {
	store  CatalogStore
	logger *zap.Logger
}

func NewCatalogHandler(store CatalogStore, logger *zap.Logger) *catalogHandler {
	return &catalogHandler{store: store, logger: logger}
}

type catalogView struct {
	Items    []catalog.Item `json:"items"`
	LoadedAt string         `json:"loaded_at"`
}

func viewOf(snap *catalog.Snapshot) catalogView {
	return catalogView{
		Items:    snap.List(),
		LoadedAt: snap.LoadedAt.UTC().Format(time.RFC3339),
	}
}

func (h *catalogHandler) handleGetCatalog(ctx *gin.Context) {
	snap, err := h.store.Snapshot(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, viewOf(snap))
}

func (h *catalogHandler) handleRefreshCatalog(ctx *gin.Context) {
	snap, err := h.store.Refresh(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to refresh catalog", zap.Error(err))
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, viewOf(snap))
}

type customersHandler struct {
	customers *customers.Service
	logger    *zap.Logger
}

func NewCustomersHandler(service *customers.Service, logger *zap.Logger) *customersHandler {
	return &customersHandler{customers: service, logger: logger}
}

func (h *customersHandler) handleListCustomers(ctx *gin.Context) {
	list, err := h.customers.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, list)
}

func (h *customersHandler) handleGetCustomer(ctx *gin.Context) {
	c, err := h.customers.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "customer.not_found")
		return
	}
	respond(ctx, http.StatusOK, c)
}

func (h *customersHandler) handleCreateCustomer(ctx *gin.Context) {
	var req gateway.CustomerInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}

	created, err := h.customers.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, created)
}

type financeHandler struct {
	finance *finance.Service
	logger  *zap.Logger
}

func NewFinanceHandler(service *finance.Service, logger *zap.Logger) *financeHandler {
	return &financeHandler{finance: service, logger: logger}
}

type expenseRequest struct {
	Description string          `json:"description"`
	MethodID    *int            `json:"method_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *financeHandler) handleSummary(ctx *gin.Context) {
	summary, err := h.finance.Summary(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, summary)
}

func (h *financeHandler) handleListExpenses(ctx *gin.Context) {
	list, err := h.finance.ListExpenses(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, list)
}

func (h *financeHandler) handleCreateExpense(ctx *gin.Context) {
	var req expenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}

	expense, err := h.finance.CreateExpense(ctx.Request.Context(), actorFrom(ctx), req.Description, sales.PaymentMethod(*req.MethodID), req.Amount)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, expense)
}

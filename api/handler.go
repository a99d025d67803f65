package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/apperror"
	"pos_sales/internal/catalog"
	"pos_sales/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for the
// draft and abono workflows.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

type headerRequest struct {
	Field      string `json:"field"`
	CustomerID string `json:"customer_id"`
	Comment    string `json:"comment"`
}

type lineRequest struct {
	Field      string           `json:"field" binding:"required"`
	Quantity   *int             `json:"quantity" binding:"required_if=Field quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price" binding:"required_if=Field unit_price"`
	CatalogKey string           `json:"catalog_key" binding:"required_if=Field catalog"`
}

// mutation turns the request into one of the allowed line edits. Binding has
// already checked that the value for Field is present.
func (r lineRequest) mutation() (sales.LineMutation, error) {
	switch sales.LineField(r.Field) {
	case sales.FieldQuantity:
		return sales.SetQuantity(*r.Quantity), nil
	case sales.FieldUnitPrice:
		return sales.SetUnitPrice(*r.UnitPrice), nil
	case sales.FieldCatalog:
		return sales.SelectItem(catalog.Key(r.CatalogKey)), nil
	}
	return sales.LineMutation{}, sales.ErrUnknownField
}

type paymentRequest struct {
	MethodID *int         `json:"method_id" binding:"required"`
	Amount   sales.Amount `json:"amount"`
}

type abonoRequest struct {
	MethodID *int            `json:"method_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *salesHandler) handleCreateDraft(ctx *gin.Context) {
	draft, err := h.salesService.CreateDraft()
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, draft)
}

func (h *salesHandler) handleListDrafts(ctx *gin.Context) {
	drafts, err := h.salesService.ListDrafts()
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, drafts)
}

func (h *salesHandler) handleGetDraft(ctx *gin.Context) {
	draft, err := h.salesService.GetDraft(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleUpdateHeader(ctx *gin.Context) {
	var req headerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}

	var m sales.HeaderMutation
	switch sales.HeaderField(req.Field) {
	case sales.FieldCustomer:
		m = sales.SetCustomer(req.CustomerID)
	case sales.FieldComment:
		m = sales.SetComment(req.Comment)
	default:
		respondError(ctx, sales.ErrUnknownField, "")
		return
	}

	draft, err := h.salesService.UpdateHeader(ctx.Param("id"), m)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleAddLine(ctx *gin.Context) {
	draft, lineID, err := h.salesService.AddLine(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, gin.H{"draft": draft, "line_id": lineID})
}

func (h *salesHandler) handleUpdateLine(ctx *gin.Context) {
	var req lineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}
	m, err := req.mutation()
	if err != nil {
		respondError(ctx, err, "")
		return
	}

	draft, err := h.salesService.UpdateLine(ctx.Request.Context(), ctx.Param("id"), ctx.Param("lineId"), m)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleRemoveLine(ctx *gin.Context) {
	draft, err := h.salesService.RemoveLine(ctx.Param("id"), ctx.Param("lineId"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleAddPayment(ctx *gin.Context) {
	draft, paymentID, err := h.salesService.AddPayment(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, gin.H{"draft": draft, "payment_id": paymentID})
}

func (h *salesHandler) handleUpsertPayment(ctx *gin.Context) {
	var req paymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}

	draft, err := h.salesService.UpsertPayment(ctx.Param("id"), ctx.Param("paymentId"), sales.PaymentMethod(*req.MethodID), req.Amount)
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleRemovePayment(ctx *gin.Context) {
	draft, err := h.salesService.RemovePayment(ctx.Param("id"), ctx.Param("paymentId"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusOK, draft)
}

func (h *salesHandler) handleResetDraft(ctx *gin.Context) {
	draft, err := h.salesService.ResetDraft(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, draft)
}

// handleSubmitDraft handles the POST /drafts/:id/submit endpoint.
func (h *salesHandler) handleSubmitDraft(ctx *gin.Context) {
	actor := actorFrom(ctx)
	result, err := h.salesService.Submit(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		h.logger.Error("failed to submit sale",
			zap.String("sale_id", ctx.Param("id")),
			zap.String("actor", actor.Username),
			zap.Error(err),
		)
		respondError(ctx, err, "")
		return
	}
	respond(ctx, http.StatusCreated, result)
}

func (h *salesHandler) handleGetAccount(ctx *gin.Context) {
	account, err := h.salesService.GetAccount(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "sale.not_found")
		return
	}
	respond(ctx, http.StatusOK, account)
}

func (h *salesHandler) handleRegisterAbono(ctx *gin.Context) {
	var req abonoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		respondError(ctx, apperror.BadRequest("request.invalid", err), "")
		return
	}

	payment, err := h.salesService.RegisterAbono(ctx.Request.Context(), actorFrom(ctx), ctx.Param("id"), sales.PaymentMethod(*req.MethodID), req.Amount)
	if err != nil {
		respondError(ctx, err, "sale.not_found")
		return
	}
	respond(ctx, http.StatusCreated, payment)
}

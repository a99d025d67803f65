package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"pos_sales/internal/auth"
	"pos_sales/internal/customers"
	"pos_sales/internal/finance"
	"pos_sales/internal/sales"
)

// Dependencies are the services the HTTP layer exposes.
type Dependencies struct {
	Sales          *sales.Service
	Catalog        CatalogStore
	Customers      *customers.Service
	Finance        *finance.Service
	Verifier       *auth.Verifier
	AuthRequired   bool
	AllowedOrigins []string
	Logger         *zap.Logger
}

// InitRoutes registers all routes for the application.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	// Drafts only take the fields each mutation names.
	binding.EnableDecoderDisallowUnknownFields = true

	e.Use(RequestLogger(logger), CORS(deps.AllowedOrigins), gin.Recovery())

	e.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	salesH := NewSalesHandler(deps.Sales, logger)
	catalogH := NewCatalogHandler(deps.Catalog, logger)
	customersH := NewCustomersHandler(deps.Customers, logger)
	financeH := NewFinanceHandler(deps.Finance, logger)

	r := e.Group("/api", ActorMiddleware(deps.Verifier, deps.AuthRequired))

	r.POST("/drafts", salesH.handleCreateDraft)
	r.GET("/drafts", salesH.handleListDrafts)
	r.GET("/drafts/:id", salesH.handleGetDraft)
	r.PATCH("/drafts/:id", salesH.handleUpdateHeader)
	r.POST("/drafts/:id/reset", salesH.handleResetDraft)
	r.POST("/drafts/:id/submit", salesH.handleSubmitDraft)

	r.POST("/drafts/:id/lines", salesH.handleAddLine)
	r.PATCH("/drafts/:id/lines/:lineId", salesH.handleUpdateLine)
	r.DELETE("/drafts/:id/lines/:lineId", salesH.handleRemoveLine)

	r.POST("/drafts/:id/payments", salesH.handleAddPayment)
	r.PUT("/drafts/:id/payments/:paymentId", salesH.handleUpsertPayment)
	r.DELETE("/drafts/:id/payments/:paymentId", salesH.handleRemovePayment)

	r.GET("/sales/:id", salesH.handleGetAccount)
	r.POST("/sales/:id/payments", salesH.handleRegisterAbono)

	r.GET("/catalog", catalogH.handleGetCatalog)
	r.POST("/catalog/refresh", catalogH.handleRefreshCatalog)

	r.GET("/customers", customersH.handleListCustomers)
	r.GET("/customers/:id", customersH.handleGetCustomer)
	r.POST("/customers", customersH.handleCreateCustomer)

	r.GET("/expenses", financeH.handleListExpenses)
	r.POST("/expenses", financeH.handleCreateExpense)
	r.GET("/finance/summary", financeH.handleSummary)
}

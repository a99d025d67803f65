package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pos_sales/internal/auth"
	"pos_sales/internal/catalog"
	"pos_sales/internal/customers"
	"pos_sales/internal/finance"
	"pos_sales/internal/gateway"
	"pos_sales/internal/sales"
)

// fakeBackend is an in-process stand-in for the REST backend.
type fakeBackend struct {
	mu          sync.Mutex
	failPayment bool
	sales       []gateway.SaleInput
	details     []gateway.SaleDetail
	payments    []gateway.Payment
	deleted     []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/products":
		writeJSON(w, http.StatusOK, []gateway.Product{
			{ProductID: "p-1", SKU: "SKU-1", Name: "Shampoo", Price: 1750},
			{ProductID: "p-2", SKU: "SKU-2", Name: "Gift card", Price: 5000, PriceFixed: true},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/services":
		writeJSON(w, http.StatusOK, []gateway.Service{
			{ServiceID: "s-1", SKU: "SRV-1", Name: "Haircut", Price: 8000},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/customers":
		writeJSON(w, http.StatusOK, []gateway.Customer{{CustomerID: "c-1", Name: "Ana"}})
	case r.Method == http.MethodPost && r.URL.Path == "/sales":
		var in gateway.SaleInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.sales = append(b.sales, in)
		writeJSON(w, http.StatusCreated, map[string]any{"sale": map[string]any{
			"saleId": in.SaleID, "customerId": in.CustomerID, "total": in.Total, "totalPayments": in.TotalPayments,
		}})
	case r.Method == http.MethodPost && r.URL.Path == "/saleDetails":
		var in gateway.SaleDetail
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.details = append(b.details, in)
		writeJSON(w, http.StatusCreated, map[string]any{"saleDetail": in})
	case r.Method == http.MethodPost && r.URL.Path == "/payments":
		if b.failPayment {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var in gateway.Payment
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.payments = append(b.payments, in)
		writeJSON(w, http.StatusCreated, map[string]any{"payment": in})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payments/sum/"):
		writeJSON(w, http.StatusOK, map[string]any{"total": 1000})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/expenses/sum/"):
		writeJSON(w, http.StatusOK, map[string]any{"total": 250})
	case r.Method == http.MethodPost && r.URL.Path == "/expenses":
		var in gateway.ExpenseInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, map[string]any{"expense": map[string]any{
			"expenseId": "e-1", "description": in.Description, "methodId": in.MethodID, "amount": in.Amount, "createdBy": in.CreatedBy,
		}})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/sales/"):
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete:
		b.deleted = append(b.deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const testSecret = "test-secret"

func initRoutesTests(t *testing.T, backend *fakeBackend, authRequired bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	gw := gateway.New(gateway.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, logger)
	t.Cleanup(func() { _ = gw.Close() })

	store := catalog.NewStore(gw, catalog.NoopCache{}, time.Minute, logger)
	router := gin.New()
	InitRoutes(router, Dependencies{
		Sales:        sales.NewService(sales.NewLocalStorage(), store, gw, logger, true),
		Catalog:      store,
		Customers:    customers.NewService(gw, logger),
		Finance:      finance.NewService(gw, logger),
		Verifier:     auth.NewVerifier(testSecret),
		AuthRequired: authRequired,
		Logger:       logger,
	})
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Key     string          `json:"key"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Meta Meta `json:"meta"`
}

func do(t *testing.T, router *gin.Engine, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeDraft(t *testing.T, raw json.RawMessage) sales.Draft {
	t.Helper()
	var d sales.Draft
	require.NoError(t, json.Unmarshal(raw, &d))
	return d
}

func TestPing(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

// TestSalesHappyPath_FullFlow drives a draft from creation to submission.
func TestSalesHappyPath_FullFlow(t *testing.T) {
	backend := &fakeBackend{}
	router := initRoutesTests(t, backend, false)

	var draft sales.Draft
	var lineID string

	t.Run("POST_CreateDraft", func(t *testing.T) {
		w, env := do(t, router, http.MethodPost, "/api/drafts", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Meta.RequestID)

		draft = decodeDraft(t, env.Data)
		assert.NotEmpty(t, draft.SaleID)
		assert.Empty(t, draft.Lines)
		require.Len(t, draft.Payments, 1)
		assert.Equal(t, sales.MethodCash, draft.Payments[0].MethodID)
	})
	require.NotEmpty(t, draft.SaleID)
	base := "/api/drafts/" + draft.SaleID

	t.Run("POST_AddLine", func(t *testing.T) {
		w, env := do(t, router, http.MethodPost, base+"/lines", nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var out struct {
			LineID string `json:"line_id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &out))
		lineID = out.LineID
		assert.NotEmpty(t, lineID)
	})

	t.Run("PATCH_SelectProduct", func(t *testing.T) {
		w, env := do(t, router, http.MethodPatch, base+"/lines/"+lineID, map[string]any{
			"field": "catalog", "catalog_key": "product:p-1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		d := decodeDraft(t, env.Data)
		require.Len(t, d.Lines, 1)
		assert.Equal(t, "Shampoo", d.Lines[0].Name)
		assert.True(t, decimal.NewFromInt(1750).Equal(d.Lines[0].UnitPrice))
	})

	t.Run("PATCH_Quantity", func(t *testing.T) {
		w, env := do(t, router, http.MethodPatch, base+"/lines/"+lineID, map[string]any{
			"field": "quantity", "quantity": 2,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decimal.NewFromInt(3500).Equal(decodeDraft(t, env.Data).Total))
	})

	t.Run("PATCH_Customer", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPatch, base, map[string]any{
			"field": "customer", "customer_id": "c-1",
		})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("PUT_Payment", func(t *testing.T) {
		w, env := do(t, router, http.MethodPut, base+"/payments/"+draft.Payments[0].PaymentID,
			`{"method_id": 2, "amount": "3500"}`)
		require.Equal(t, http.StatusOK, w.Code)

		d := decodeDraft(t, env.Data)
		assert.True(t, decimal.NewFromInt(3500).Equal(d.TotalPayments))
		assert.True(t, d.AmountDue.IsZero())
	})

	t.Run("POST_Submit", func(t *testing.T) {
		w, env := do(t, router, http.MethodPost, base+"/submit", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var result struct {
			Sale gateway.Sale `json:"sale"`
			Next sales.Draft  `json:"next"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, draft.SaleID, result.Sale.SaleID)
		assert.NotEqual(t, draft.SaleID, result.Next.SaleID)

		backend.mu.Lock()
		defer backend.mu.Unlock()
		require.Len(t, backend.sales, 1)
		assert.Equal(t, "c-1", backend.sales[0].CustomerID)
		assert.Equal(t, 3500.0, backend.sales[0].Total)
		assert.Equal(t, "anonymous", backend.sales[0].CreatedBy)
		require.Len(t, backend.details, 1)
		require.NotNil(t, backend.details[0].ProductID)
		assert.Equal(t, "p-1", *backend.details[0].ProductID)
		assert.Equal(t, 2, backend.details[0].Quantity)
		require.Len(t, backend.payments, 1)
		assert.Equal(t, 2, backend.payments[0].MethodID)
	})

	t.Run("GET_SubmittedDraftIsGone", func(t *testing.T) {
		w, env := do(t, router, http.MethodGet, base, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "draft.not_found", env.Key)
	})
}

func TestSubmit_ValidationFailureIsUnprocessable(t *testing.T) {
	backend := &fakeBackend{}
	router := initRoutesTests(t, backend, false)

	_, env := do(t, router, http.MethodPost, "/api/drafts", nil)
	d := decodeDraft(t, env.Data)

	w, env := do(t, router, http.MethodPost, "/api/drafts/"+d.SaleID+"/submit", nil, "Accept-Language", "en-US")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "sale.customer_required", env.Key)
	assert.NotEmpty(t, env.Message)
	assert.Empty(t, backend.sales)
}

func TestSubmit_PaymentFailureIsRolledBack(t *testing.T) {
	backend := &fakeBackend{failPayment: true}
	router := initRoutesTests(t, backend, false)

	_, env := do(t, router, http.MethodPost, "/api/drafts", nil)
	d := decodeDraft(t, env.Data)
	base := "/api/drafts/" + d.SaleID

	_, env = do(t, router, http.MethodPost, base+"/lines", nil)
	var line struct {
		LineID string `json:"line_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &line))
	do(t, router, http.MethodPatch, base+"/lines/"+line.LineID, map[string]any{"field": "catalog", "catalog_key": "service:s-1"})
	do(t, router, http.MethodPatch, base, map[string]any{"field": "customer", "customer_id": "c-1"})
	do(t, router, http.MethodPut, base+"/payments/"+d.Payments[0].PaymentID, map[string]any{"method_id": 2, "amount": 8000})

	w, env := do(t, router, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "sale.submit_failed", env.Key)

	backend.mu.Lock()
	assert.Equal(t, []string{"/saleDetails/" + backend.details[0].SaleDetailID, "/sales/" + d.SaleID}, backend.deleted)
	backend.mu.Unlock()

	// The draft survives and can be submitted again.
	w, env = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeDraft(t, env.Data).Submitting)
}

func TestUpdateLine_Errors(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	_, env := do(t, router, http.MethodPost, "/api/drafts", nil)
	d := decodeDraft(t, env.Data)
	base := "/api/drafts/" + d.SaleID

	_, env = do(t, router, http.MethodPost, base+"/lines", nil)
	var line struct {
		LineID string `json:"line_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &line))
	linePath := base + "/lines/" + line.LineID

	w, _ := do(t, router, http.MethodPatch, linePath, map[string]any{"field": "catalog", "catalog_key": "product:p-2"})
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		key    string
	}{
		{"fixed price", linePath, map[string]any{"field": "unit_price", "unit_price": "10"}, http.StatusConflict, "line.price_fixed"},
		{"unknown field", linePath, map[string]any{"field": "discount"}, http.StatusBadRequest, "field.unknown"},
		{"unknown json key", linePath, `{"field":"quantity","quantity":1,"color":"red"}`, http.StatusBadRequest, "request.invalid"},
		{"missing quantity", linePath, map[string]any{"field": "quantity"}, http.StatusBadRequest, "request.invalid"},
		{"unknown catalog item", linePath, map[string]any{"field": "catalog", "catalog_key": "product:nope"}, http.StatusNotFound, "catalog.item_not_found"},
		{"unknown line", base + "/lines/missing", map[string]any{"field": "quantity", "quantity": 1}, http.StatusNotFound, "line.not_found"},
		{"unknown draft", "/api/drafts/missing/lines/x", map[string]any{"field": "quantity", "quantity": 1}, http.StatusNotFound, "draft.not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, router, http.MethodPatch, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.key, env.Key)
		})
	}
}

func TestActorMiddleware(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, true)

	w, env := do(t, router, http.MethodGet, "/api/drafts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth.required", env.Key)

	w, env = do(t, router, http.MethodGet, "/api/drafts", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth.invalid", env.Key)

	token, err := auth.NewVerifier(testSecret).Issue(sales.Actor{UserID: "u-1", Username: "cashier"}, time.Hour)
	require.NoError(t, err)
	w, _ = do(t, router, http.MethodGet, "/api/drafts", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAccount_UnknownSale(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	w, env := do(t, router, http.MethodGet, "/api/sales/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "sale.not_found", env.Key)
}

func TestCatalogAndCustomers(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	w, env := do(t, router, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Items []catalog.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Items, 3)

	w, env = do(t, router, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []gateway.Customer
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, "Ana", list[0].Name)

	w, env = do(t, router, http.MethodPost, "/api/customers", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer.name_required", env.Key)
}

func TestFinanceRoutes(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	w, env := do(t, router, http.MethodGet, "/api/finance/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary finance.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Len(t, summary.Methods, 4)
	assert.True(t, decimal.NewFromInt(3000).Equal(summary.Net))

	w, env = do(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"description": "Cleaning supplies", "method_id": 2, "amount": "250",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var expense gateway.Expense
	require.NoError(t, json.Unmarshal(env.Data, &expense))
	assert.Equal(t, "e-1", expense.ExpenseID)
	assert.Equal(t, "anonymous", expense.CreatedBy)

	w, env = do(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"description": "Cleaning supplies", "method_id": 2, "amount": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "expense.invalid", env.Key)
}

func TestPaymentRoutes_RejectIncompleteBody(t *testing.T) {
	router := initRoutesTests(t, &fakeBackend{}, false)

	_, env := do(t, router, http.MethodPost, "/api/drafts", nil)
	d := decodeDraft(t, env.Data)
	paymentPath := "/api/drafts/" + d.SaleID + "/payments/" + d.Payments[0].PaymentID

	tests := []struct {
		name string
		body any
		key  string
	}{
		{"missing method", `{"amount": "100"}`, "request.invalid"},
		{"unknown json key", `{"method_id": 2, "amount": "100", "tip": 5}`, "request.invalid"},
		{"unknown method", `{"method_id": 9, "amount": "100"}`, "payment.invalid_method"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, router, http.MethodPut, paymentPath, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.key, env.Key)
		})
	}

	w, env := do(t, router, http.MethodPut, paymentPath, `{"method_id": 0, "amount": "100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sales.MethodDebitCard, decodeDraft(t, env.Data).Payments[0].MethodID)
}

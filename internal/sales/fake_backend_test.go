package sales

import (
	"context"
	"errors"
	"sync"

	"pos_sales/internal/gateway"
)

var errBackendDown = errors.New("backend down")

// fakeBackend records what is persisted and fails on request.
type fakeBackend struct {
	mu sync.Mutex

	sales    map[string]gateway.Sale
	details  map[string]gateway.SaleDetail
	payments map[string]gateway.Payment

	calls []string

	failSaleCreate   bool
	failDetailAt     int // 1-based; 0 never fails
	failPaymentAt    int
	failDetailDelete bool

	detailCreates  int
	paymentCreates int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sales:    map[string]gateway.Sale{},
		details:  map[string]gateway.SaleDetail{},
		payments: map[string]gateway.Payment{},
	}
}

func (f *fakeBackend) CreateSale(_ context.Context, in gateway.SaleInput) (*gateway.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create sale")
	if f.failSaleCreate {
		return nil, errBackendDown
	}
	sale := gateway.Sale{
		SaleID:        in.SaleID,
		CustomerID:    in.CustomerID,
		Comment:       in.Comment,
		Total:         in.Total,
		TotalPayments: in.TotalPayments,
		CreatedBy:     in.CreatedBy,
	}
	f.sales[sale.SaleID] = sale
	return &sale, nil
}

func (f *fakeBackend) GetSale(_ context.Context, saleID string) (*gateway.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sale, ok := f.sales[saleID]
	if !ok {
		return nil, &gateway.APIError{Op: "get sale", StatusCode: 404}
	}
	return &sale, nil
}

func (f *fakeBackend) DeleteSale(_ context.Context, saleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete sale")
	delete(f.sales, saleID)
	return nil
}

func (f *fakeBackend) CreateSaleDetail(_ context.Context, in gateway.SaleDetail) (*gateway.SaleDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create detail")
	f.detailCreates++
	if f.failDetailAt == f.detailCreates {
		return nil, errBackendDown
	}
	f.details[in.SaleDetailID] = in
	return &in, nil
}

func (f *fakeBackend) DeleteSaleDetail(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete detail")
	if f.failDetailDelete {
		return errBackendDown
	}
	delete(f.details, id)
	return nil
}

func (f *fakeBackend) CreatePayment(_ context.Context, in gateway.Payment) (*gateway.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create payment")
	f.paymentCreates++
	if f.failPaymentAt == f.paymentCreates {
		return nil, errBackendDown
	}
	f.payments[in.PaymentID] = in
	return &in, nil
}

func (f *fakeBackend) DeletePayment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete payment")
	delete(f.payments, id)
	return nil
}

func (f *fakeBackend) ListSalePayments(_ context.Context, saleID string) ([]gateway.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.Payment
	for _, p := range f.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

package gateway

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreateSale(ctx context.Context, in SaleInput) (*Sale, error) {
	var out saleEnvelope
	if err := c.send(ctx, "create sale", http.MethodPost, "/sales", in, &out); err != nil {
		return nil, err
	}
	if out.Sale.SaleID == "" {
		out.Sale = Sale{
			SaleID:        in.SaleID,
			CustomerID:    in.CustomerID,
			Comment:       in.Comment,
			Total:         in.Total,
			TotalPayments: in.TotalPayments,
			CreatedBy:     in.CreatedBy,
		}
	}
	return &out.Sale, nil
}

func (c *Client) GetSale(ctx context.Context, saleID string) (*Sale, error) {
	var out saleEnvelope
	if err := c.send(ctx, "get sale", http.MethodGet, "/sales/"+url.PathEscape(saleID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Sale, nil
}

func (c *Client) DeleteSale(ctx context.Context, saleID string) error {
	return c.send(ctx, "delete sale", http.MethodDelete, "/sales/"+url.PathEscape(saleID), nil, nil)
}

func (c *Client) CreateSaleDetail(ctx context.Context, in SaleDetail) (*SaleDetail, error) {
	var out saleDetailEnvelope
	if err := c.send(ctx, "create sale detail", http.MethodPost, "/saleDetails", in, &out); err != nil {
		return nil, err
	}
	if out.SaleDetail.SaleDetailID == "" {
		out.SaleDetail = in
	}
	return &out.SaleDetail, nil
}

func (c *Client) DeleteSaleDetail(ctx context.Context, saleDetailID string) error {
	return c.send(ctx, "delete sale detail", http.MethodDelete, "/saleDetails/"+url.PathEscape(saleDetailID), nil, nil)
}

func (c *Client) CreatePayment(ctx context.Context, in Payment) (*Payment, error) {
	var out paymentEnvelope
	if err := c.send(ctx, "create payment", http.MethodPost, "/payments", in, &out); err != nil {
		return nil, err
	}
	if out.Payment.PaymentID == "" {
		out.Payment = in
	}
	return &out.Payment, nil
}

func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	return c.send(ctx, "delete payment", http.MethodDelete, "/payments/"+url.PathEscape(paymentID), nil, nil)
}

// ListSalePayments returns the abonos already registered against a sale.
func (c *Client) ListSalePayments(ctx context.Context, saleID string) ([]Payment, error) {
	var out []Payment
	if err := c.send(ctx, "list sale payments", http.MethodGet, "/payments/sale/"+url.PathEscape(saleID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

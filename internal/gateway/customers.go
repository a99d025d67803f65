package gateway

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.send(ctx, "list customers", http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	var out Customer
	if err := c.send(ctx, "get customer", http.MethodGet, "/customers/"+url.PathEscape(customerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer answers with the backend-assigned customerId.
func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	var out customerEnvelope
	if err := c.send(ctx, "create customer", http.MethodPost, "/customers", in, &out); err != nil {
		return nil, err
	}
	out.Customer.Name = in.Name
	out.Customer.Phone = in.Phone
	out.Customer.Email = in.Email
	out.Customer.Address = in.Address
	return &out.Customer, nil
}

package gateway

import (
	"context"
	"net/http"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.send(ctx, "list products", http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.send(ctx, "list services", http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package gateway

import (
	"context"
	"fmt"
	"net/http"
)

// SumPayments returns the total collected with one payment method.
func (c *Client) SumPayments(ctx context.Context, methodID int) (float64, error) {
	var out sumEnvelope
	if err := c.send(ctx, "sum payments", http.MethodGet, fmt.Sprintf("/payments/sum/%d", methodID), nil, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// SumExpenses returns the total spent with one payment method.
func (c *Client) SumExpenses(ctx context.Context, methodID int) (float64, error) {
	var out sumEnvelope
	if err := c.send(ctx, "sum expenses", http.MethodGet, fmt.Sprintf("/expenses/sum/%d", methodID), nil, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

func (c *Client) ListExpenses(ctx context.Context) ([]Expense, error) {
	var out []Expense
	if err := c.send(ctx, "list expenses", http.MethodGet, "/expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, in ExpenseInput) (*Expense, error) {
	var out expenseEnvelope
	if err := c.send(ctx, "create expense", http.MethodPost, "/expenses", in, &out); err != nil {
		return nil, err
	}
	if out.Expense.ExpenseID == "" {
		out.Expense = Expense{
			Description: in.Description,
			MethodID:    in.MethodID,
			Amount:      in.Amount,
			CreatedBy:   in.CreatedBy,
		}
	}
	return &out.Expense, nil
}

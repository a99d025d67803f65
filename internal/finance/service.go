package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/gateway"
	"pos_sales/internal/sales"
)

var ErrInvalidExpense = errors.New("invalid expense")

// Backend is what the finance views read from the API gateway.
type Backend interface {
	SumPayments(ctx context.Context, methodID int) (float64, error)
	SumExpenses(ctx context.Context, methodID int) (float64, error)
	ListExpenses(ctx context.Context) ([]gateway.Expense, error)
	CreateExpense(ctx context.Context, in gateway.ExpenseInput) (*gateway.Expense, error)
}

// MethodSummary is the money that came in and went out through one payment
// method.
type MethodSummary struct {
	Method   sales.PaymentMethod `json:"method_id"`
	Name     string              `json:"method"`
	Income   decimal.Decimal     `json:"income"`
	Expenses decimal.Decimal     `json:"expenses"`
	Net      decimal.Decimal     `json:"net"`
}

type Summary struct {
	Methods  []MethodSummary `json:"methods"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{backend: backend, logger: logger}
}

// Summary queries the per-method sums one after another.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{
		Methods:  make([]MethodSummary, 0, len(sales.PaymentMethods)),
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, m := range sales.PaymentMethods {
		income, err := s.backend.SumPayments(ctx, int(m))
		if err != nil {
			s.logger.Error("failed to sum payments", zap.String("method", m.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to sum %s payments: %w", m, err)
		}
		spent, err := s.backend.SumExpenses(ctx, int(m))
		if err != nil {
			s.logger.Error("failed to sum expenses", zap.String("method", m.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to sum %s expenses: %w", m, err)
		}

		in := decimal.NewFromFloat(income)
		outgo := decimal.NewFromFloat(spent)
		out.Methods = append(out.Methods, MethodSummary{
			Method:   m,
			Name:     m.String(),
			Income:   in,
			Expenses: outgo,
			Net:      in.Sub(outgo),
		})
		out.Income = out.Income.Add(in)
		out.Expenses = out.Expenses.Add(outgo)
	}
	out.Net = out.Income.Sub(out.Expenses)
	return out, nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]gateway.Expense, error) {
	expenses, err := s.backend.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense records money taken out of the till.
func (s *Service) CreateExpense(ctx context.Context, actor sales.Actor, description string, method sales.PaymentMethod, amount decimal.Decimal) (*gateway.Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidExpense)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %d", ErrInvalidExpense, method)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidExpense)
	}

	expense, err := s.backend.CreateExpense(ctx, gateway.ExpenseInput{
		Description: description,
		MethodID:    int(method),
		Amount:      amount.InexactFloat64(),
		CreatedBy:   actor.Username,
	})
	if err != nil {
		s.logger.Error("failed to create expense", zap.Error(err))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.logger.Info("expense created", zap.String("expense_id", expense.ExpenseID), zap.String("amount", amount.String()))
	return expense, nil
}

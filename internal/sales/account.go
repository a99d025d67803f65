package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/gateway"
)

var (
	ErrInvalidAmount  = errors.New("payment amount must be greater than zero")
	ErrExceedsPending = errors.New("payment exceeds the pending amount")
	ErrNothingPending = errors.New("sale is already paid")
)

// Account is a persisted sale with the payments registered against it.
type Account struct {
	Sale     *gateway.Sale     `json:"sale"`
	Payments []gateway.Payment `json:"payments"`
	Paid     decimal.Decimal   `json:"paid"`
	Pending  decimal.Decimal   `json:"pending"`
}

// GetAccount loads a persisted sale and derives what is still owed from the
// payments the backend reports.
func (s *Service) GetAccount(ctx context.Context, saleID string) (*Account, error) {
	sale, err := s.backend.GetSale(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	payments, err := s.backend.ListSalePayments(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	paid := decimal.Zero
	for _, p := range payments {
		amount := decimal.NewFromFloat(p.Amount)
		if amount.IsPositive() {
			paid = paid.Add(amount)
		}
	}

	return &Account{
		Sale:     sale,
		Payments: payments,
		Paid:     paid,
		Pending:  decimal.NewFromFloat(sale.Total).Sub(paid),
	}, nil
}

// RegisterAbono adds one payment to a persisted sale. The pending amount is
// checked locally against a fresh read; the backend does not enforce it
// atomically.
func (s *Service) RegisterAbono(ctx context.Context, actor Actor, saleID string, method PaymentMethod, amount decimal.Decimal) (*gateway.Payment, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, method)
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	account, err := s.GetAccount(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !account.Pending.IsPositive() {
		return nil, ErrNothingPending
	}
	if amount.GreaterThan(account.Pending) {
		s.logger.Warn("abono exceeds pending amount",
			zap.String("sale_id", saleID),
			zap.String("amount", amount.String()),
			zap.String("pending", account.Pending.String()),
		)
		return nil, ErrExceedsPending
	}

	payment, err := s.backend.CreatePayment(ctx, gateway.Payment{
		PaymentID: newID(),
		SaleID:    saleID,
		MethodID:  int(method),
		Amount:    amount.InexactFloat64(),
		CreatedBy: actor.Username,
	})
	if err != nil {
		s.logger.Error("failed to register abono", zap.String("sale_id", saleID), zap.Error(err))
		return nil, fmt.Errorf("failed to register payment: %w", err)
	}

	s.logger.Info("abono registered",
		zap.String("sale_id", saleID),
		zap.String("payment_id", payment.PaymentID),
		zap.String("amount", amount.String()),
	)
	return payment, nil
}

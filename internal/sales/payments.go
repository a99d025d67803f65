package sales

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound = errors.New("payment row not found")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

// AddPayment appends a blank cash row.
func (d *Draft) AddPayment() *PaymentRow {
	row := &PaymentRow{
		PaymentID: newID(),
		MethodID:  MethodCash,
	}
	d.Payments = append(d.Payments, row)
	d.recompute()
	return row
}

// UpsertPayment replaces the method and amount of a row. Callers always send
// both current values, never a delta.
func (d *Draft) UpsertPayment(paymentID string, method PaymentMethod, amount Amount) error {
	if !method.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMethod, method)
	}
	for _, p := range d.Payments {
		if p.PaymentID == paymentID {
			p.MethodID = method
			p.Amount = amount
			d.recompute()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
}

func (d *Draft) RemovePayment(paymentID string) error {
	for i, p := range d.Payments {
		if p.PaymentID == paymentID {
			d.Payments = append(d.Payments[:i], d.Payments[i+1:]...)
			d.recompute()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
}

// PaymentsByMethod sums the positive rows per method.
func (d *Draft) PaymentsByMethod() map[PaymentMethod]decimal.Decimal {
	out := make(map[PaymentMethod]decimal.Decimal, len(PaymentMethods))
	for _, p := range d.Payments {
		if !p.Amount.Positive() {
			continue
		}
		out[p.MethodID] = out[p.MethodID].Add(p.Amount.Value)
	}
	return out
}

// sumPayments counts only positive amounts; blank, zero and negative rows
// add nothing.
func sumPayments(rows []*PaymentRow) decimal.Decimal {
	total := decimal.Zero
	for _, p := range rows {
		if p.Amount.Positive() {
			total = total.Add(p.Amount.Value)
		}
	}
	return total
}

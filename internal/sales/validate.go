package sales

import (
	"errors"
	"fmt"
)

// ErrInvalidDraft is matched by every *ValidationError.
var ErrInvalidDraft = errors.New("invalid sale draft")

// Message keys for user-facing validation errors.
const (
	KeyCustomerRequired  = "sale.customer_required"
	KeyItemsRequired     = "sale.items_required"
	KeyItemUnselected    = "sale.item_unselected"
	KeyItemQuantity      = "sale.item_quantity"
	KeyItemPriceNegative = "sale.item_price_negative"
)

// ValidationError stops a submission before any backend call.
type ValidationError struct {
	Key    string
	LineID string
}

func (e *ValidationError) Error() string {
	if e.LineID != "" {
		return fmt.Sprintf("%s (line %s)", e.Key, e.LineID)
	}
	return e.Key
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDraft
}

// Validate checks a draft in a fixed order and reports the first problem.
func Validate(d *Draft) error {
	if d.CustomerID == "" {
		return &ValidationError{Key: KeyCustomerRequired}
	}
	if len(d.Lines) == 0 {
		return &ValidationError{Key: KeyItemsRequired}
	}
	for _, l := range d.Lines {
		if l.Quantity > 0 && !l.Selected() {
			return &ValidationError{Key: KeyItemUnselected, LineID: l.LineID}
		}
	}
	// Unselected lines are not persisted, so one that passes must also add
	// nothing to the total.
	for _, l := range d.Lines {
		if l.Quantity < 0 || (l.Selected() && l.Quantity < 1) {
			return &ValidationError{Key: KeyItemQuantity, LineID: l.LineID}
		}
	}
	for _, l := range d.Lines {
		if l.UnitPrice.IsNegative() {
			return &ValidationError{Key: KeyItemPriceNegative, LineID: l.LineID}
		}
	}
	return nil
}

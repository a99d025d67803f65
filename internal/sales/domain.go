package sales

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pos_sales/internal/catalog"
)

// PaymentMethod is the backend's numeric payment method id.
type PaymentMethod int

const (
	MethodDebitCard PaymentMethod = iota
	MethodCreditCard
	MethodCash
	MethodBankTransfer
)

// PaymentMethods lists every method in id order.
var PaymentMethods = []PaymentMethod{MethodDebitCard, MethodCreditCard, MethodCash, MethodBankTransfer}

func (m PaymentMethod) Valid() bool {
	return m >= MethodDebitCard && m <= MethodBankTransfer
}

func (m PaymentMethod) String() string {
	switch m {
	case MethodDebitCard:
		return "debit_card"
	case MethodCreditCard:
		return "credit_card"
	case MethodCash:
		return "cash"
	case MethodBankTransfer:
		return "bank_transfer"
	}
	return "unknown"
}

// Actor is the signed-in user a submission is made on behalf of.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Amount is a cashier-entered money value. Empty, null or non-numeric input
// decodes to an unset amount instead of failing.
type Amount struct {
	Value decimal.Decimal
	Set   bool
}

func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Set: true}
}

// Positive reports whether the amount counts toward payments.
func (a Amount) Positive() bool {
	return a.Set && a.Value.IsPositive()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return a.Value.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*a = Amount{}
		return nil
	}
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			*a = Amount{}
			return nil
		}
	} else {
		s = string(raw)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = Amount{Value: v, Set: true}
	return nil
}

// LineItem is one product or service row of a draft. Kind and CatalogRefID
// are only ever written together from a catalog selection.
type LineItem struct {
	LineID       string          `json:"line_id"`
	CatalogKey   catalog.Key     `json:"catalog_key,omitempty"`
	CatalogRefID string          `json:"catalog_ref_id,omitempty"`
	Kind         catalog.Kind    `json:"kind,omitempty"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PriceFixed   bool            `json:"price_fixed"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// Selected reports whether the row points at a catalog entry.
func (l *LineItem) Selected() bool {
	return l.Kind.Valid() && l.CatalogRefID != ""
}

// PaymentRow is a proposed payment of the draft, not yet persisted.
type PaymentRow struct {
	PaymentID string        `json:"payment_id"`
	MethodID  PaymentMethod `json:"method_id"`
	Amount    Amount        `json:"amount"`
}

// Draft is a sale being composed. Total and TotalPayments are derived and
// recomputed after every mutation.
type Draft struct {
	SaleID        string          `json:"sale_id"`
	CustomerID    string          `json:"customer_id,omitempty"`
	Comment       string          `json:"comment"`
	Lines         []*LineItem     `json:"lines"`
	Payments      []*PaymentRow   `json:"payments"`
	Total         decimal.Decimal `json:"total"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Submitting    bool            `json:"submitting"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Clone returns a deep copy so callers never share rows with storage.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Lines = make([]*LineItem, len(d.Lines))
	for i, l := range d.Lines {
		line := *l
		c.Lines[i] = &line
	}
	c.Payments = make([]*PaymentRow, len(d.Payments))
	for i, p := range d.Payments {
		row := *p
		c.Payments[i] = &row
	}
	return &c
}

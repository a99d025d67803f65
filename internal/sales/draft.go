package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos_sales/internal/catalog"
)

var (
	ErrLineNotFound        = errors.New("line item not found")
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	ErrPriceFixed          = errors.New("unit price is fixed for this item")
	ErrUnknownField        = errors.New("unknown field")
)

// LineField names the only fields of a line that may be edited.
type LineField string

const (
	FieldQuantity  LineField = "quantity"
	FieldUnitPrice LineField = "unit_price"
	FieldCatalog   LineField = "catalog"
)

// LineMutation is a single edit of a line. Only the value matching Field is
// read.
type LineMutation struct {
	Field      LineField
	Quantity   int
	UnitPrice  decimal.Decimal
	CatalogKey catalog.Key
}

func SetQuantity(q int) LineMutation {
	return LineMutation{Field: FieldQuantity, Quantity: q}
}

func SetUnitPrice(p decimal.Decimal) LineMutation {
	return LineMutation{Field: FieldUnitPrice, UnitPrice: p}
}

func SelectItem(key catalog.Key) LineMutation {
	return LineMutation{Field: FieldCatalog, CatalogKey: key}
}

// HeaderField names the editable header fields of a draft.
type HeaderField string

const (
	FieldCustomer HeaderField = "customer"
	FieldComment  HeaderField = "comment"
)

type HeaderMutation struct {
	Field      HeaderField
	CustomerID string
	Comment    string
}

func SetCustomer(id string) HeaderMutation {
	return HeaderMutation{Field: FieldCustomer, CustomerID: id}
}

func SetComment(comment string) HeaderMutation {
	return HeaderMutation{Field: FieldComment, Comment: comment}
}

func newID() string {
	return uuid.NewString()
}

// NewDraft starts an empty sale with a fresh sale id and one blank payment
// row.
func NewDraft(now time.Time) *Draft {
	d := &Draft{
		SaleID:    newID(),
		Lines:     []*LineItem{},
		Payments:  []*PaymentRow{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.AddPayment()
	return d
}

// ApplyHeader sets the customer or the comment.
func (d *Draft) ApplyHeader(m HeaderMutation) error {
	switch m.Field {
	case FieldCustomer:
		d.CustomerID = m.CustomerID
	case FieldComment:
		d.Comment = m.Comment
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, m.Field)
	}
	return nil
}

// AddLine appends a placeholder row waiting for a catalog selection.
func (d *Draft) AddLine() *LineItem {
	line := &LineItem{
		LineID:    newID(),
		Quantity:  1,
		UnitPrice: decimal.Zero,
		LineTotal: decimal.Zero,
	}
	d.Lines = append(d.Lines, line)
	d.recompute()
	return line
}

func (d *Draft) line(lineID string) (*LineItem, error) {
	for _, l := range d.Lines {
		if l.LineID == lineID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
}

// UpdateLine applies one mutation to a line and recomputes the totals.
// Numeric ranges are not checked here; Validate rejects them at submission.
func (d *Draft) UpdateLine(lineID string, m LineMutation, snap *catalog.Snapshot) error {
	if m.Field == FieldCatalog {
		return d.SelectCatalogItem(lineID, m.CatalogKey, snap)
	}

	line, err := d.line(lineID)
	if err != nil {
		return err
	}

	switch m.Field {
	case FieldQuantity:
		line.Quantity = m.Quantity
	case FieldUnitPrice:
		if line.PriceFixed {
			return ErrPriceFixed
		}
		line.UnitPrice = m.UnitPrice
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, m.Field)
	}

	line.recompute()
	d.recompute()
	return nil
}

// SelectCatalogItem points a line at a catalog entry, copying its sku, price
// and fixed-price flag. An unknown key leaves the line untouched.
func (d *Draft) SelectCatalogItem(lineID string, key catalog.Key, snap *catalog.Snapshot) error {
	line, err := d.line(lineID)
	if err != nil {
		return err
	}

	item, ok := snap.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCatalogItemNotFound, key)
	}

	line.CatalogKey = item.Key
	line.CatalogRefID = item.ID
	line.Kind = item.Kind
	line.SKU = item.SKU
	line.Name = item.Name
	line.UnitPrice = item.Price
	line.PriceFixed = item.PriceFixed

	line.recompute()
	d.recompute()
	return nil
}

// RemoveLine drops a line together with its contribution to the total.
func (d *Draft) RemoveLine(lineID string) error {
	for i, l := range d.Lines {
		if l.LineID == lineID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			d.recompute()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
}

func (l *LineItem) recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (d *Draft) recompute() {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.LineTotal)
	}
	d.Total = total
	d.TotalPayments = sumPayments(d.Payments)
	d.AmountDue = d.Total.Sub(d.TotalPayments)
}

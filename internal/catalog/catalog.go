package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether a catalog entry is a product or a service.
type Kind string

const (
	KindProduct Kind = "PRODUCT"
	KindService Kind = "SERVICE"
)

func (k Kind) Valid() bool {
	return k == KindProduct || k == KindService
}

// Key identifies an entry across both product and service ids, which the
// backend numbers independently.
type Key string

func KeyFor(kind Kind, id string) Key {
	switch kind {
	case KindProduct:
		return Key("product:" + id)
	case KindService:
		return Key("service:" + id)
	}
	return ""
}

// Item is one sellable product or service.
type Item struct {
	Key        Key             `json:"key"`
	Kind       Kind            `json:"kind"`
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	PriceFixed bool            `json:"price_fixed"`
}

// Snapshot is a read-only view of the catalog taken at LoadedAt. Staleness
// is accepted until the next explicit refresh.
type Snapshot struct {
	Items    map[Key]Item `json:"items"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// Lookup returns the item stored under key.
func (s *Snapshot) Lookup(key Key) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	item, ok := s.Items[key]
	return item, ok
}

// List returns the items in no particular order.
func (s *Snapshot) List() []Item {
	if s == nil {
		return nil
	}
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, item)
	}
	return items
}

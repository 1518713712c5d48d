package store

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is one cart line. It is created once and never changed.
type CartItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func newCartItem(name string, quantity int, cost decimal.Decimal) CartItem {
	return CartItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: cost.Div(decimal.NewFromInt(int64(quantity))),
		LineTotal: cost,
	}
}

func (i CartItem) String() string {
	return fmt.Sprintf("%s x %d @ $%s = $%s", i.Name, i.Quantity, money(i.UnitPrice), money(i.LineTotal))
}

// Cart keeps items in insertion order. The total is always derived from the items.
type Cart struct {
	items []CartItem
}

func (c *Cart) add(item CartItem) {
	c.items = append(c.items, item)
}

func (c *Cart) clear() {
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Total sums the line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal)
	}
	return total
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	receiptRule = "=============================="
	cartHeader  = "===== SHOPPING CART ====="
	cartRule    = "========================="
)

// Receipt is the checkout summary. Change may be negative.
type Receipt struct {
	ID          string
	Cashier     string
	Items       []CartItem
	Total       decimal.Decimal
	AmountGiven decimal.Decimal
	Change      decimal.Decimal
	IssuedAt    time.Time
}

func newReceipt(cashier string, cart *Cart, amountGiven decimal.Decimal, now time.Time) Receipt {
	total := cart.Total()
	return Receipt{
		ID:          uuid.NewString(),
		Cashier:     cashier,
		Items:       cart.Items(),
		Total:       total,
		AmountGiven: amountGiven,
		Change:      amountGiven.Sub(total),
		IssuedAt:    now,
	}
}

// String renders the receipt text.
func (r Receipt) String() string {
	var b strings.Builder
	b.WriteString("===== FRUIT STORE RECEIPT =====\n")
	b.WriteString("Cashier: " + r.Cashier + "\n")
	b.WriteString(receiptRule + "\n")
	b.WriteString("ITEMS PURCHASED:\n")
	for _, it := range r.Items {
		b.WriteString(it.String() + "\n")
	}
	b.WriteString(receiptRule + "\n")
	b.WriteString("Total Cost: $" + money(r.Total) + "\n")
	b.WriteString("Amount Given: $" + money(r.AmountGiven) + "\n")
	b.WriteString("Change: $" + money(r.Change) + "\n")
	b.WriteString(receiptRule + "\n")
	b.WriteString("Thank you for your purchase!\n")
	return b.String()
}

func renderCart(c *Cart) string {
	if c.Empty() {
		return "Shopping cart is empty.\n"
	}
	var b strings.Builder
	b.WriteString("\n" + cartHeader + "\n")
	for _, it := range c.items {
		b.WriteString(it.String() + "\n")
	}
	b.WriteString(cartRule + "\n")
	b.WriteString("Total: $" + money(c.Total()) + "\n")
	return b.String()
}

// Package cart holds the in-progress order state while a customer's
// selection is being assembled. A Cart is a value: every transition
// returns a new Cart and never mutates the receiver, so callers can
// keep snapshots without defensive copies.
package cart

import "github.com/shopspring/decimal"

const (
	MinQuantity = 1
	MaxQuantity = 100
)

// Item is a catalog entry being added to a cart.
type Item struct {
	Code  string
	Name  string
	Price decimal.Decimal
}

// Line is one item selection with its quantity and an optional note.
type Line struct {
	Code     string
	Name     string
	Price    decimal.Decimal
	Quantity int32
	Notes    string
}

// Update is a partial change to an existing line. Nil fields are left alone.
type Update struct {
	Quantity *int32
	Notes    *string
}

// Cart is the full selection plus the delivery fee of the chosen zone.
// The zero value is an empty cart with no zone selected.
type Cart struct {
	Lines       []Line
	DeliveryFee decimal.Decimal
}

// Add merges the item into the cart: an existing line with the same code
// gets quantity +1, otherwise a new quantity-1 line is appended.
func (c Cart) Add(item Item) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)

	for i, l := range lines {
		if l.Code == item.Code {
			lines[i].Quantity++
			c.Lines = lines
			return c
		}
	}

	c.Lines = append(lines, Line{
		Code:     item.Code,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
	return c
}

// Remove drops the line with the given code. No-op when absent.
func (c Cart) Remove(code string) Cart {
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.Code != code {
			lines = append(lines, l)
		}
	}
	c.Lines = lines
	return c
}

// SetUpdate merges a partial update into the line with the given code.
// A quantity outside [MinQuantity, MaxQuantity] is coerced to MinQuantity
// rather than rejected. No-op when the code is absent.
func (c Cart) SetUpdate(code string, u Update) Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)

	for i, l := range lines {
		if l.Code != code {
			continue
		}
		if u.Quantity != nil {
			q := *u.Quantity
			if q < MinQuantity || q > MaxQuantity {
				q = MinQuantity
			}
			lines[i].Quantity = q
		}
		if u.Notes != nil {
			lines[i].Notes = *u.Notes
		}
	}
	c.Lines = lines
	return c
}

// SelectZone sets the delivery fee of the chosen zone.
func (c Cart) SelectZone(fee decimal.Decimal) Cart {
	c.DeliveryFee = fee
	return c
}

// Subtotal is the sum of price x quantity over all lines.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return sum
}

// Total is the subtotal plus the selected zone's delivery fee.
func (c Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.DeliveryFee)
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

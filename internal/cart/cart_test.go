package cart_test

import (
	"testing"

	"github.com/roma-kitchen/api/internal/cart"
	"github.com/shopspring/decimal"
)

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func marmita(t *testing.T) cart.Item {
	return cart.Item{Code: "MARMITA-M", Name: "Marmita Media", Price: money(t, "22.00")}
}

func refri(t *testing.T) cart.Item {
	return cart.Item{Code: "REFRI-LATA", Name: "Refrigerante Lata", Price: money(t, "6.00")}
}

func TestAdd_NewLine(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t))

	if len(c.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(c.Lines))
	}
	if c.Lines[0].Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", c.Lines[0].Quantity)
	}
	if c.Lines[0].Code != "MARMITA-M" {
		t.Errorf("code: got %s, want MARMITA-M", c.Lines[0].Code)
	}
}

func TestAdd_MergesExistingCode(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).Add(refri(t)).Add(marmita(t))

	if len(c.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(c.Lines))
	}
	if c.Lines[0].Quantity != 2 {
		t.Errorf("merged quantity: got %d, want 2", c.Lines[0].Quantity)
	}
	if c.Lines[1].Quantity != 1 {
		t.Errorf("other quantity: got %d, want 1", c.Lines[1].Quantity)
	}
}

func TestAdd_DoesNotMutateOriginal(t *testing.T) {
	base := cart.Cart{}.Add(marmita(t))
	_ = base.Add(marmita(t))

	if base.Lines[0].Quantity != 1 {
		t.Errorf("original mutated: quantity %d, want 1", base.Lines[0].Quantity)
	}
}

func TestRemove_DropsLine(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).Add(refri(t)).Remove("MARMITA-M")

	if len(c.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(c.Lines))
	}
	if c.Lines[0].Code != "REFRI-LATA" {
		t.Errorf("remaining code: got %s, want REFRI-LATA", c.Lines[0].Code)
	}
}

func TestRemove_AbsentCodeIsNoop(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).Remove("NOPE")

	if len(c.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(c.Lines))
	}
}

func TestRemoveThenAdd_StartsAtOne(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).Add(marmita(t)).Add(marmita(t))
	c = c.Remove("MARMITA-M").Add(marmita(t))

	if c.Lines[0].Quantity != 1 {
		t.Errorf("quantity after remove+add: got %d, want 1", c.Lines[0].Quantity)
	}
}

func TestSetUpdate_Quantity(t *testing.T) {
	qty := int32(5)
	c := cart.Cart{}.Add(marmita(t)).SetUpdate("MARMITA-M", cart.Update{Quantity: &qty})

	if c.Lines[0].Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", c.Lines[0].Quantity)
	}
}

func TestSetUpdate_Notes(t *testing.T) {
	notes := "sem cebola"
	c := cart.Cart{}.Add(marmita(t)).SetUpdate("MARMITA-M", cart.Update{Notes: &notes})

	if c.Lines[0].Notes != "sem cebola" {
		t.Errorf("notes: got %q, want %q", c.Lines[0].Notes, "sem cebola")
	}
	if c.Lines[0].Quantity != 1 {
		t.Errorf("quantity changed: got %d, want 1", c.Lines[0].Quantity)
	}
}

func TestSetUpdate_QuantityOutOfRangeCoercesToMin(t *testing.T) {
	for _, qty := range []int32{0, -3, 101, 9999} {
		q := qty
		c := cart.Cart{}.Add(marmita(t)).SetUpdate("MARMITA-M", cart.Update{Quantity: &q})
		if c.Lines[0].Quantity != cart.MinQuantity {
			t.Errorf("quantity %d: got %d, want %d", qty, c.Lines[0].Quantity, cart.MinQuantity)
		}
	}
}

func TestSetUpdate_MaxQuantityAccepted(t *testing.T) {
	qty := int32(cart.MaxQuantity)
	c := cart.Cart{}.Add(marmita(t)).SetUpdate("MARMITA-M", cart.Update{Quantity: &qty})

	if c.Lines[0].Quantity != cart.MaxQuantity {
		t.Errorf("quantity: got %d, want %d", c.Lines[0].Quantity, cart.MaxQuantity)
	}
}

func TestSetUpdate_AbsentCodeIsNoop(t *testing.T) {
	qty := int32(5)
	c := cart.Cart{}.Add(marmita(t)).SetUpdate("NOPE", cart.Update{Quantity: &qty})

	if c.Lines[0].Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", c.Lines[0].Quantity)
	}
}

func TestSubtotal(t *testing.T) {
	qty := int32(2)
	c := cart.Cart{}.Add(marmita(t)).SetUpdate("MARMITA-M", cart.Update{Quantity: &qty}).Add(refri(t))

	// 2 x 22.00 + 1 x 6.00
	want := money(t, "50.00")
	if !c.Subtotal().Equal(want) {
		t.Errorf("subtotal: got %s, want %s", c.Subtotal(), want)
	}
}

func TestTotal_AddsDeliveryFee(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).SelectZone(money(t, "5.00"))

	want := money(t, "27.00")
	if !c.Total().Equal(want) {
		t.Errorf("total: got %s, want %s", c.Total(), want)
	}
}

func TestTotal_NoZoneSelected(t *testing.T) {
	c := cart.Cart{}.Add(refri(t))

	if !c.Total().Equal(c.Subtotal()) {
		t.Errorf("total without zone: got %s, want %s", c.Total(), c.Subtotal())
	}
}

func TestSelectZone_ReplacesFee(t *testing.T) {
	c := cart.Cart{}.Add(marmita(t)).SelectZone(money(t, "5.00")).SelectZone(money(t, "8.50"))

	want := money(t, "30.50")
	if !c.Total().Equal(want) {
		t.Errorf("total: got %s, want %s", c.Total(), want)
	}
}

func TestEmpty(t *testing.T) {
	var c cart.Cart
	if !c.Empty() {
		t.Error("zero cart should be empty")
	}

	c = c.Add(marmita(t))
	if c.Empty() {
		t.Error("cart with a line should not be empty")
	}

	c = c.Remove("MARMITA-M")
	if !c.Empty() {
		t.Error("cart emptied by remove should be empty")
	}
}

func TestSubtotal_EmptyCartIsZero(t *testing.T) {
	var c cart.Cart
	if !c.Subtotal().IsZero() {
		t.Errorf("subtotal: got %s, want 0", c.Subtotal())
	}
}

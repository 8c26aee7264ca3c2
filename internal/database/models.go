package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Customer is identified by its local phone number (8 or 9 digits).
type Customer struct {
	Phone     string
	Name      string
	TaxID     pgtype.Text
	Address   string
	ZoneID    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Zone is a delivery area with a flat fee.
type Zone struct {
	ID           int32
	Neighborhood string
	DeliveryFee  pgtype.Numeric
}

// CatalogItem is a sellable menu entry keyed by its item code.
type CatalogItem struct {
	Code  string
	Name  string
	Price pgtype.Numeric
}

// Order references an existing customer and zone; its lines live in
// order_lines and are always written in the same transaction.
type Order struct {
	ID              int32
	Status          string
	CustomerPhone   string
	PlacedAt        time.Time
	ZoneID          int32
	Notes           pgtype.Text
	Shift           string
	PaymentMethod   string
	DeliveryAddress string
}

// OrderLine is one catalog item on an order. Composite key (order_id, item_code).
type OrderLine struct {
	OrderID  int32
	ItemCode string
	Quantity int32
	Notes    pgtype.Text
}

// ConfigVariable is a named string setting, including the stored access secrets.
type ConfigVariable struct {
	Name  string
	Value string
}

package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (status, customer_phone, placed_at, zone_id, notes, shift, payment_method, delivery_address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, status, customer_phone, placed_at, zone_id, notes, shift, payment_method, delivery_address
`

type CreateOrderParams struct {
	Status          string
	CustomerPhone   string
	PlacedAt        time.Time
	ZoneID          int32
	Notes           pgtype.Text
	Shift           string
	PaymentMethod   string
	DeliveryAddress string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.Status, arg.CustomerPhone, arg.PlacedAt, arg.ZoneID,
		arg.Notes, arg.Shift, arg.PaymentMethod, arg.DeliveryAddress)
	var o Order
	err := row.Scan(&o.ID, &o.Status, &o.CustomerPhone, &o.PlacedAt, &o.ZoneID,
		&o.Notes, &o.Shift, &o.PaymentMethod, &o.DeliveryAddress)
	return o, err
}

const createOrderLine = `
INSERT INTO order_lines (order_id, item_code, quantity, notes)
VALUES ($1, $2, $3, $4)
RETURNING order_id, item_code, quantity, notes
`

type CreateOrderLineParams struct {
	OrderID  int32
	ItemCode string
	Quantity int32
	Notes    pgtype.Text
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, createOrderLine, arg.OrderID, arg.ItemCode, arg.Quantity, arg.Notes)
	var l OrderLine
	err := row.Scan(&l.OrderID, &l.ItemCode, &l.Quantity, &l.Notes)
	return l, err
}

const getOrder = `
SELECT id, status, customer_phone, placed_at, zone_id, notes, shift, payment_method, delivery_address
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id int32) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.Status, &o.CustomerPhone, &o.PlacedAt, &o.ZoneID,
		&o.Notes, &o.Shift, &o.PaymentMethod, &o.DeliveryAddress)
	return o, err
}

const listOrders = `
SELECT o.id, o.status, o.customer_phone, o.placed_at, o.zone_id, o.notes, o.shift, o.payment_method, o.delivery_address
FROM orders o
JOIN customers c ON c.phone = o.customer_phone
WHERE ($1::text IS NULL OR c.name ILIKE '%' || $1 || '%')
  AND ($2::text IS NULL OR o.status = $2)
  AND ($3::text IS NULL OR o.shift = $3)
  AND ($4::timestamptz IS NULL OR o.placed_at >= $4)
  AND ($5::timestamptz IS NULL OR o.placed_at <= $5)
ORDER BY
  CASE WHEN $6::bool THEN o.placed_at END ASC,
  CASE WHEN NOT $6::bool THEN o.placed_at END DESC
`

// ListOrdersParams filters are optional: invalid (NULL) fields match everything.
type ListOrdersParams struct {
	CustomerName pgtype.Text
	Status       pgtype.Text
	Shift        pgtype.Text
	PlacedFrom   pgtype.Timestamptz
	PlacedUntil  pgtype.Timestamptz
	OldestFirst  bool
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.CustomerName, arg.Status, arg.Shift, arg.PlacedFrom, arg.PlacedUntil, arg.OldestFirst)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.CustomerPhone, &o.PlacedAt, &o.ZoneID,
			&o.Notes, &o.Shift, &o.PaymentMethod, &o.DeliveryAddress); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const updateOrder = `
UPDATE orders
SET status           = COALESCE($2, status),
    placed_at        = COALESCE($3, placed_at),
    zone_id          = COALESCE($4, zone_id),
    notes            = COALESCE($5, notes),
    shift            = COALESCE($6, shift),
    payment_method   = COALESCE($7, payment_method),
    delivery_address = COALESCE($8, delivery_address)
WHERE id = $1
RETURNING id, status, customer_phone, placed_at, zone_id, notes, shift, payment_method, delivery_address
`

// UpdateOrderParams carries partial updates: invalid (NULL) fields keep
// their current value.
type UpdateOrderParams struct {
	ID              int32
	Status          pgtype.Text
	PlacedAt        pgtype.Timestamptz
	ZoneID          pgtype.Int4
	Notes           pgtype.Text
	Shift           pgtype.Text
	PaymentMethod   pgtype.Text
	DeliveryAddress pgtype.Text
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID, arg.Status, arg.PlacedAt, arg.ZoneID,
		arg.Notes, arg.Shift, arg.PaymentMethod, arg.DeliveryAddress)
	var o Order
	err := row.Scan(&o.ID, &o.Status, &o.CustomerPhone, &o.PlacedAt, &o.ZoneID,
		&o.Notes, &o.Shift, &o.PaymentMethod, &o.DeliveryAddress)
	return o, err
}

const deleteOrderLines = `
DELETE FROM order_lines
WHERE order_id = $1
`

func (q *Queries) DeleteOrderLines(ctx context.Context, orderID int32) error {
	_, err := q.db.Exec(ctx, deleteOrderLines, orderID)
	return err
}

const deleteOrder = `
DELETE FROM orders
WHERE id = $1
RETURNING id, status, customer_phone, placed_at, zone_id, notes, shift, payment_method, delivery_address
`

func (q *Queries) DeleteOrder(ctx context.Context, id int32) (Order, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var o Order
	err := row.Scan(&o.ID, &o.Status, &o.CustomerPhone, &o.PlacedAt, &o.ZoneID,
		&o.Notes, &o.Shift, &o.PaymentMethod, &o.DeliveryAddress)
	return o, err
}

const listOrderLines = `
SELECT l.order_id, l.item_code, l.quantity, l.notes, i.name, i.price
FROM order_lines l
JOIN catalog_items i ON i.code = l.item_code
WHERE l.order_id = $1
ORDER BY l.item_code
`

// ListOrderLinesRow is an order line with its catalog item detail attached.
type ListOrderLinesRow struct {
	OrderID   int32
	ItemCode  string
	Quantity  int32
	Notes     pgtype.Text
	ItemName  string
	ItemPrice pgtype.Numeric
}

func (q *Queries) ListOrderLines(ctx context.Context, orderID int32) ([]ListOrderLinesRow, error) {
	rows, err := q.db.Query(ctx, listOrderLines, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderLinesRow
	for rows.Next() {
		var l ListOrderLinesRow
		if err := rows.Scan(&l.OrderID, &l.ItemCode, &l.Quantity, &l.Notes, &l.ItemName, &l.ItemPrice); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

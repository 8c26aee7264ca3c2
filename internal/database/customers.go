package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCustomer = `
SELECT phone, name, tax_id, address, zone_id, created_at, updated_at
FROM customers
WHERE phone = $1
`

func (q *Queries) GetCustomer(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomer, phone)
	var c Customer
	err := row.Scan(&c.Phone, &c.Name, &c.TaxID, &c.Address, &c.ZoneID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCustomers = `
SELECT phone, name, tax_id, address, zone_id, created_at, updated_at
FROM customers
ORDER BY name
`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.Phone, &c.Name, &c.TaxID, &c.Address, &c.ZoneID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const createCustomer = `
INSERT INTO customers (phone, name, tax_id, address, zone_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING phone, name, tax_id, address, zone_id, created_at, updated_at
`

type CreateCustomerParams struct {
	Phone   string
	Name    string
	TaxID   pgtype.Text
	Address string
	ZoneID  int32
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer, arg.Phone, arg.Name, arg.TaxID, arg.Address, arg.ZoneID)
	var c Customer
	err := row.Scan(&c.Phone, &c.Name, &c.TaxID, &c.Address, &c.ZoneID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCustomer = `
UPDATE customers
SET name       = COALESCE($2, name),
    tax_id     = COALESCE($3, tax_id),
    address    = COALESCE($4, address),
    zone_id    = COALESCE($5, zone_id),
    updated_at = now()
WHERE phone = $1
RETURNING phone, name, tax_id, address, zone_id, created_at, updated_at
`

// UpdateCustomerParams carries partial updates: invalid (NULL) fields keep
// their current value.
type UpdateCustomerParams struct {
	Phone   string
	Name    pgtype.Text
	TaxID   pgtype.Text
	Address pgtype.Text
	ZoneID  pgtype.Int4
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, updateCustomer, arg.Phone, arg.Name, arg.TaxID, arg.Address, arg.ZoneID)
	var c Customer
	err := row.Scan(&c.Phone, &c.Name, &c.TaxID, &c.Address, &c.ZoneID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCustomer = `
DELETE FROM customers
WHERE phone = $1
RETURNING phone, name, tax_id, address, zone_id, created_at, updated_at
`

func (q *Queries) DeleteCustomer(ctx context.Context, phone string) (Customer, error) {
	row := q.db.QueryRow(ctx, deleteCustomer, phone)
	var c Customer
	err := row.Scan(&c.Phone, &c.Name, &c.TaxID, &c.Address, &c.ZoneID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCatalogItem = `
SELECT code, name, price
FROM catalog_items
WHERE code = $1
`

func (q *Queries) GetCatalogItem(ctx context.Context, code string) (CatalogItem, error) {
	row := q.db.QueryRow(ctx, getCatalogItem, code)
	var it CatalogItem
	err := row.Scan(&it.Code, &it.Name, &it.Price)
	return it, err
}

const listCatalogItems = `
SELECT code, name, price
FROM catalog_items
ORDER BY name
`

func (q *Queries) ListCatalogItems(ctx context.Context) ([]CatalogItem, error) {
	rows, err := q.db.Query(ctx, listCatalogItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogItem
	for rows.Next() {
		var it CatalogItem
		if err := rows.Scan(&it.Code, &it.Name, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const createCatalogItem = `
INSERT INTO catalog_items (code, name, price)
VALUES ($1, $2, $3)
RETURNING code, name, price
`

type CreateCatalogItemParams struct {
	Code  string
	Name  string
	Price pgtype.Numeric
}

func (q *Queries) CreateCatalogItem(ctx context.Context, arg CreateCatalogItemParams) (CatalogItem, error) {
	row := q.db.QueryRow(ctx, createCatalogItem, arg.Code, arg.Name, arg.Price)
	var it CatalogItem
	err := row.Scan(&it.Code, &it.Name, &it.Price)
	return it, err
}

const updateCatalogItem = `
UPDATE catalog_items
SET name  = COALESCE($2, name),
    price = COALESCE($3, price)
WHERE code = $1
RETURNING code, name, price
`

type UpdateCatalogItemParams struct {
	Code  string
	Name  pgtype.Text
	Price pgtype.Numeric
}

func (q *Queries) UpdateCatalogItem(ctx context.Context, arg UpdateCatalogItemParams) (CatalogItem, error) {
	row := q.db.QueryRow(ctx, updateCatalogItem, arg.Code, arg.Name, arg.Price)
	var it CatalogItem
	err := row.Scan(&it.Code, &it.Name, &it.Price)
	return it, err
}

const deleteCatalogItem = `
DELETE FROM catalog_items
WHERE code = $1
RETURNING code, name, price
`

func (q *Queries) DeleteCatalogItem(ctx context.Context, code string) (CatalogItem, error) {
	row := q.db.QueryRow(ctx, deleteCatalogItem, code)
	var it CatalogItem
	err := row.Scan(&it.Code, &it.Name, &it.Price)
	return it, err
}

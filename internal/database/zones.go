package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getZone = `
SELECT id, neighborhood, delivery_fee
FROM zones
WHERE id = $1
`

func (q *Queries) GetZone(ctx context.Context, id int32) (Zone, error) {
	row := q.db.QueryRow(ctx, getZone, id)
	var z Zone
	err := row.Scan(&z.ID, &z.Neighborhood, &z.DeliveryFee)
	return z, err
}

const listZones = `
SELECT id, neighborhood, delivery_fee
FROM zones
ORDER BY neighborhood
`

func (q *Queries) ListZones(ctx context.Context) ([]Zone, error) {
	rows, err := q.db.Query(ctx, listZones)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Neighborhood, &z.DeliveryFee); err != nil {
			return nil, err
		}
		items = append(items, z)
	}
	return items, rows.Err()
}

const createZone = `
INSERT INTO zones (neighborhood, delivery_fee)
VALUES ($1, $2)
RETURNING id, neighborhood, delivery_fee
`

type CreateZoneParams struct {
	Neighborhood string
	DeliveryFee  pgtype.Numeric
}

func (q *Queries) CreateZone(ctx context.Context, arg CreateZoneParams) (Zone, error) {
	row := q.db.QueryRow(ctx, createZone, arg.Neighborhood, arg.DeliveryFee)
	var z Zone
	err := row.Scan(&z.ID, &z.Neighborhood, &z.DeliveryFee)
	return z, err
}

const updateZone = `
UPDATE zones
SET neighborhood = COALESCE($2, neighborhood),
    delivery_fee = COALESCE($3, delivery_fee)
WHERE id = $1
RETURNING id, neighborhood, delivery_fee
`

type UpdateZoneParams struct {
	ID           int32
	Neighborhood pgtype.Text
	DeliveryFee  pgtype.Numeric
}

func (q *Queries) UpdateZone(ctx context.Context, arg UpdateZoneParams) (Zone, error) {
	row := q.db.QueryRow(ctx, updateZone, arg.ID, arg.Neighborhood, arg.DeliveryFee)
	var z Zone
	err := row.Scan(&z.ID, &z.Neighborhood, &z.DeliveryFee)
	return z, err
}

const deleteZone = `
DELETE FROM zones
WHERE id = $1
RETURNING id, neighborhood, delivery_fee
`

func (q *Queries) DeleteZone(ctx context.Context, id int32) (Zone, error) {
	row := q.db.QueryRow(ctx, deleteZone, id)
	var z Zone
	err := row.Scan(&z.ID, &z.Neighborhood, &z.DeliveryFee)
	return z, err
}

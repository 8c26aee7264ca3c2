package database

import "context"

const getConfigVariable = `
SELECT name, value
FROM config_variables
WHERE name = $1
`

func (q *Queries) GetConfigVariable(ctx context.Context, name string) (ConfigVariable, error) {
	row := q.db.QueryRow(ctx, getConfigVariable, name)
	var v ConfigVariable
	err := row.Scan(&v.Name, &v.Value)
	return v, err
}

const listConfigVariables = `
SELECT name, value
FROM config_variables
ORDER BY name
`

func (q *Queries) ListConfigVariables(ctx context.Context) ([]ConfigVariable, error) {
	rows, err := q.db.Query(ctx, listConfigVariables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ConfigVariable
	for rows.Next() {
		var v ConfigVariable
		if err := rows.Scan(&v.Name, &v.Value); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const createConfigVariable = `
INSERT INTO config_variables (name, value)
VALUES ($1, $2)
RETURNING name, value
`

type CreateConfigVariableParams struct {
	Name  string
	Value string
}

func (q *Queries) CreateConfigVariable(ctx context.Context, arg CreateConfigVariableParams) (ConfigVariable, error) {
	row := q.db.QueryRow(ctx, createConfigVariable, arg.Name, arg.Value)
	var v ConfigVariable
	err := row.Scan(&v.Name, &v.Value)
	return v, err
}

const updateConfigVariable = `
UPDATE config_variables
SET value = $2
WHERE name = $1
RETURNING name, value
`

type UpdateConfigVariableParams struct {
	Name  string
	Value string
}

func (q *Queries) UpdateConfigVariable(ctx context.Context, arg UpdateConfigVariableParams) (ConfigVariable, error) {
	row := q.db.QueryRow(ctx, updateConfigVariable, arg.Name, arg.Value)
	var v ConfigVariable
	err := row.Scan(&v.Name, &v.Value)
	return v, err
}

const deleteConfigVariable = `
DELETE FROM config_variables
WHERE name = $1
RETURNING name, value
`

func (q *Queries) DeleteConfigVariable(ctx context.Context, name string) (ConfigVariable, error) {
	row := q.db.QueryRow(ctx, deleteConfigVariable, name)
	var v ConfigVariable
	err := row.Scan(&v.Name, &v.Value)
	return v, err
}

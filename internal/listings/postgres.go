package listings

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresQuerier executes select queries against a lib/pq pool.
type PostgresQuerier struct {
	db *sql.DB
}

func NewPostgresQuerier(db *sql.DB) *PostgresQuerier {
	return &PostgresQuerier{db: db}
}

func (p *PostgresQuerier) Select(ctx context.Context, q SelectQuery) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx, q.SQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(Record, len(cols))
		for i, name := range cols {
			// uuid and text columns arrive as []byte
			if b, ok := values[i].([]byte); ok {
				rec[name] = string(b)
				continue
			}
			rec[name] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

package listings

import (
	"context"
	"strings"

	"github.com/lib/pq"
)

// Record is one result row keyed by output column name.
type Record map[string]interface{}

// Querier runs read-only select queries.
type Querier interface {
	Select(ctx context.Context, q SelectQuery) ([]Record, error)
}

type Column struct {
	Table string
	Name  string
	Alias string
}

// OutputName is the key the column appears under in a Record.
func (c Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

func (c Column) qualified() string {
	return pq.QuoteIdentifier(c.Table) + "." + pq.QuoteIdentifier(c.Name)
}

func (c Column) key() string {
	return c.Table + "." + c.Name
}

// Join is an inner join of Table on Left = Right.
type Join struct {
	Table string
	Left  Column
	Right Column
}

type SelectQuery struct {
	Columns []Column
	From    string
	Joins   []Join
	OrderBy Column
}

// SQL renders the query for PostgreSQL.
func (q SelectQuery) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, col := range q.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.qualified())
		b.WriteString(" AS ")
		b.WriteString(pq.QuoteIdentifier(col.OutputName()))
	}

	b.WriteString(" FROM ")
	b.WriteString(pq.QuoteIdentifier(q.From))

	for _, j := range q.Joins {
		b.WriteString(" INNER JOIN ")
		b.WriteString(pq.QuoteIdentifier(j.Table))
		b.WriteString(" ON ")
		b.WriteString(j.Left.qualified())
		b.WriteString(" = ")
		b.WriteString(j.Right.qualified())
	}

	if q.OrderBy.Name != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy.qualified())
	}
	return b.String()
}

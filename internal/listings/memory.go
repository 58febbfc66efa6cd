package listings

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// MemoryQuerier evaluates select queries over in-memory tables. Rows are
// keyed by column name. Join and ordering follow PostgreSQL: NULL never
// matches in a join and sorts last ascending.
type MemoryQuerier struct {
	mu     sync.RWMutex
	tables map[string][]Record
	err    error
}

func NewMemoryQuerier() *MemoryQuerier {
	return &MemoryQuerier{tables: make(map[string][]Record)}
}

// Insert appends rows to table.
func (m *MemoryQuerier) Insert(table string, rows ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

// FailWith makes every following Select return err. nil clears it.
func (m *MemoryQuerier) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryQuerier) Select(ctx context.Context, q SelectQuery) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	from, ok := m.tables[q.From]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", q.From)
	}

	// joined rows are keyed by table.column
	joined := make([]Record, 0, len(from))
	for _, r := range from {
		joined = append(joined, qualify(q.From, r))
	}

	for _, j := range q.Joins {
		right, ok := m.tables[j.Table]
		if !ok {
			return nil, fmt.Errorf("relation %q does not exist", j.Table)
		}

		next := make([]Record, 0, len(joined))
		for _, l := range joined {
			lv := l[j.Left.key()]
			if lv == nil {
				continue
			}
			for _, r := range right {
				rv := r[j.Right.Name]
				if rv == nil || !reflect.DeepEqual(lv, rv) {
					continue
				}
				merged := make(Record, len(l)+len(r))
				for k, v := range l {
					merged[k] = v
				}
				for k, v := range qualify(j.Table, r) {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		joined = next
	}

	if q.OrderBy.Name != "" {
		key := q.OrderBy.key()
		sort.SliceStable(joined, func(a, b int) bool {
			return lessNullsLast(joined[a][key], joined[b][key])
		})
	}

	out := make([]Record, 0, len(joined))
	for _, row := range joined {
		rec := make(Record, len(q.Columns))
		for _, col := range q.Columns {
			rec[col.OutputName()] = row[col.key()]
		}
		out = append(out, rec)
	}
	return out, nil
}

func qualify(table string, r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[table+"."+k] = v
	}
	return out
}

func lessNullsLast(a, b interface{}) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af < bf
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

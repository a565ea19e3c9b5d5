package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"videostudio/internal/infra"
)

// fakeSQL answers queries from per-query handlers. A missing handler, or a
// handler returning nil, behaves like an empty result set.
type fakeSQL struct {
	rows    map[string]func(args []any) []any
	lists   map[string][][]any
	calls   []call
	commits int
	rollbks int
}

type call struct {
	query string
	args  []any
}

func newFakeSQL() *fakeSQL {
	return &fakeSQL{rows: map[string]func([]any) []any{}, lists: map[string][][]any{}}
}

func (f *fakeSQL) on(query string, vals ...any) {
	f.rows[query] = func([]any) []any { return vals }
}

func (f *fakeSQL) argsOf(query string) []any {
	for _, c := range f.calls {
		if c.query == query {
			return c.args
		}
	}
	return nil
}

func (f *fakeSQL) count(query string) int {
	n := 0
	for _, c := range f.calls {
		if c.query == query {
			n++
		}
	}
	return n
}

func (f *fakeSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if h, ok := f.rows[query]; ok {
		vals := h(args)
		if len(vals) == 1 {
			if n, ok := vals[0].(int); ok {
				return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil
			}
		}
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args})
	h, ok := f.rows[query]
	if !ok {
		return fakeRow{}
	}
	vals := h(args)
	return fakeRow{vals: vals, ok: vals != nil}
}

func (f *fakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	return &fakeRows{data: f.lists[query], idx: -1}, nil
}

func (f *fakeSQL) WithTx(ctx context.Context, fn func(tx infra.SQLExecutor) error) error {
	if err := fn(f); err != nil {
		f.rollbks++
		return err
	}
	f.commits++
	return nil
}

type fakeRow struct {
	vals []any
	ok   bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.ok {
		return pgx.ErrNoRows
	}
	return assign(dest, r.vals)
}

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		v := reflect.ValueOf(vals[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

type fakeRows struct {
	data [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.idx++; return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error                       { return assign(dest, r.data[r.idx]) }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

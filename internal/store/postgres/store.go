// Package postgres implements the row store against a Postgres database, the
// primary data source behind the dashboard tables.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
	"github.com/finboard/finboard/internal/store"
)

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store db: %w", err)
	}

	return db, nil
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Fetch(ctx context.Context, table schema.Table) store.Result {
	return s.run(ctx, schema.Normalize(string(table)), nil, nil, 0)
}

func (s *Store) FetchByDescriptor(ctx context.Context, d descriptor.QueryDescriptor) store.Result {
	table := schema.Normalize(d.Table)

	var preds []predicate
	for _, f := range d.Filters {
		field, ok := schema.ResolveField(table, f.Field)
		if !ok {
			// Unknown fields are dropped, not errors.
			continue
		}
		op := f.Op
		if op == "" {
			op = defaultOperator(table, field)
		}
		preds = append(preds, predicate{Field: field, Op: op, Value: f.Value})
	}

	var order *orderBy
	if d.Sort != nil {
		if field, ok := schema.ResolveField(table, d.Sort.Field); ok {
			order = &orderBy{Field: field, Desc: d.Sort.Descending()}
		}
	}

	limit := d.Limit
	if limit <= 0 || limit > store.MaxFetchRows {
		limit = store.MaxFetchRows
	}
	return s.run(ctx, table, preds, order, limit)
}

// defaultOperator picks the operator for a filter that did not name one:
// substring match on text columns, lower bound on numeric and date columns.
// This mirrors what the table engine does when it re-applies the filter.
func defaultOperator(table schema.Table, field string) descriptor.Operator {
	if f, ok := schema.FieldByName(table, field); ok {
		switch f.Type {
		case schema.FieldNumber, schema.FieldDate:
			return descriptor.OpGte
		}
	}
	return descriptor.OpContains
}

type predicate struct {
	Field string
	Op    descriptor.Operator
	Value interface{}
}

type orderBy struct {
	Field string
	Desc  bool
}

// run executes the paged fetch loop: strictly increasing offsets in
// FetchPageSize chunks, stopping on the first short or empty page, which is
// the only end-of-data signal the source gives.
func (s *Store) run(ctx context.Context, table schema.Table, preds []predicate, order *orderBy, limit int) store.Result {
	if limit <= 0 || limit > store.MaxFetchRows {
		limit = store.MaxFetchRows
	}

	var records []map[string]interface{}
	for offset := 0; offset < limit; offset += store.FetchPageSize {
		pageSize := store.FetchPageSize
		if remaining := limit - offset; remaining < pageSize {
			pageSize = remaining
		}
		page, err := s.queryPage(ctx, table, preds, order, pageSize, offset)
		if err != nil {
			s.logger.Error("store query failed", "table", table, "error", err)
			return store.Result{Message: fmt.Sprintf("Ошибка запроса к источнику данных: %v", err)}
		}
		records = append(records, page...)
		if len(page) < pageSize {
			break
		}
	}

	rs := rowset.BuildFromRecords(table, records)
	return store.Result{Columns: rs.Columns, Rows: rs.Rows}
}

func (s *Store) queryPage(ctx context.Context, table schema.Table, preds []predicate, order *orderBy, limit, offset int) ([]map[string]interface{}, error) {
	query, args := buildQuery(table, preds, order, limit, offset)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(map[string]interface{}, len(cols)+1)
		for i, col := range cols {
			rec[col] = normalizeValue(values[i])
		}
		rowset.SetKeyOrder(rec, cols)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// buildQuery renders one page query. Table names come from the closed
// enumeration and field names from the registry, so identifier quoting is
// plain double-quote doubling.
func buildQuery(table schema.Table, preds []predicate, order *orderBy, limit, offset int) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}

	fmt.Fprintf(&b, "SELECT * FROM %s", quoteIdent(string(table)))

	for i, p := range preds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		writePredicate(&b, &args, p)
	}

	if order != nil {
		dir := "ASC"
		if order.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", quoteIdent(order.Field), dir)
	}

	args = append(args, limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	return b.String(), args
}

func writePredicate(b *strings.Builder, args *[]interface{}, p predicate) {
	ident := quoteIdent(p.Field)
	switch p.Op {
	case descriptor.OpEq:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s = $%d", ident, len(*args))
	case descriptor.OpGt:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s > $%d", ident, len(*args))
	case descriptor.OpGte:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s >= $%d", ident, len(*args))
	case descriptor.OpLt:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s < $%d", ident, len(*args))
	case descriptor.OpLte:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s <= $%d", ident, len(*args))
	case descriptor.OpContains:
		*args = append(*args, containsPattern(p.Value))
		fmt.Fprintf(b, "%s ILIKE $%d", ident, len(*args))
	case descriptor.OpIn:
		members := inMembers(p.Value)
		if len(members) == 0 {
			b.WriteString("FALSE")
			return
		}
		placeholders := make([]string, len(members))
		for i, m := range members {
			*args = append(*args, m)
			placeholders[i] = fmt.Sprintf("$%d", len(*args))
		}
		fmt.Fprintf(b, "%s IN (%s)", ident, strings.Join(placeholders, ", "))
	default:
		*args = append(*args, p.Value)
		fmt.Fprintf(b, "%s = $%d", ident, len(*args))
	}
}

// containsPattern wraps a value for case-insensitive substring match, passing
// through callers that already supplied wildcard syntax.
func containsPattern(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if strings.Contains(s, "%") {
		return s
	}
	return "%" + s + "%"
}

func inMembers(v interface{}) []interface{} {
	if arr, ok := v.([]interface{}); ok {
		return arr
	}
	if v == nil {
		return nil
	}
	return []interface{}{v}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue flattens driver types into the plain values the rowset layer
// understands.
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format("2006-01-02T15:04:05Z07:00")
	default:
		return v
	}
}

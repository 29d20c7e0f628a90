package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Table is a repository over one table whose rows map onto T through db tags.
// The table must have a text primary key "id" and created_at/updated_at columns.
type Table[T any] struct {
	db      *sql.DB
	name    string
	columns []Column
	selects string
}

func NewTable[T any](db *sql.DB, name string) *Table[T] {
	var zero T
	cols := ColumnsOf(reflect.TypeOf(zero))
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col.Name)
	}
	return &Table[T]{
		db:      db,
		name:    pq.QuoteIdentifier(name),
		columns: cols,
		selects: strings.Join(quoted, ", "),
	}
}

func (t *Table[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.selects, t.name)
	item, err := t.scan(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return item, nil
}

// List returns one page of rows matching q and the total number of matches.
func (t *Table[T]) List(ctx context.Context, q Query) ([]T, int, error) {
	where, args := buildWhere(q.Where)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, t.name, where)
	if err := t.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT %s FROM %s%s`, t.selects, t.name, where)
	b.WriteString(buildOrder(q.Order))
	if q.Limit > 0 {
		args = append(args, q.Limit, q.Offset)
		fmt.Fprintf(&b, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := t.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Insert writes a new row. The id and timestamps are assigned here.
func (t *Table[T]) Insert(ctx context.Context, fields Fields) (T, error) {
	now := time.Now().UTC()
	row := Fields{}
	for k, v := range fields {
		row[k] = v
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	row["created_at"] = now
	row["updated_at"] = now

	names, args := splitFields(row)
	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.name,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		t.selects,
	)
	item, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, mapError(err)
	}
	return item, nil
}

// Update writes only the given columns and returns the updated row.
func (t *Table[T]) Update(ctx context.Context, id string, fields Fields) (T, error) {
	row := Fields{}
	for k, v := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		row[k] = v
	}
	row["updated_at"] = time.Now().UTC()

	names, args := splitFields(row)
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = $%d", name, i+1)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		t.name,
		strings.Join(sets, ", "),
		len(args),
		t.selects,
	)
	item, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, mapError(err)
	}
	return item, nil
}

func (t *Table[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)
	result, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (t *Table[T]) scan(row rowScanner) (T, error) {
	var item T
	rv := reflect.ValueOf(&item).Elem()
	dest := make([]any, len(t.columns))
	for i, col := range t.columns {
		dest[i] = rv.FieldByIndex(col.Index).Addr().Interface()
	}
	err := row.Scan(dest...)
	return item, err
}

// splitFields returns quoted column names and their values in a stable order.
func splitFields(fields Fields) ([]string, []any) {
	keys := sortedKeys(fields)
	names := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		names[i] = pq.QuoteIdentifier(k)
		args[i] = fields[k]
	}
	return names, args
}

func buildWhere(cond Cond) (string, []any) {
	if len(cond) == 0 {
		return "", nil
	}
	keys := sortedKeys(cond)
	clauses := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		clauses[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), i+1)
		args[i] = cond[k]
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildOrder(order []Order) string {
	if len(order) == 0 {
		return ""
	}
	terms := make([]string, len(order))
	for i, o := range order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms[i] = pq.QuoteIdentifier(o.Column) + " " + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

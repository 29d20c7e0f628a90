// Package testutil provides in-memory repositories for unit tests.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loreycode/cms-api/internal/store"
)

// Collection is an in-memory store.Table replacement. Rows are kept as T
// values and fields are applied through db tags.
type Collection[T any] struct {
	mu    sync.Mutex
	rows  map[string]*entry[T]
	seq   int
	cols  map[string]store.Column
	now   func() time.Time
	last  time.Time
	Fail  error
	Calls int
}

type entry[T any] struct {
	seq  int
	item T
}

func NewCollection[T any]() *Collection[T] {
	var zero T
	cols := map[string]store.Column{}
	for _, c := range store.ColumnsOf(reflect.TypeOf(zero)) {
		cols[c.Name] = c
	}
	return &Collection[T]{
		rows: map[string]*entry[T]{},
		cols: cols,
		now:  time.Now,
	}
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	var zero T
	if c.Fail != nil {
		return zero, c.Fail
	}
	e, ok := c.rows[id]
	if !ok {
		return zero, store.ErrNotFound
	}
	return e.item, nil
}

func (c *Collection[T]) List(_ context.Context, q store.Query) ([]T, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return nil, 0, c.Fail
	}

	matched := make([]*entry[T], 0, len(c.rows))
	for _, e := range c.rows {
		if c.matches(e.item, q.Where) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range q.Order {
			cmp := compare(c.value(matched[i].item, o.Column), c.value(matched[j].item, o.Column))
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return matched[i].seq < matched[j].seq
	})

	total := len(matched)
	if q.Limit > 0 {
		start := min(q.Offset, total)
		end := min(start+q.Limit, total)
		matched = matched[start:end]
	}
	items := make([]T, 0, len(matched))
	for _, e := range matched {
		items = append(items, e.item)
	}
	return items, total, nil
}

func (c *Collection[T]) Insert(_ context.Context, fields store.Fields) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	var item T
	if c.Fail != nil {
		return item, c.Fail
	}

	now := c.tick()
	row := store.Fields{"id": uuid.NewString(), "created_at": now, "updated_at": now}
	for k, v := range fields {
		row[k] = v
	}
	if err := c.apply(&item, row); err != nil {
		return item, err
	}
	id := fmt.Sprint(row["id"])
	if _, exists := c.rows[id]; exists {
		return item, store.ErrConflict
	}
	c.seq++
	c.rows[id] = &entry[T]{seq: c.seq, item: item}
	return item, nil
}

func (c *Collection[T]) Update(_ context.Context, id string, fields store.Fields) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	var zero T
	if c.Fail != nil {
		return zero, c.Fail
	}
	e, ok := c.rows[id]
	if !ok {
		return zero, store.ErrNotFound
	}
	item := e.item
	row := store.Fields{"updated_at": c.tick()}
	for k, v := range fields {
		if k != "id" && k != "created_at" {
			row[k] = v
		}
	}
	if err := c.apply(&item, row); err != nil {
		return zero, err
	}
	e.item = item
	return item, nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Fail != nil {
		return c.Fail
	}
	if _, ok := c.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.rows, id)
	return nil
}

// tick returns a strictly increasing timestamp so creation order is stable.
func (c *Collection[T]) tick() time.Time {
	now := c.now().UTC().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

// Len returns the number of stored rows.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

func (c *Collection[T]) matches(item T, cond store.Cond) bool {
	for col, want := range cond {
		if compare(c.value(item, col), deref(reflect.ValueOf(want))) != 0 {
			return false
		}
	}
	return true
}

func (c *Collection[T]) value(item T, column string) reflect.Value {
	col, ok := c.cols[column]
	if !ok {
		return reflect.Value{}
	}
	return deref(reflect.ValueOf(item).FieldByIndex(col.Index))
}

func (c *Collection[T]) apply(item *T, fields store.Fields) error {
	rv := reflect.ValueOf(item).Elem()
	for name, value := range fields {
		col, ok := c.cols[name]
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		if err := assign(rv.FieldByIndex(col.Index), value); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
	}
	return nil
}

// assign stores value into field the way the SQL driver round trip would:
// nil clears pointers, pointers are dereferenced and RFC 3339 strings parse into times.
func assign(field reflect.Value, value any) error {
	v := deref(reflect.ValueOf(value))
	if !v.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	target := field.Type()
	isPtr := target.Kind() == reflect.Pointer
	if isPtr {
		target = target.Elem()
	}

	if target == reflect.TypeOf(time.Time{}) && v.Kind() == reflect.String {
		parsed, err := time.Parse(time.RFC3339, v.String())
		if err != nil {
			return err
		}
		v = reflect.ValueOf(parsed)
	}
	if !v.Type().ConvertibleTo(target) {
		return fmt.Errorf("cannot assign %s to %s", v.Type(), target)
	}
	v = v.Convert(target)

	if isPtr {
		p := reflect.New(target)
		p.Elem().Set(v)
		field.Set(p)
		return nil
	}
	field.Set(v)
	return nil
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// compare orders values the way postgres does for the column types in use,
// with NULLs sorting last.
func compare(a, b reflect.Value) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return 1
	case !b.IsValid():
		return -1
	}
	if at, ok := a.Interface().(time.Time); ok {
		if bt, ok := b.Interface().(time.Time); ok {
			return at.Compare(bt)
		}
	}
	switch a.Kind() {
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmpInt(a.Int(), b.Int())
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package store

import (
	"reflect"
	"strings"
	"sync"
)

// Fields maps column names to values for an insert or a partial update.
// A nil value writes NULL.
type Fields map[string]any

// Cond filters rows by column equality. Conditions are ANDed.
type Cond map[string]any

// Order is one term of an ORDER BY clause.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a list read. A zero Limit returns every matching row.
type Query struct {
	Where  Cond
	Order  []Order
	Limit  int
	Offset int
}

// Column describes a struct field carrying a db tag.
type Column struct {
	Name     string
	JSON     string
	Nullable bool
	Index    []int
}

var columnCache sync.Map

// ColumnsOf returns the db-tagged fields of struct type t in declaration order.
// Fields tagged db:"-" are skipped.
func ColumnsOf(t reflect.Type) []Column {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]Column)
	}

	var cols []Column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		jsonName, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if jsonName == "" {
			jsonName = f.Name
		}
		cols = append(cols, Column{
			Name:     name,
			JSON:     jsonName,
			Nullable: opts == "nullable",
			Index:    f.Index,
		})
	}

	columnCache.Store(t, cols)
	return cols
}

// FieldsFrom collects the set fields of a request struct. Nil pointers are
// treated as absent and non-nil pointers are dereferenced.
func FieldsFrom(v any) Fields {
	rv := reflect.Indirect(reflect.ValueOf(v))
	fields := Fields{}
	for _, col := range ColumnsOf(rv.Type()) {
		fv := rv.FieldByIndex(col.Index)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		fields[col.Name] = fv.Interface()
	}
	return fields
}

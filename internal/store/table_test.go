package store

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/lib/pq"
	"github.com/loreycode/cms-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func TestFieldsFromSkipsAbsentFields(t *testing.T) {
	active := false
	order := 3
	fields := FieldsFrom(types.ServicePatch{
		Title:    strPtr("Consulting"),
		IsActive: &active,
		Order:    &order,
	})

	assert.Equal(t, Fields{
		"title":     "Consulting",
		"is_active": false,
		"order":     3,
	}, fields)
}

func TestFieldsFromInputKeepsRequiredValues(t *testing.T) {
	fields := FieldsFrom(&types.PageInput{Slug: "about", Title: "About us"})
	assert.Equal(t, Fields{"slug": "about", "title": "About us"}, fields)
}

func TestColumnsOfSkipsDashTag(t *testing.T) {
	cols := ColumnsOf(typeOf[types.Page]())
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.NotContains(t, names, "-")
	assert.Equal(t, []string{"id", "slug", "title", "description", "is_active", "created_at", "updated_at"}, names)
}

func TestColumnsOfReadsNullableOption(t *testing.T) {
	cols := ColumnsOf(typeOf[types.ProjectPatch]())
	byName := map[string]Column{}
	for _, c := range cols {
		byName[c.Name] = c
	}
	assert.True(t, byName["live_url"].Nullable)
	assert.Equal(t, "liveUrl", byName["live_url"].JSON)
	assert.False(t, byName["title"].Nullable)
}

func TestBuildWhereIsDeterministic(t *testing.T) {
	where, args := buildWhere(Cond{"page_id": "p1", "is_active": true})
	assert.Equal(t, ` WHERE "is_active" = $1 AND "page_id" = $2`, where)
	assert.Equal(t, []any{true, "p1"}, args)

	where, args = buildWhere(nil)
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestBuildOrderQuotesReservedWords(t *testing.T) {
	got := buildOrder([]Order{{Column: "order"}, {Column: "created_at", Desc: true}})
	assert.Equal(t, ` ORDER BY "order" ASC, "created_at" DESC`, got)
	assert.Empty(t, buildOrder(nil))
}

func TestMapError(t *testing.T) {
	require.ErrorIs(t, mapError(&pq.Error{Code: "23505"}), ErrConflict)
	require.ErrorIs(t, mapError(fmt.Errorf("insert: %w", &pq.Error{Code: "23503"})), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

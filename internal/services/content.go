package services

import (
	"context"
	"errors"
	"maps"

	"github.com/loreycode/cms-api/internal/store"
)

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
}

// Repository defines persistence operations shared by all content collections.
type Repository[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, q store.Query) ([]T, int, error)
	Insert(ctx context.Context, fields store.Fields) (T, error)
	Update(ctx context.Context, id string, fields store.Fields) (T, error)
	Delete(ctx context.Context, id string) error
}

// Content sort orders.
var (
	ByPosition = []store.Order{
		{Column: "order"},
		{Column: "created_at"},
		{Column: "id"},
	}
	NewestFirst = []store.Order{
		{Column: "created_at", Desc: true},
		{Column: "id"},
	}
)

// Common create-time defaults for orderable content.
var (
	OrderableDefaults = store.Fields{"is_active": true, "is_featured": false, "order": 0}
	ActiveDefaults    = store.Fields{"is_active": true}
)

// CollectionOptions configures a ContentService.
type CollectionOptions struct {
	// Entity names the collection in published events, e.g. "service".
	Entity string
	// Order is applied to every list read.
	Order []store.Order
	// Defaults fill columns missing from a create.
	Defaults store.Fields
}

// Options of each collection served by the API.
var (
	ServiceOptions = CollectionOptions{Entity: "service", Order: ByPosition, Defaults: OrderableDefaults}
	CourseOptions  = CollectionOptions{Entity: "course", Order: ByPosition, Defaults: OrderableDefaults}
	ProjectOptions = CollectionOptions{Entity: "project", Order: ByPosition, Defaults: OrderableDefaults}
	PageOptions    = CollectionOptions{Entity: "page", Order: NewestFirst, Defaults: ActiveDefaults}
	SectionOptions = CollectionOptions{Entity: "section", Order: ByPosition, Defaults: store.Fields{"is_active": true, "order": 0}}
	MediaOptions   = CollectionOptions{Entity: "media", Order: NewestFirst}
	ContactOptions = CollectionOptions{Entity: "contact", Order: NewestFirst}
)

// ContentService implements list/read/write use-cases for one collection.
type ContentService[T Record] struct {
	repo     Repository[T]
	opts     CollectionOptions
	notifier *Notifier
}

func NewContentService[T Record](repo Repository[T], opts CollectionOptions, notifier *Notifier) *ContentService[T] {
	return &ContentService[T]{repo: repo, opts: opts, notifier: notifier}
}

// List returns one page of the collection and the total count.
func (s *ContentService[T]) List(ctx context.Context, offset, limit int) ([]T, int, error) {
	return s.repo.List(ctx, store.Query{Order: s.opts.Order, Limit: limit, Offset: offset})
}

// ListWhere returns every record matching cond.
func (s *ContentService[T]) ListWhere(ctx context.Context, cond store.Cond) ([]T, error) {
	items, _, err := s.repo.List(ctx, store.Query{Where: cond, Order: s.opts.Order})
	return items, err
}

// ListActive returns every record visible on the public site.
func (s *ContentService[T]) ListActive(ctx context.Context) ([]T, error) {
	return s.ListWhere(ctx, store.Cond{"is_active": true})
}

func (s *ContentService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContentService[T]) Create(ctx context.Context, fields store.Fields) (T, error) {
	row := maps.Clone(s.opts.Defaults)
	if row == nil {
		row = store.Fields{}
	}
	maps.Copy(row, fields)

	item, err := s.repo.Insert(ctx, row)
	if err != nil {
		return item, err
	}
	s.notifier.ContentChanged(ctx, s.opts.Entity, ActionCreated, item.RecordID())
	return item, nil
}

// Update writes the supplied fields. A missing record yields store.ErrNotFound.
func (s *ContentService[T]) Update(ctx context.Context, id string, fields store.Fields) (T, error) {
	item, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return item, err
	}
	s.notifier.ContentChanged(ctx, s.opts.Entity, ActionUpdated, id)
	return item, nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (s *ContentService[T]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	s.notifier.ContentChanged(ctx, s.opts.Entity, ActionDeleted, id)
	return nil
}

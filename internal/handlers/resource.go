package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/store"
)

// Collection is the service surface a Resource drives.
type Collection[T any] interface {
	List(ctx context.Context, offset, limit int) ([]T, int, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, fields store.Fields) (T, error)
	Update(ctx context.Context, id string, fields store.Fields) (T, error)
	Delete(ctx context.Context, id string) error
}

// Resource provides the admin CRUD handlers of one collection. C is the
// create body and P the partial update body.
type Resource[T, C, P any] struct {
	items Collection[T]
}

// none stands in for a body type on resources that never decode one.
type none struct{}

func NewResource[T, C, P any](items Collection[T]) *Resource[T, C, P] {
	return &Resource[T, C, P]{items: items}
}

// Mount registers list, create, read, update and delete under r.
// Extra routes are added to the /{id} subrouter.
func (h *Resource[T, C, P]) Mount(r chi.Router, extra ...func(chi.Router)) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	h.MountItem(r, extra...)
}

// mount suits chi.Router.Route.
func (h *Resource[T, C, P]) mount(r chi.Router) {
	h.Mount(r)
}

// MountItem registers read, update and delete on /{id}.
func (h *Resource[T, C, P]) MountItem(r chi.Router, extra ...func(chi.Router)) {
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		for _, fn := range extra {
			fn(r)
		}
	})
}

func (h *Resource[T, C, P]) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, offset := parsePagination(r)

	items, total, err := h.items.List(r.Context(), offset, pageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse[T]{
		Success:  true,
		Items:    nonNil(items),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *Resource[T, C, P]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[T]{Success: true, Item: item})
}

func (h *Resource[T, C, P]) Create(w http.ResponseWriter, r *http.Request) {
	fields, errs := decodeCreate[C](w, r)
	if errs != nil {
		writeValidationError(w, msgInvalidInput, errs)
		return
	}

	created, err := h.items.Create(r.Context(), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[T]{Success: true, Item: created})
}

func (h *Resource[T, C, P]) Update(w http.ResponseWriter, r *http.Request) {
	fields, errs := decodePatch[P](w, r)
	if errs != nil {
		writeValidationError(w, msgInvalidInput, errs)
		return
	}

	updated, err := h.items.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[T]{Success: true, Item: updated})
}

// Delete reports success whether or not the record existed.
func (h *Resource[T, C, P]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

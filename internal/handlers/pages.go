package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/types"
)

// PageHandler serves the sections nested under a page. Everything else
// about pages goes through the generic Resource.
type PageHandler struct {
	pages *services.PageService
}

func NewPageHandler(pages *services.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

// PagesRouter registers page CRUD plus the nested section routes.
func PagesRouter(r chi.Router, handler *PageHandler) {
	NewResource[types.Page, types.PageInput, types.PagePatch](handler.pages).Mount(r, func(r chi.Router) {
		r.Get("/sections", handler.ListSections)
		r.Post("/sections", handler.CreateSection)
	})
}

// SectionsRouter registers the flat section routes.
func SectionsRouter(r chi.Router, sections Collection[types.Section]) {
	NewResource[types.Section, types.SectionInput, types.SectionPatch](sections).MountItem(r)
}

// ListSections returns every section of the page ordered by position.
func (h *PageHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.pages.Sections(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[types.Section]{Success: true, Items: nonNil(sections)})
}

// CreateSection adds a section to an existing page; an unknown page is a 404.
func (h *PageHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	fields, errs := decodeCreate[types.SectionInput](w, r)
	if errs != nil {
		writeValidationError(w, msgInvalidInput, errs)
		return
	}

	created, err := h.pages.AddSection(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[types.Section]{Success: true, Item: created})
}

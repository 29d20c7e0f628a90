package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/types"
)

// PublicHandler serves the read-only content of the marketing site.
type PublicHandler struct {
	services *services.ContentService[types.Service]
	courses  *services.ContentService[types.Course]
	projects *services.ContentService[types.Project]
	pages    *services.PageService
	settings *services.SettingService
}

func NewPublicHandler(
	serviceItems *services.ContentService[types.Service],
	courses *services.ContentService[types.Course],
	projects *services.ContentService[types.Project],
	pages *services.PageService,
	settings *services.SettingService,
) *PublicHandler {
	return &PublicHandler{
		services: serviceItems,
		courses:  courses,
		projects: projects,
		pages:    pages,
		settings: settings,
	}
}

// PublicRouter registers the unauthenticated read routes.
func PublicRouter(r chi.Router, handler *PublicHandler) {
	r.Get("/services", activeList(handler.services.ListActive))
	r.Get("/courses", activeList(handler.courses.ListActive))
	r.Get("/projects", activeList(handler.projects.ListActive))
	r.Get("/pages/{slug}", handler.Page)
	r.Get("/settings", handler.Settings)
	r.Get("/settings/{key}", handler.Setting)
}

type PageResponse struct {
	Success  bool            `json:"success"`
	Page     types.Page      `json:"page"`
	Sections []types.Section `json:"sections"`
}

func activeList[T any](list func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ItemsResponse[T]{Success: true, Items: nonNil(items)})
	}
}

// Page returns an active page by slug with its active sections.
func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, sections, err := h.pages.Published(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Success: true, Page: page, Sections: nonNil(sections)})
}

func (h *PublicHandler) Settings(w http.ResponseWriter, r *http.Request) {
	activeList(h.settings.ListByKey)(w, r)
}

func (h *PublicHandler) Setting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[types.SiteSetting]{Success: true, Item: setting})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/types"
)

// SettingsHandler manages site settings for administrators.
type SettingsHandler struct {
	settings *services.SettingService
}

func NewSettingsHandler(settings *services.SettingService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SettingsRouter registers the admin settings routes.
func SettingsRouter(r chi.Router, handler *SettingsHandler) {
	r.Get("/", handler.List)
	r.Get("/{key}", handler.Get)
	r.Put("/{key}", handler.Put)
}

// List returns every setting, most recently updated first.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.settings.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[types.SiteSetting]{Success: true, Items: nonNil(items)})
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[types.SiteSetting]{Success: true, Item: setting})
}

// Put creates the setting or updates the supplied attributes of an existing one.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		writeValidationError(w, msgInvalidInput, []FieldError{{Field: "key", Message: "key is required"}})
		return
	}

	var in types.SettingInput
	if errs := decodeJSON(w, r, &in); errs != nil {
		writeValidationError(w, msgInvalidInput, errs)
		return
	}

	setting, err := h.settings.Put(r.Context(), key, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse[types.SiteSetting]{Success: true, Item: setting})
}

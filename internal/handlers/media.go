package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/storage"
	"github.com/loreycode/cms-api/types"
)

const (
	formFieldFiles     = "files"
	maxMultipartMemory = 32 << 20
	// Room for the largest allowed batch plus multipart framing.
	maxUploadBody = services.MaxUploadFiles*services.MaxUploadFileSize + 1<<20
)

// MediaHandler provides upload and file serving endpoints.
type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// MediaRouter registers the admin media routes. Uploads replace create.
func MediaRouter(r chi.Router, handler *MediaHandler) {
	resource := NewResource[types.MediaFile, none, types.MediaPatch](handler.media)
	r.Get("/", resource.List)
	r.Post("/upload", handler.Upload)
	resource.MountItem(r)
}

// Upload stores every file of the "files" form field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "Upload is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File[formFieldFiles]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, services.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	created, err := h.media.Upload(r.Context(), files)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUpload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[types.MediaFile]{Success: true, Items: created})
}

// ServeUpload streams a stored file by its generated name.
func (h *MediaHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	body, err := h.media.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

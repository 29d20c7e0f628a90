package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/loreycode/cms-api/internal/store"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100

	msgNotFound     = "Not found"
	msgConflict     = "A record with the same unique value already exists"
	msgServerError  = "Something went wrong"
	msgInvalidInput = "Invalid input"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ItemResponse[T any] struct {
	Success bool `json:"success"`
	Item    T    `json:"item"`
}

type ItemsResponse[T any] struct {
	Success bool `json:"success"`
	Items   []T  `json:"items"`
}

// ListResponse is the paginated list response payload.
type ListResponse[T any] struct {
	Success  bool `json:"success"`
	Items    []T  `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, message string, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: message, Errors: errs})
}

// writeServiceError maps a service error onto a response. Anything that is
// not a known sentinel is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, msgConflict)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgServerError)
	}
}

// parsePagination never fails: unusable values fall back to defaults and
// out-of-range values are clamped.
func parsePagination(r *http.Request) (page, pageSize, offset int) {
	page = defaultPage
	if n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page"))); err == nil && n > 1 {
		page = n
	}

	pageSize = defaultPageSize
	if n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("pageSize"))); err == nil && n != 0 {
		pageSize = min(max(n, 1), maxPageSize)
	}

	offset = (page - 1) * pageSize
	return page, pageSize, offset
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

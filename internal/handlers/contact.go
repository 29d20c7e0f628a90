package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/types"
)

const (
	msgContactInvalid   = "Please check your input and try again."
	msgContactDelivered = "Thank you for your message! We've sent you a confirmation email and will get back to you within 24 hours."
	msgContactReceived  = "Thank you for your message! We've received it and will get back to you within 24 hours."
)

// ContactHandler accepts the public contact form.
type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// ContactRouter registers the contact form route. limit guards submissions.
func ContactRouter(r chi.Router, handler *ContactHandler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/contact", handler.Submit)
}

// ContactsRouter registers the admin routes over stored submissions.
func ContactsRouter(r chi.Router, submissions Collection[types.ContactSubmission]) {
	resource := NewResource[types.ContactSubmission, none, none](submissions)
	r.Get("/", resource.List)
	r.Get("/{id}", resource.Get)
	r.Delete("/{id}", resource.Delete)
}

type ContactData struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type ContactResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    ContactData `json:"data"`
}

// Submit validates the form and hands it to the contact service. Once the
// input is valid the response is a success whatever happens to the emails.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if errs := decodeJSON(w, r, &req); errs != nil {
		writeValidationError(w, msgContactInvalid, errs)
		return
	}

	result := h.contacts.Submit(r.Context(), req)

	message := msgContactReceived
	if result.Delivered {
		message = msgContactDelivered
	}
	writeJSON(w, http.StatusOK, ContactResponse{
		Success: true,
		Message: message,
		Data: ContactData{
			Name:        req.Name,
			Email:       req.Email,
			SubmittedAt: result.SubmittedAt,
		},
	})
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/loreycode/cms-api/internal/testutil"
	"github.com/loreycode/cms-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactForm(subject string) map[string]any {
	return map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"service": "Web design",
		"subject": subject,
		"message": "We would like a quote for a new website.",
	}
}

func TestContactSubjectBoundary(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/contact", contactForm("Help"), false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Please check your input and try again.", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, FieldError{Field: "subject", Message: "Subject must be at least 5 characters"}, body.Errors[0])
	assert.Empty(t, h.mailer.Sent)

	rec = h.do(http.MethodPost, "/contact", contactForm("Hello"), false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ok := decode[ContactResponse](t, rec)
	assert.True(t, ok.Success)
	assert.Equal(t, msgContactDelivered, ok.Message)
	assert.Equal(t, "Jane Doe", ok.Data.Name)
	assert.Equal(t, "jane@example.com", ok.Data.Email)
	assert.False(t, ok.Data.SubmittedAt.IsZero())
	assert.Len(t, h.mailer.Sent, 2)
	assert.Equal(t, 1, h.submissions.Len())
}

func TestContactReportsEveryInvalidField(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/contact", map[string]any{"name": "J", "email": "nope", "subject": "Hi", "message": "short"}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "Name must be at least 2 characters"},
		{Field: "email", Message: "Please enter a valid email address"},
		{Field: "subject", Message: "Subject must be at least 5 characters"},
		{Field: "message", Message: "Message must be at least 10 characters"},
	}, body.Errors)
}

func TestContactSucceedsWhenMailIsDown(t *testing.T) {
	h := newHarness(t)
	h.mailer.Err = testutil.ErrMailDown

	rec := h.do(http.MethodPost, "/contact", contactForm("Website redesign"), false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[ContactResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, msgContactReceived, body.Message)

	rec = h.do(http.MethodGet, "/admin/contacts", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ListResponse[types.ContactSubmission]](t, rec)
	require.Equal(t, 1, list.Total)
	assert.False(t, list.Items[0].EmailDelivered)
	require.NotNil(t, list.Items[0].Service)
	assert.Equal(t, "Web design", *list.Items[0].Service)
}

package types

import "time"

// ContactRequest is the body of POST /contact. The msg tags carry the
// messages shown next to each form field.
type ContactRequest struct {
	Name    string  `json:"name" validate:"min=2" msg:"Name must be at least 2 characters"`
	Email   string  `json:"email" validate:"email" msg:"Please enter a valid email address"`
	Phone   *string `json:"phone"`
	Service *string `json:"service"`
	Subject string  `json:"subject" validate:"min=5" msg:"Subject must be at least 5 characters"`
	Message string  `json:"message" validate:"min=10" msg:"Message must be at least 10 characters"`
}

// ContactSubmission is a stored contact form entry.
type ContactSubmission struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone" db:"phone"`
	Service        *string   `json:"service" db:"service"`
	Subject        string    `json:"subject" db:"subject"`
	Message        string    `json:"message" db:"message"`
	EmailDelivered bool      `json:"emailDelivered" db:"email_delivered"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

func (c ContactSubmission) RecordID() string { return c.ID }

// Event is published to the message queue after a successful write.
type Event struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

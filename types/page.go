package types

import "time"

// Page is a CMS page addressed publicly by its slug.
// A page owns an ordered list of sections.
type Page struct {
	// ID is the unique identifier of the page.
	ID string `json:"id" db:"id"`

	// Slug is the unique URL fragment of the page, e.g. "about".
	Slug string `json:"slug" db:"slug"`

	// Title is the human-readable page title.
	Title string `json:"title" db:"title"`

	// Description is an optional summary used for listings and meta tags.
	Description *string `json:"description" db:"description"`

	// IsActive controls public visibility of the page and its sections.
	IsActive bool `json:"isActive" db:"is_active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Sections is populated only when a single page is read.
	Sections []Section `json:"sections,omitempty" db:"-"`
}

func (p Page) RecordID() string { return p.ID }

type PageInput struct {
	Slug        string  `json:"slug" db:"slug" validate:"required"`
	Title       string  `json:"title" db:"title" validate:"required"`
	Description *string `json:"description" db:"description,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
}

type PagePatch struct {
	Slug        *string `json:"slug" db:"slug" validate:"omitempty,min=1"`
	Title       *string `json:"title" db:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" db:"description,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
}

// Section is a content block inside a Page. Type is a free-form hint for
// the front end (for example "hero" or "text") and Content is opaque to the API.
type Section struct {
	ID        string    `json:"id" db:"id"`
	PageID    string    `json:"pageId" db:"page_id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Content   string    `json:"content" db:"content"`
	Order     int       `json:"order" db:"order"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (s Section) RecordID() string { return s.ID }

type SectionInput struct {
	Title    string `json:"title" db:"title" validate:"required"`
	Type     string `json:"type" db:"type" validate:"required"`
	Content  string `json:"content" db:"content" validate:"required"`
	Order    *int   `json:"order" db:"order"`
	IsActive *bool  `json:"isActive" db:"is_active"`
}

type SectionPatch struct {
	Title    *string `json:"title" db:"title" validate:"omitempty,min=1"`
	Type     *string `json:"type" db:"type" validate:"omitempty,min=1"`
	Content  *string `json:"content" db:"content" validate:"omitempty,min=1"`
	Order    *int    `json:"order" db:"order"`
	IsActive *bool   `json:"isActive" db:"is_active"`
}

package types

import "time"

// Service is an offering listed on the marketing site.
type Service struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Icon        *string   `json:"icon" db:"icon"`
	Features    *string   `json:"features" db:"features"`
	Price       *string   `json:"price" db:"price"`
	Duration    *string   `json:"duration" db:"duration"`
	Image       *string   `json:"image" db:"image"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	Order       int       `json:"order" db:"order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (s Service) RecordID() string { return s.ID }

// ServiceInput is the body accepted when creating a Service.
type ServiceInput struct {
	Title       string  `json:"title" db:"title" validate:"required"`
	Description string  `json:"description" db:"description" validate:"required"`
	Icon        *string `json:"icon" db:"icon,nullable"`
	Features    *string `json:"features" db:"features,nullable"`
	Price       *string `json:"price" db:"price,nullable"`
	Duration    *string `json:"duration" db:"duration,nullable"`
	Image       *string `json:"image" db:"image,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
	IsFeatured  *bool   `json:"isFeatured" db:"is_featured"`
	Order       *int    `json:"order" db:"order"`
}

// ServicePatch is the body accepted when updating a Service.
// Absent keys leave the stored value untouched.
type ServicePatch struct {
	Title       *string `json:"title" db:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" db:"description" validate:"omitempty,min=1"`
	Icon        *string `json:"icon" db:"icon,nullable"`
	Features    *string `json:"features" db:"features,nullable"`
	Price       *string `json:"price" db:"price,nullable"`
	Duration    *string `json:"duration" db:"duration,nullable"`
	Image       *string `json:"image" db:"image,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
	IsFeatured  *bool   `json:"isFeatured" db:"is_featured"`
	Order       *int    `json:"order" db:"order"`
}

// Course is a training course with a fixed price and length.
type Course struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Level       string    `json:"level" db:"level"`
	Price       string    `json:"price" db:"price"`
	Duration    string    `json:"duration" db:"duration"`
	Lessons     int       `json:"lessons" db:"lessons"`
	Students    int       `json:"students" db:"students"`
	Image       *string   `json:"image" db:"image"`
	Curriculum  *string   `json:"curriculum" db:"curriculum"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	Order       int       `json:"order" db:"order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (c Course) RecordID() string { return c.ID }

type CourseInput struct {
	Title       string  `json:"title" db:"title" validate:"required"`
	Description string  `json:"description" db:"description" validate:"required"`
	Level       string  `json:"level" db:"level" validate:"required"`
	Price       string  `json:"price" db:"price" validate:"required"`
	Duration    string  `json:"duration" db:"duration" validate:"required"`
	Lessons     *int    `json:"lessons" db:"lessons" validate:"omitempty,min=0"`
	Students    *int    `json:"students" db:"students" validate:"omitempty,min=0"`
	Image       *string `json:"image" db:"image,nullable"`
	Curriculum  *string `json:"curriculum" db:"curriculum,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
	IsFeatured  *bool   `json:"isFeatured" db:"is_featured"`
	Order       *int    `json:"order" db:"order"`
}

type CoursePatch struct {
	Title       *string `json:"title" db:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" db:"description" validate:"omitempty,min=1"`
	Level       *string `json:"level" db:"level" validate:"omitempty,min=1"`
	Price       *string `json:"price" db:"price" validate:"omitempty,min=1"`
	Duration    *string `json:"duration" db:"duration" validate:"omitempty,min=1"`
	Lessons     *int    `json:"lessons" db:"lessons" validate:"omitempty,min=0"`
	Students    *int    `json:"students" db:"students" validate:"omitempty,min=0"`
	Image       *string `json:"image" db:"image,nullable"`
	Curriculum  *string `json:"curriculum" db:"curriculum,nullable"`
	IsActive    *bool   `json:"isActive" db:"is_active"`
	IsFeatured  *bool   `json:"isFeatured" db:"is_featured"`
	Order       *int    `json:"order" db:"order"`
}

// Project is a portfolio entry. Technologies and Images hold JSON text
// that the API stores and returns without interpreting.
type Project struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     string     `json:"category" db:"category"`
	Technologies string     `json:"technologies" db:"technologies"`
	Images       string     `json:"images" db:"images"`
	LiveURL      *string    `json:"liveUrl" db:"live_url"`
	GithubURL    *string    `json:"githubUrl" db:"github_url"`
	ClientName   *string    `json:"clientName" db:"client_name"`
	CompletedAt  *time.Time `json:"completedAt" db:"completed_at"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	IsFeatured   bool       `json:"isFeatured" db:"is_featured"`
	Order        int        `json:"order" db:"order"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

func (p Project) RecordID() string { return p.ID }

type ProjectInput struct {
	Title        string  `json:"title" db:"title" validate:"required"`
	Description  string  `json:"description" db:"description" validate:"required"`
	Category     string  `json:"category" db:"category" validate:"required"`
	Technologies string  `json:"technologies" db:"technologies" validate:"required"`
	Images       string  `json:"images" db:"images" validate:"required"`
	LiveURL      *string `json:"liveUrl" db:"live_url,nullable" validate:"omitempty,url"`
	GithubURL    *string `json:"githubUrl" db:"github_url,nullable" validate:"omitempty,url"`
	ClientName   *string `json:"clientName" db:"client_name,nullable"`
	CompletedAt  *string `json:"completedAt" db:"completed_at,nullable" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsActive     *bool   `json:"isActive" db:"is_active"`
	IsFeatured   *bool   `json:"isFeatured" db:"is_featured"`
	Order        *int    `json:"order" db:"order"`
}

type ProjectPatch struct {
	Title        *string `json:"title" db:"title" validate:"omitempty,min=1"`
	Description  *string `json:"description" db:"description" validate:"omitempty,min=1"`
	Category     *string `json:"category" db:"category" validate:"omitempty,min=1"`
	Technologies *string `json:"technologies" db:"technologies" validate:"omitempty,min=1"`
	Images       *string `json:"images" db:"images" validate:"omitempty,min=1"`
	LiveURL      *string `json:"liveUrl" db:"live_url,nullable" validate:"omitempty,url"`
	GithubURL    *string `json:"githubUrl" db:"github_url,nullable" validate:"omitempty,url"`
	ClientName   *string `json:"clientName" db:"client_name,nullable"`
	CompletedAt  *string `json:"completedAt" db:"completed_at,nullable" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsActive     *bool   `json:"isActive" db:"is_active"`
	IsFeatured   *bool   `json:"isFeatured" db:"is_featured"`
	Order        *int    `json:"order" db:"order"`
}

package services

import (
	"context"

	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

// PageService manages pages together with their sections.
type PageService struct {
	*ContentService[types.Page]
	sections *ContentService[types.Section]
}

func NewPageService(pages *ContentService[types.Page], sections *ContentService[types.Section]) *PageService {
	return &PageService{ContentService: pages, sections: sections}
}

// Get returns the page with all of its sections, active or not.
func (s *PageService) Get(ctx context.Context, id string) (types.Page, error) {
	page, err := s.ContentService.Get(ctx, id)
	if err != nil {
		return types.Page{}, err
	}
	page.Sections, err = s.Sections(ctx, id)
	if err != nil {
		return types.Page{}, err
	}
	return page, nil
}

// Sections returns every section of the page ordered by position.
func (s *PageService) Sections(ctx context.Context, pageID string) ([]types.Section, error) {
	return s.sections.ListWhere(ctx, store.Cond{"page_id": pageID})
}

// AddSection creates a section under an existing page.
func (s *PageService) AddSection(ctx context.Context, pageID string, fields store.Fields) (types.Section, error) {
	if _, err := s.ContentService.Get(ctx, pageID); err != nil {
		return types.Section{}, err
	}
	row := store.Fields{}
	for k, v := range fields {
		row[k] = v
	}
	row["page_id"] = pageID
	return s.sections.Create(ctx, row)
}

// Published returns an active page by slug with its active sections.
// Missing and inactive pages both yield store.ErrNotFound.
func (s *PageService) Published(ctx context.Context, slug string) (types.Page, []types.Section, error) {
	pages, err := s.ListWhere(ctx, store.Cond{"slug": slug, "is_active": true})
	if err != nil {
		return types.Page{}, nil, err
	}
	if len(pages) == 0 {
		return types.Page{}, nil, store.ErrNotFound
	}
	page := pages[0]
	sections, err := s.sections.ListWhere(ctx, store.Cond{"page_id": page.ID, "is_active": true})
	if err != nil {
		return types.Page{}, nil, err
	}
	return page, sections, nil
}

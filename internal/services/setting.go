package services

import (
	"context"

	"github.com/loreycode/cms-api/types"
)

// SettingRepository defines persistence operations for site settings.
type SettingRepository interface {
	List(ctx context.Context, byKey bool) ([]types.SiteSetting, error)
	Get(ctx context.Context, key string) (types.SiteSetting, error)
	Upsert(ctx context.Context, key, value string, typ, description *string) (types.SiteSetting, error)
}

type SettingService struct {
	repo     SettingRepository
	notifier *Notifier
}

func NewSettingService(repo SettingRepository, notifier *Notifier) *SettingService {
	return &SettingService{repo: repo, notifier: notifier}
}

// List returns settings most recently updated first.
func (s *SettingService) List(ctx context.Context) ([]types.SiteSetting, error) {
	return s.repo.List(ctx, false)
}

// ListByKey returns settings sorted by key, as served publicly.
func (s *SettingService) ListByKey(ctx context.Context) ([]types.SiteSetting, error) {
	return s.repo.List(ctx, true)
}

func (s *SettingService) Get(ctx context.Context, key string) (types.SiteSetting, error) {
	return s.repo.Get(ctx, key)
}

// Put creates or updates the setting stored under key.
func (s *SettingService) Put(ctx context.Context, key string, in types.SettingInput) (types.SiteSetting, error) {
	value := ""
	if in.Value != nil {
		value = *in.Value
	}
	setting, err := s.repo.Upsert(ctx, key, value, in.Type, in.Description)
	if err != nil {
		return types.SiteSetting{}, err
	}
	s.notifier.ContentChanged(ctx, "setting", ActionUpdated, key)
	return setting, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/loreycode/cms-api/types"
)

// SettingRepository handles persistence for site settings, keyed by name.
type SettingRepository struct {
	db *sql.DB
}

func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List returns every setting, most recently updated first, or by key when byKey is set.
func (r *SettingRepository) List(ctx context.Context, byKey bool) ([]types.SiteSetting, error) {
	query := `
		SELECT key, value, type, description, updated_at
		FROM site_settings
		ORDER BY updated_at DESC, key ASC`
	if byKey {
		query = `
		SELECT key, value, type, description, updated_at
		FROM site_settings
		ORDER BY key ASC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]types.SiteSetting, 0)
	for rows.Next() {
		var s types.SiteSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *SettingRepository) Get(ctx context.Context, key string) (types.SiteSetting, error) {
	const query = `
		SELECT key, value, type, description, updated_at
		FROM site_settings
		WHERE key = $1`
	var s types.SiteSetting
	err := r.db.QueryRowContext(ctx, query, key).Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SiteSetting{}, ErrNotFound
		}
		return types.SiteSetting{}, err
	}
	return s, nil
}

// Upsert creates the setting or updates its value. On update, type and
// description change only when a non-nil value is supplied.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string, typ, description *string) (types.SiteSetting, error) {
	const query = `
		INSERT INTO site_settings (key, value, type, description, updated_at)
		VALUES ($1, $2, COALESCE($3::text, 'text'), $4, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			type = COALESCE($3::text, site_settings.type),
			description = COALESCE($4::text, site_settings.description),
			updated_at = now()
		RETURNING key, value, type, description, updated_at`
	var s types.SiteSetting
	err := r.db.QueryRowContext(ctx, query, key, value, typ, description).
		Scan(&s.Key, &s.Value, &s.Type, &s.Description, &s.UpdatedAt)
	if err != nil {
		return types.SiteSetting{}, err
	}
	return s, nil
}

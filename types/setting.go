package types

import "time"

// DefaultSettingType is assigned to settings created without an explicit type.
const DefaultSettingType = "text"

// SiteSetting is a key/value pair of site-wide configuration, such as the
// phone number shown in the footer.
type SiteSetting struct {
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Type        string    `json:"type" db:"type"`
	Description *string   `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (s SiteSetting) RecordID() string { return s.Key }

// SettingInput is the body of PUT /admin/settings/{key}. Value may be empty
// but must be present.
type SettingInput struct {
	Value       *string `json:"value" validate:"required"`
	Type        *string `json:"type" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

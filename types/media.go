package types

import "time"

// MediaFile is the metadata of an uploaded file.
// The bytes live in object storage under Filename.
type MediaFile struct {
	// ID is the unique identifier of the media record.
	ID string `json:"id" db:"id"`

	// Filename is the generated storage key, unique per upload.
	Filename string `json:"filename" db:"filename"`

	// OriginalName is the file name as sent by the client.
	OriginalName string `json:"originalName" db:"original_name"`

	// MimeType is the declared or inferred content type.
	MimeType string `json:"mimeType" db:"mime_type"`

	// Size is the stored size in bytes.
	Size int64 `json:"size" db:"size"`

	// URL is the public path under which the file is served.
	URL string `json:"url" db:"url"`

	// Alt is optional alternative text for images.
	Alt *string `json:"alt" db:"alt"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (m MediaFile) RecordID() string { return m.ID }

type MediaPatch struct {
	Alt *string `json:"alt" db:"alt,nullable"`
}

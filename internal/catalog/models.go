package catalog

import "time"

// MediaFile is one catalogued media file. Path is the identity key:
// normalized, absolute, unique across the catalog. PreviewPath is never
// empty; audio rows share the static surrogate artifact.
type MediaFile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	PreviewPath string    `json:"previewPath"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Tags        []string  `json:"tags,omitempty"`
}

// Tag is a named label. Reserved reports whether it is one of the three
// built-in classification tags, which cannot be deleted.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Reserved  bool      `json:"reserved"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

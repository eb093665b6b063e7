package gallery

import (
	"errors"
	"time"
)

// Image represents a before/after gallery image on the clinic website.
type Image struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url"`
	StorageName string    `json:"storage_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewImage is the payload for registering an uploaded gallery image.
type NewImage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	StorageName string `json:"storage_name"`
}

var (
	// ErrNotFound is returned when a gallery image does not exist.
	ErrNotFound = errors.New("gallery image not found")

	// ErrMissingImage is returned when the upload reference is absent.
	ErrMissingImage = errors.New("image_url and storage_name are required")
)

// Validate checks the create payload.
func (i *NewImage) Validate() error {
	if i.ImageURL == "" || i.StorageName == "" {
		return ErrMissingImage
	}
	return nil
}

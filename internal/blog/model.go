package blog

import (
	"errors"
	"strings"
	"time"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Post represents a blog article on the clinic website.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Excerpt   string     `json:"excerpt,omitempty"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"image_url,omitempty"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewPost is the payload for creating a blog post.
type NewPost struct {
	Title    string     `json:"title"`
	Excerpt  string     `json:"excerpt"`
	Content  string     `json:"content"`
	ImageURL string     `json:"image_url"`
	Status   PostStatus `json:"status"`
}

// UpdatePost carries partial changes to a blog post.
type UpdatePost struct {
	Title    *string     `json:"title,omitempty"`
	Excerpt  *string     `json:"excerpt,omitempty"`
	Content  *string     `json:"content,omitempty"`
	ImageURL *string     `json:"image_url,omitempty"`
	Status   *PostStatus `json:"status,omitempty"`
}

var (
	// ErrNotFound is returned when a post does not exist.
	ErrNotFound = errors.New("blog post not found")

	// ErrInvalidPost is returned when a create payload fails validation.
	ErrInvalidPost = errors.New("title and content are required")
)

// Validate checks the create payload and defaults the status to draft.
func (p *NewPost) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || strings.TrimSpace(p.Content) == "" {
		return ErrInvalidPost
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Status != StatusDraft && p.Status != StatusPublished {
		return ErrInvalidPost
	}
	return nil
}

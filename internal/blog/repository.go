package blog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for blog post storage.
type Repository interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, req NewPost) (*Post, error)
	Update(ctx context.Context, id string, upd UpdatePost) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Post
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Post)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, req NewPost) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.byID[post.ID] = post
	r.mu.Unlock()

	out := *post
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, upd UpdatePost) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Excerpt != nil {
		post.Excerpt = *upd.Excerpt
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.ImageURL != nil {
		post.ImageURL = *upd.ImageURL
	}
	if upd.Status != nil {
		post.Status = *upd.Status
	}
	post.UpdatedAt = time.Now().UTC()

	out := *post
	return &out, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

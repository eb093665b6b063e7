package gallery

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for gallery image storage.
type Repository interface {
	List(ctx context.Context) ([]Image, error)
	Create(ctx context.Context, req NewImage) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Image
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Image)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Image, 0, len(r.byID))
	for _, img := range r.byID {
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, req NewImage) (*Image, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	img := &Image{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		StorageName: req.StorageName,
		CreatedAt:   time.Now().UTC(),
	}
	r.mu.Lock()
	r.byID[img.ID] = img
	r.mu.Unlock()

	out := *img
	return &out, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *img
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

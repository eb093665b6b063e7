package team

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for team member storage.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	Create(ctx context.Context, req NewMember) (*Member, error)
	Update(ctx context.Context, id string, upd UpdateMember) (*Member, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Member
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Member)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, req NewMember) (*Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &Member{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Role:         req.Role,
		Bio:          req.Bio,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	r.byID[member.ID] = member
	r.mu.Unlock()

	out := *member
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, upd UpdateMember) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		member.Name = *upd.Name
	}
	if upd.Role != nil {
		member.Role = *upd.Role
	}
	if upd.Bio != nil {
		member.Bio = *upd.Bio
	}
	if upd.ImageURL != nil {
		member.ImageURL = *upd.ImageURL
	}
	if upd.DisplayOrder != nil {
		member.DisplayOrder = *upd.DisplayOrder
	}
	member.UpdatedAt = time.Now().UTC()

	out := *member
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

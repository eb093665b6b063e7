package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the interface for admin user storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	Create(ctx context.Context, email, name, password string) (*AdminUser, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*AdminUser
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*AdminUser)}
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, email, name, password string) (*AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &AdminUser{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	r.mu.Lock()
	r.byEmail[user.Email] = user
	r.mu.Unlock()

	out := *user
	return &out, nil
}

package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	// List returns all appointments ordered by created_at descending.
	List(ctx context.Context) ([]Appointment, error)
	Create(ctx context.Context, req NewAppointment) (*Appointment, error)
	Update(ctx context.Context, id string, upd UpdateRequest) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository used
// for tests and DATABASE_URL-less development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Appointment
	clock func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[string]*Appointment),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the repository clock. Test use only.
func (r *InMemoryRepository) SetClock(clock func() time.Time) {
	r.clock = clock
}

// List returns all appointments ordered by created_at descending.
func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Create inserts a new appointment with a fresh id, pending status, and
// server-assigned timestamps.
func (r *InMemoryRepository) Create(ctx context.Context, req NewAppointment) (*Appointment, error) {
	now := r.clock()
	appt := &Appointment{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Procedure:     req.Procedure,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.mu.Lock()
	r.byID[appt.ID] = appt
	r.mu.Unlock()

	out := *appt
	return &out, nil
}

// Update applies the non-nil fields of upd and bumps updated_at.
func (r *InMemoryRepository) Update(ctx context.Context, id string, upd UpdateRequest) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if upd.Name != nil {
		appt.Name = *upd.Name
	}
	if upd.Email != nil {
		appt.Email = *upd.Email
	}
	if upd.Phone != nil {
		appt.Phone = *upd.Phone
	}
	if upd.Procedure != nil {
		appt.Procedure = *upd.Procedure
	}
	if upd.PreferredDate != nil {
		appt.PreferredDate = *upd.PreferredDate
	}
	if upd.Message != nil {
		appt.Message = *upd.Message
	}
	if upd.Status != nil {
		appt.Status = *upd.Status
	}

	now := r.clock()
	// updated_at is strictly monotonic per record.
	if !now.After(appt.UpdatedAt) {
		now = appt.UpdatedAt.Add(time.Microsecond)
	}
	appt.UpdatedAt = now

	out := *appt
	return &out, nil
}

// Delete removes an appointment.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

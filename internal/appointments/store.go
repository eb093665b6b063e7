package appointments

import (
	"context"
	"sync"
)

// AdminNotesPrefix separates operator notes appended to the patient's
// original message during a status update.
const AdminNotesPrefix = "\n\nAdmin Notes: "

// Store is the read/write facade over the appointments collection. It
// keeps a single in-memory snapshot of the full list and, by default,
// re-fetches it after every mutation so reads always reflect the
// backing store. A failed operation leaves the snapshot unchanged.
type Store struct {
	repo Repository

	mu    sync.RWMutex
	cache []Appointment

	// optimistic applies mutation results to the snapshot locally
	// instead of re-fetching the full list.
	optimistic bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithOptimisticPatch makes the store patch its snapshot from mutation
// results instead of re-fetching the whole collection. The default
// re-fetch strategy trades efficiency for read-your-writes consistency.
func WithOptimisticPatch() StoreOption {
	return func(s *Store) { s.optimistic = true }
}

// NewStore creates a store accessor over repo.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh re-fetches the full appointment list.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = list
	s.mu.Unlock()
	return nil
}

// Appointments returns a copy of the current snapshot, ordered by
// created_at descending.
func (s *Store) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.cache))
	copy(out, s.cache)
	return out
}

// Get returns the snapshot entry with the given id.
func (s *Store) Get(id string) (*Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.cache {
		if s.cache[i].ID == id {
			a := s.cache[i]
			return &a, true
		}
	}
	return nil, false
}

// Create inserts a new appointment and refreshes the snapshot.
func (s *Store) Create(ctx context.Context, req NewAppointment) (*Appointment, error) {
	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.reconcileCreate(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Update applies partial changes and refreshes the snapshot. Status
// changes go through the transition table: completed and cancelled are
// terminal and reject any further transition.
func (s *Store) Update(ctx context.Context, id string, upd UpdateRequest) (*Appointment, error) {
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		current, err := s.currentStatus(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.CanTransitionTo(*upd.Status) {
			return nil, ErrInvalidTransition
		}
	}

	appt, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := s.reconcileUpdate(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// UpdateStatus transitions an appointment to next, appending optional
// operator notes to the patient's message.
func (s *Store) UpdateStatus(ctx context.Context, id string, next Status, notes string) (*Appointment, error) {
	upd := UpdateRequest{Status: &next}
	if notes != "" {
		appt, err := s.current(ctx, id)
		if err != nil {
			return nil, err
		}
		combined := appt.Message + AdminNotesPrefix + notes
		upd.Message = &combined
	}
	return s.Update(ctx, id, upd)
}

// Delete removes an appointment and refreshes the snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.optimistic {
		s.mu.Lock()
		for i := range s.cache {
			if s.cache[i].ID == id {
				s.cache = append(s.cache[:i], s.cache[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Store) currentStatus(ctx context.Context, id string) (Status, error) {
	appt, err := s.current(ctx, id)
	if err != nil {
		return "", err
	}
	return appt.Status, nil
}

// current resolves the record from the snapshot, refreshing once on a
// cache miss so a cold store still sees the backing collection.
func (s *Store) current(ctx context.Context, id string) (*Appointment, error) {
	if appt, ok := s.Get(id); ok {
		return appt, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	appt, ok := s.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (s *Store) reconcileCreate(ctx context.Context, appt *Appointment) error {
	if s.optimistic {
		s.mu.Lock()
		s.cache = append([]Appointment{*appt}, s.cache...)
		s.mu.Unlock()
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Store) reconcileUpdate(ctx context.Context, appt *Appointment) error {
	if s.optimistic {
		s.mu.Lock()
		for i := range s.cache {
			if s.cache[i].ID == appt.ID {
				s.cache[i] = *appt
				break
			}
		}
		s.mu.Unlock()
		return nil
	}
	return s.Refresh(ctx)
}

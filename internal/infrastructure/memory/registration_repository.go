package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type RegistrationRepository struct{ s *Store }

func NewRegistrationRepository(s *Store) *RegistrationRepository {
	return &RegistrationRepository{s: s}
}

// Create checks and inserts the (user, event) pair under one write lock.
func (r *RegistrationRepository) Create(_ context.Context, reg *entity.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[reg.UserID]; !ok {
		return fmt.Errorf("registrations.create: user: %w", repository.ErrNotFound)
	}
	if _, ok := r.s.events[reg.EventID]; !ok {
		return fmt.Errorf("registrations.create: event: %w", repository.ErrNotFound)
	}
	key := regKey(reg.UserID, reg.EventID)
	if _, dup := r.s.regKeys[key]; dup {
		return fmt.Errorf("registrations.create: user_id, event_id: %w", repository.ErrDuplicate)
	}
	reg.ID = newID()
	reg.RegisteredAt = r.s.now()
	r.s.regKeys[key] = struct{}{}
	r.s.registrations = append(r.s.registrations, *reg)
	return nil
}

func (r *RegistrationRepository) CountByEvent(_ context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countRegistrations(eventID), nil
}

// ListByEvent returns registrations in insertion order, which is registeredAt ascending.
func (r *RegistrationRepository) ListByEvent(_ context.Context, eventID string) ([]entity.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Participant{}
	for _, reg := range r.s.registrations {
		if reg.EventID != eventID {
			continue
		}
		u := r.s.users[reg.UserID]
		out = append(out, entity.Participant{
			Registration: reg,
			User:         entity.PersonSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
		})
	}
	return out, nil
}

func (r *RegistrationRepository) ListByUser(_ context.Context, userID string) ([]entity.RegistrationWithEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.RegistrationWithEvent{}
	for _, reg := range r.s.registrations {
		if reg.UserID != userID {
			continue
		}
		e := r.s.events[reg.EventID]
		out = append(out, entity.RegistrationWithEvent{Registration: reg, Event: e.Summary()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Event.Date.Before(out[j].Event.Date) })
	return out, nil
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)

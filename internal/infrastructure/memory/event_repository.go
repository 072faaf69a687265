package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type EventRepository struct{ s *Store }

func NewEventRepository(s *Store) *EventRepository { return &EventRepository{s: s} }

func (r *EventRepository) Create(_ context.Context, e *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[e.OrganizerID]; !ok {
		return fmt.Errorf("events.create: organizer: %w", repository.ErrNotFound)
	}
	now := r.s.now()
	e.ID = newID()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, fmt.Errorf("events.get_by_id: %w", repository.ErrNotFound)
	}
	return &e, nil
}

func (r *EventRepository) GetDetail(_ context.Context, id string) (*entity.EventDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, fmt.Errorf("events.get_detail: %w", repository.ErrNotFound)
	}
	u := r.s.users[e.OrganizerID]
	d := &entity.EventDetail{
		Event: e,
		Organizer: entity.OrganizerPublic{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		},
	}
	if pid, ok := r.s.profilesByUser[u.ID]; ok {
		p := r.s.profiles[pid]
		d.Organizer.OrganizerInfo = &p
	}
	return d, nil
}

func (r *EventRepository) List(_ context.Context, f entity.EventFilter) ([]entity.EventListItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []entity.EventListItem{}
	for _, e := range r.s.events {
		it := entity.EventListItem{
			Event:             e,
			Organizer:         r.s.organizerSummary(e.OrganizerID),
			RegistrationCount: r.s.countRegistrations(e.ID),
		}
		if f.Matches(it) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *EventRepository) ListByOrganizer(_ context.Context, organizerID string) ([]entity.EventWithCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := []entity.EventWithCount{}
	for _, e := range r.s.events {
		if e.OrganizerID == organizerID {
			items = append(items, entity.EventWithCount{Event: e, RegistrationCount: r.s.countRegistrations(e.ID)})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (r *EventRepository) Update(_ context.Context, e *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.events[e.ID]
	if !ok {
		return fmt.Errorf("events.update: %w", repository.ErrNotFound)
	}
	e.OrganizerID = cur.OrganizerID
	e.ImageURL = cur.ImageURL
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.events[e.ID] = *e
	return nil
}

func (r *EventRepository) SetImageURL(_ context.Context, id, url string) (*string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.events[id]
	if !ok {
		return nil, fmt.Errorf("events.set_image: %w", repository.ErrNotFound)
	}
	previous := cur.ImageURL
	cur.ImageURL = &url
	cur.UpdatedAt = r.s.now()
	r.s.events[id] = cur
	return previous, nil
}

// Delete mirrors ON DELETE RESTRICT on registrations and SET NULL on reviews.
func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return fmt.Errorf("events.delete: %w", repository.ErrNotFound)
	}
	if r.s.countRegistrations(id) > 0 {
		return fmt.Errorf("events.delete: registrations: %w", repository.ErrHasDependents)
	}
	delete(r.s.events, id)
	for i := range r.s.reviews {
		if ev := r.s.reviews[i].EventID; ev != nil && *ev == id {
			r.s.reviews[i].EventID = nil
		}
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)

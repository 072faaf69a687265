package memory

import (
	"context"
	"fmt"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type ReviewRepository struct{ s *Store }

func NewReviewRepository(s *Store) *ReviewRepository { return &ReviewRepository{s: s} }

func (r *ReviewRepository) Create(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[rv.ReviewerID]; !ok {
		return fmt.Errorf("reviews.create: reviewer: %w", repository.ErrNotFound)
	}
	if _, ok := r.s.profiles[rv.OrganizerProfileID]; !ok {
		return fmt.Errorf("reviews.create: organizer profile: %w", repository.ErrNotFound)
	}
	if rv.EventID != nil {
		if _, ok := r.s.events[*rv.EventID]; !ok {
			return fmt.Errorf("reviews.create: event: %w", repository.ErrNotFound)
		}
	}
	rv.ID = newID()
	rv.CreatedAt = r.s.now()
	r.s.reviews = append(r.s.reviews, *rv)
	return nil
}

// ListRecentByProfile walks reviews newest first.
func (r *ReviewRepository) ListRecentByProfile(_ context.Context, profileID string, limit int) ([]entity.ReviewWithReviewer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.ReviewWithReviewer{}
	for i := len(r.s.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		rv := r.s.reviews[i]
		if rv.OrganizerProfileID != profileID {
			continue
		}
		u := r.s.users[rv.ReviewerID]
		out = append(out, entity.ReviewWithReviewer{
			Review:   rv,
			Reviewer: entity.ReviewerName{FirstName: u.FirstName, LastName: u.LastName},
		})
	}
	return out, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

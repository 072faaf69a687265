package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/policy"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

// ReviewService is the review ledger.
type ReviewService struct {
	Reviews  repository.ReviewRepository
	Profiles repository.OrganizerProfileRepository
	Events   repository.EventRepository
	Cache    ProfileCache
	Logger   *logrus.Logger
}

// NewReviewService wires the ledger. cache may be nil.
func NewReviewService(reviews repository.ReviewRepository, profiles repository.OrganizerProfileRepository, events repository.EventRepository, cache ProfileCache, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Profiles: profiles, Events: events, Cache: cache, Logger: logger}
}

type ReviewInput struct {
	OrganizerProfileID string
	EventID            *string
	Rating             int
	Comment            *string
}

// AddReview records a parent's review. Every check runs before the write.
func (s *ReviewService) AddReview(ctx context.Context, p entity.Principal, in ReviewInput) (*entity.ReviewWithReviewer, error) {
	if err := policy.AddReview(p).Err(); err != nil {
		return nil, err
	}
	profile, err := s.Profiles.GetByID(ctx, in.OrganizerProfileID)
	if err != nil {
		return nil, notFoundOr(err, "organizer profile %s not found", in.OrganizerProfileID)
	}
	if in.EventID != nil {
		if err := s.ensureEventOfOrganizer(ctx, *in.EventID, profile); err != nil {
			return nil, err
		}
	}

	rv := &entity.Review{
		Rating:             in.Rating,
		Comment:            in.Comment,
		ReviewerID:         p.ID,
		OrganizerProfileID: profile.ID,
		EventID:            in.EventID,
	}
	if err := rv.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, notFoundOr(err, "organizer profile %s not found", in.OrganizerProfileID)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, profile.UserID)
	}
	return &entity.ReviewWithReviewer{
		Review:   *rv,
		Reviewer: entity.ReviewerName{FirstName: p.FirstName, LastName: p.LastName},
	}, nil
}

// ensureEventOfOrganizer rejects a review citing an event of a different organizer.
func (s *ReviewService) ensureEventOfOrganizer(ctx context.Context, eventID string, profile *entity.OrganizerProfile) error {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return notFoundOr(err, "event %s not found", eventID)
	}
	if ev.OrganizerID != profile.UserID {
		return apperr.BadRequest("event %s does not belong to organizer profile %s", eventID, profile.ID)
	}
	return nil
}

package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

// RecentReviewLimit caps the reviews embedded in a public profile.
const RecentReviewLimit = 5

// OrganizerService is the read-only organizer directory.
type OrganizerService struct {
	Users    repository.UserRepository
	Profiles repository.OrganizerProfileRepository
	Reviews  repository.ReviewRepository
	Cache    ProfileCache
	Logger   *logrus.Logger
}

// NewOrganizerService wires the directory. cache may be nil.
func NewOrganizerService(users repository.UserRepository, profiles repository.OrganizerProfileRepository, reviews repository.ReviewRepository, cache ProfileCache, logger *logrus.Logger) *OrganizerService {
	return &OrganizerService{Users: users, Profiles: profiles, Reviews: reviews, Cache: cache, Logger: logger}
}

// GetOrganizerProfile returns the public profile of an organizer. A missing user,
// a non-organizer and an organizer without a profile all yield the same NotFound.
func (s *OrganizerService) GetOrganizerProfile(ctx context.Context, userID string) (*entity.OrganizerPublicProfile, error) {
	if s.Cache != nil {
		if p, ok := s.Cache.Get(ctx, userID); ok {
			return p, nil
		}
	}

	notFound := apperr.NotFound("organizer profile not found")
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "organizer profile not found")
	}
	if u.Role != entity.RoleOrganizer {
		return nil, notFound
	}
	profile, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "organizer profile not found")
	}
	reviews, err := s.Reviews.ListRecentByProfile(ctx, profile.ID, RecentReviewLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := &entity.OrganizerPublicProfile{
		ID:          profile.ID,
		UserID:      u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		OrgName:     profile.OrgName,
		Description: profile.Description,
		Website:     profile.Website,
		Phone:       profile.Phone,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
		Reviews:     reviews,
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, userID, out)
	}
	return out, nil
}

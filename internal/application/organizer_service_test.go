package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

func TestGetOrganizerProfile_UniformNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	parent := e.parent(t, "Pat")

	// an organizer account without a profile row
	bare := &entity.User{Email: "bare@example.com", FirstName: "Bo", Role: entity.RoleOrganizer}
	require.NoError(t, e.users.Create(ctx, bare))

	_, missingErr := e.Organizers.GetOrganizerProfile(ctx, "missing")
	_, parentErr := e.Organizers.GetOrganizerProfile(ctx, parent.ID)
	_, bareErr := e.Organizers.GetOrganizerProfile(ctx, bare.ID)

	for _, err := range []error{missingErr, parentErr, bareErr} {
		requireKind(t, err, apperr.KindNotFound)
		assert.Equal(t, apperr.MessageOf(missingErr), apperr.MessageOf(err))
	}
}

func TestGetOrganizerProfile_RecentReviews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org, profile := e.organizer(t, "Olga", "Olga's Organization")
	parent := e.parent(t, "Pat")

	for i := 0; i < 7; i++ {
		_, err := e.Reviews.AddReview(ctx, parent, ReviewInput{OrganizerProfileID: profile.ID, Rating: 1 + i%5})
		require.NoError(t, err)
	}

	got, err := e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, org.ID, got.UserID)
	assert.Equal(t, "Olga", got.FirstName)
	assert.Equal(t, "Olga's Organization", got.OrgName)
	require.Len(t, got.Reviews, RecentReviewLimit)
	assert.Equal(t, 2, got.Reviews[0].Rating)
	assert.Equal(t, "Pat", got.Reviews[0].Reviewer.FirstName)
	for i := 1; i < len(got.Reviews); i++ {
		assert.False(t, got.Reviews[i].CreatedAt.After(got.Reviews[i-1].CreatedAt))
	}
}

func TestGetOrganizerProfile_ReadThroughCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org, profile := e.organizer(t, "Olga", "Org")
	parent := e.parent(t, "Pat")

	first, err := e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Reviews)

	_, err = e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.hits)

	_, err = e.Reviews.AddReview(ctx, parent, ReviewInput{OrganizerProfileID: profile.ID, Rating: 5})
	require.NoError(t, err)

	fresh, err := e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Reviews, 1)
}

func TestGetOrganizerProfile_RenameInvalidatesCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org, _ := e.organizer(t, "Olga", "Org")
	parent := e.parent(t, "Pat")

	before, err := e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olga", before.FirstName)

	renamed := "Renamed"
	_, err = e.Identity.UpdateProfile(ctx, org.ID, UpdateProfileInput{FirstName: &renamed})
	require.NoError(t, err)

	after, err := e.Organizers.GetOrganizerProfile(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", after.FirstName)

	// parents have no public profile to drop
	_, err = e.Identity.UpdateProfile(ctx, parent.ID, UpdateProfileInput{FirstName: &renamed})
	require.NoError(t, err)
	assert.Equal(t, []string{org.ID}, e.cache.invalidated)
}

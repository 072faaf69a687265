package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

func TestRegisterAccount_Roles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.Identity.Register(ctx, RegisterInput{Email: " Pat@Example.com ", Password: "secret1", FirstName: "Pat"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleParent, u.Role)
	assert.Equal(t, "pat@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = e.Identity.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1", Role: "ADMIN"})
	requireKind(t, err, apperr.KindForbidden)
	_, err = e.Identity.Register(ctx, RegisterInput{Email: "b@example.com", Password: "secret1", Role: "WIZARD"})
	requireKind(t, err, apperr.KindBadRequest)
	_, err = e.Identity.Register(ctx, RegisterInput{Email: "c@example.com", Password: "123"})
	requireKind(t, err, apperr.KindBadRequest)

	_, err = e.Identity.Register(ctx, RegisterInput{Email: "pat@example.com", Password: "secret1"})
	requireKind(t, err, apperr.KindConflict)
}

func TestRegisterAccount_OrganizerGetsProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.Identity.Register(ctx, RegisterInput{Email: "o@example.com", Password: "secret1", FirstName: "Olga", Role: "organizer"})
	require.NoError(t, err)
	p, err := e.profiles.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olga's Organization", p.OrgName)

	u2, err := e.Identity.Register(ctx, RegisterInput{Email: "o2@example.com", Password: "secret1", Role: "ORGANIZER", OrgName: strp("Kids Co")})
	require.NoError(t, err)
	p2, err := e.profiles.GetByUserID(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kids Co", p2.OrgName)
}

func TestLoginAndResolvePrincipal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.Identity.Register(ctx, RegisterInput{Email: "pat@example.com", Password: "secret1", FirstName: "Pat", LastName: "P"})
	require.NoError(t, err)

	_, _, err = e.Identity.Login(ctx, "pat@example.com", "wrong-pass")
	requireKind(t, err, apperr.KindUnauthenticated)
	_, _, err = e.Identity.Login(ctx, "nobody@example.com", "secret1")
	requireKind(t, err, apperr.KindUnauthenticated)

	u, pair, err := e.Identity.Login(ctx, "PAT@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	p, err := e.Identity.ResolvePrincipal(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.Principal{ID: u.ID, Email: "pat@example.com", Role: entity.RoleParent, FirstName: "Pat", LastName: "P"}, p)

	_, err = e.Identity.ResolvePrincipal(ctx, "")
	requireKind(t, err, apperr.KindUnauthenticated)
	_, err = e.Identity.ResolvePrincipal(ctx, pair.RefreshToken)
	requireKind(t, err, apperr.KindUnauthenticated)

	next, err := e.Identity.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = e.Identity.ResolvePrincipal(ctx, next.AccessToken)
	require.NoError(t, err)
	_, err = e.Identity.Refresh(ctx, pair.AccessToken)
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.Identity.Register(ctx, RegisterInput{Email: "pat@example.com", Password: "secret1", FirstName: "Pat", LastName: "P"})
	require.NoError(t, err)
	_, err = e.Identity.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = e.Identity.UpdateProfile(ctx, u.ID, UpdateProfileInput{})
	requireKind(t, err, apperr.KindBadRequest)

	_, err = e.Identity.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: strp("Taken@example.com")})
	requireKind(t, err, apperr.KindConflict)

	got, err := e.Identity.UpdateProfile(ctx, u.ID, UpdateProfileInput{FirstName: strp("Patricia")})
	require.NoError(t, err)
	assert.Equal(t, "Patricia", got.FirstName)
	assert.Equal(t, "P", got.LastName)
	assert.Equal(t, "pat@example.com", got.Email)

	_, err = e.Identity.UpdateProfile(ctx, "missing", UpdateProfileInput{FirstName: strp("x")})
	requireKind(t, err, apperr.KindNotFound)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.Identity.Register(ctx, RegisterInput{Email: "pat@example.com", Password: "secret1"})
	require.NoError(t, err)

	requireKind(t, e.Identity.ChangePassword(ctx, u.ID, "wrong", "secret2"), apperr.KindBadRequest)
	requireKind(t, e.Identity.ChangePassword(ctx, u.ID, "secret1", "secret1"), apperr.KindBadRequest)
	requireKind(t, e.Identity.ChangePassword(ctx, u.ID, "secret1", "short"), apperr.KindBadRequest)

	require.NoError(t, e.Identity.ChangePassword(ctx, u.ID, "secret1", "secret2"))
	_, _, err = e.Identity.Login(ctx, "pat@example.com", "secret1")
	requireKind(t, err, apperr.KindUnauthenticated)
	_, _, err = e.Identity.Login(ctx, "pat@example.com", "secret2")
	require.NoError(t, err)
}

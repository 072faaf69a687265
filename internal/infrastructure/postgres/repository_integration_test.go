package postgres

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	flag.Parse()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		return m.Run()
	}

	dp, err := dockertest.NewPool("")
	if err == nil {
		err = dp.Client.Ping()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "docker unavailable, postgres tests skipped: %v\n", err)
		return m.Run()
	}

	res, err := dp.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=events_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres: %v\n", err)
		return m.Run()
	}
	defer func() { _ = dp.Purge(res) }()
	_ = res.Expire(300)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s/events_test?sslmode=disable", res.GetHostPort("5432/tcp"))
	dp.MaxWait = 90 * time.Second
	if err := dp.Retry(func() error {
		p, err := NewPool(context.Background(), PoolConfig{DSN: dsn, AppName: "repository-tests", MaxConns: 10, MinConns: 1, MaxConnLife: time.Hour})
		if err != nil {
			return err
		}
		testPool = p
		return nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "postgres never became ready: %v\n", err)
		return 1
	}
	defer testPool.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if err := Migrate(dsn, "../../../db/migrations", logger); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}
	return m.Run()
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("postgres not available")
	}
}

func seedUser(t *testing.T, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:     fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password:  "hash",
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), u))
	return u
}

func seedOrganizer(t *testing.T, orgName string) (*entity.User, *entity.OrganizerProfile) {
	t.Helper()
	u := &entity.User{
		Email:     fmt.Sprintf("org-%d@example.com", time.Now().UnixNano()),
		Password:  "hash",
		FirstName: "Olga",
		LastName:  "Organizer",
		Role:      entity.RoleOrganizer,
	}
	p := &entity.OrganizerProfile{OrgName: orgName}
	require.NoError(t, NewUserRepository(testPool).CreateOrganizer(context.Background(), u, p))
	return u, p
}

func seedEvent(t *testing.T, organizerID, title string, date time.Time) *entity.Event {
	t.Helper()
	cat := "Arts"
	e := &entity.Event{
		OrganizerID: organizerID,
		Title:       title,
		Description: "Painting for kids",
		Date:        date,
		Location:    "Sofia",
		Category:    &cat,
	}
	require.NoError(t, NewEventRepository(testPool).Create(context.Background(), e))
	return e
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	u := seedUser(t, entity.RoleParent)
	dup := &entity.User{Email: u.Email, Password: "x", Role: entity.RoleParent}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, entity.RoleParent, got.Role)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateOrganizerWritesProfile(t *testing.T) {
	requireDB(t)
	u, p := seedOrganizer(t, "Fun Club")

	got, err := NewOrganizerProfileRepository(testPool).GetByUserID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Fun Club", got.OrgName)
}

func TestRegistrationRepository_ConcurrentInsertsYieldOneRow(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, _ := seedOrganizer(t, "Race Club")
	parent := seedUser(t, entity.RoleParent)
	ev := seedEvent(t, org.ID, "Race Day", time.Now().Add(48*time.Hour))
	repo := NewRegistrationRepository(testPool)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &entity.Registration{UserID: parent.ID, EventID: ev.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrDuplicate):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dupes)
	count, err := repo.CountByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventRepository_DeleteBlockedByRegistrations(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, _ := seedOrganizer(t, "Keep Club")
	parent := seedUser(t, entity.RoleParent)
	ev := seedEvent(t, org.ID, "Keep Me", time.Now().Add(72*time.Hour))
	require.NoError(t, NewRegistrationRepository(testPool).Create(ctx, &entity.Registration{UserID: parent.ID, EventID: ev.ID}))

	err := NewEventRepository(testPool).Delete(ctx, ev.ID)
	assert.ErrorIs(t, err, repository.ErrHasDependents)

	_, err = NewEventRepository(testPool).GetByID(ctx, ev.ID)
	assert.NoError(t, err)
}

func TestEventRepository_ListFiltersAndOrder(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, _ := seedOrganizer(t, "Zebra_Percent%Club")
	base := time.Now().Add(24 * 365 * time.Hour).Truncate(time.Second)
	later := seedEvent(t, org.ID, "Later Workshop", base.Add(48*time.Hour))
	sooner := seedEvent(t, org.ID, "Sooner Workshop", base.Add(24*time.Hour))
	repo := NewEventRepository(testPool)

	items, err := repo.List(ctx, entity.EventFilter{SearchTerm: "zebra_percent%", StartDate: &base})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, sooner.ID, items[0].ID)
	assert.Equal(t, later.ID, items[1].ID)
	assert.Equal(t, org.ID, items[0].Organizer.ID)
	require.NotNil(t, items[0].Organizer.OrgName)

	// wildcards in the term are literal
	items, err = repo.List(ctx, entity.EventFilter{SearchTerm: "zebra%club", StartDate: &base})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.List(ctx, entity.EventFilter{Category: "art", StartDate: &base, SearchTerm: "Sooner"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, sooner.ID, items[0].ID)

	mine, err := repo.ListByOrganizer(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, later.ID, mine[0].ID)
}

func TestEventRepository_GetDetailAndUpdate(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, profile := seedOrganizer(t, "Detail Club")
	ev := seedEvent(t, org.ID, "Detail Day", time.Now().Add(24*time.Hour))
	repo := NewEventRepository(testPool)

	price := 12.5
	ev.Title = "Detail Day Updated"
	ev.Price = &price
	require.NoError(t, repo.Update(ctx, ev))

	d, err := repo.GetDetail(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detail Day Updated", d.Title)
	require.NotNil(t, d.Price)
	assert.InDelta(t, 12.5, *d.Price, 0.001)
	require.NotNil(t, d.Organizer.OrganizerInfo)
	assert.Equal(t, profile.ID, d.Organizer.OrganizerInfo.ID)

	_, err = repo.GetDetail(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReviewRepository_ListRecentNewestFirst(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	_, profile := seedOrganizer(t, "Review Club")
	parent := seedUser(t, entity.RoleParent)
	repo := NewReviewRepository(testPool)

	for rating := 1; rating <= 6; rating++ {
		r := rating
		if r > entity.MaxRating {
			r = entity.MaxRating
		}
		require.NoError(t, repo.Create(ctx, &entity.Review{Rating: r, ReviewerID: parent.ID, OrganizerProfileID: profile.ID}))
	}

	got, err := repo.ListRecentByProfile(ctx, profile.ID, 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
	assert.Equal(t, parent.FirstName, got[0].Reviewer.FirstName)

	err = repo.Create(ctx, &entity.Review{Rating: 3, ReviewerID: parent.ID, OrganizerProfileID: "00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepository_SetImageURLIsColumnScoped(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, _ := seedOrganizer(t, "Image Org")
	ev := seedEvent(t, org.ID, "Paint", time.Now().Add(24*time.Hour))
	repo := NewEventRepository(testPool)

	stale, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)

	previous, err := repo.SetImageURL(ctx, ev.ID, "https://img/1.png")
	require.NoError(t, err)
	assert.Nil(t, previous)

	stale.Title = "Paint & Play"
	require.NoError(t, repo.Update(ctx, stale))
	require.NotNil(t, stale.ImageURL)
	assert.Equal(t, "https://img/1.png", *stale.ImageURL)

	previous, err = repo.SetImageURL(ctx, ev.ID, "https://img/2.png")
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, "https://img/1.png", *previous)

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paint & Play", got.Title)
	assert.Equal(t, "https://img/2.png", *got.ImageURL)

	_, err = repo.SetImageURL(ctx, "00000000-0000-0000-0000-000000000000", "https://img/3.png")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepository_ListByOrganizerTiesNewestFirst(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	org, _ := seedOrganizer(t, "Tie Org")
	date := time.Now().Add(24 * 400 * time.Hour).Truncate(time.Second)
	first := seedEvent(t, org.ID, "First", date)
	second := seedEvent(t, org.ID, "Second", date)

	mine, err := NewEventRepository(testPool).ListByOrganizer(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

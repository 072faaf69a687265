package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/infrastructure/memory"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
)

func init() { helpers.PasswordCost = bcrypt.MinCost }

type sentMail struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{to, subject, body})
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[string]string
	removed []string
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]string{}} }

func (x *fakeIndex) Index(_ context.Context, e *entity.Event) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return x.err
	}
	x.indexed[e.ID] = e.Title
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.removed = append(x.removed, id)
	delete(x.indexed, id)
	return x.err
}

func (x *fakeIndex) Search(_ context.Context, q string, _ int) ([]entity.EventSummary, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := []entity.EventSummary{}
	for id, title := range x.indexed {
		if strings.Contains(strings.ToLower(title), strings.ToLower(q)) {
			out = append(out, entity.EventSummary{ID: id, Title: title})
		}
	}
	return out, x.err
}

type fakeImages struct {
	uploads []string
	deleted []string
	// runs mid-upload, after the event was loaded
	during func()
}

func (f *fakeImages) DeleteEventImage(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImages) PutEventImage(_ context.Context, eventID, filename, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, filename)
	if f.during != nil {
		f.during()
	}
	return "https://storage.googleapis.com/bucket/events/" + eventID + "/" + filename, nil
}

type mapCache struct {
	mu          sync.Mutex
	m           map[string]*entity.OrganizerPublicProfile
	hits        int
	invalidated []string
}

func newMapCache() *mapCache { return &mapCache{m: map[string]*entity.OrganizerPublicProfile{}} }

func (c *mapCache) Get(_ context.Context, userID string) (*entity.OrganizerPublicProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[userID]
	if ok {
		c.hits++
	}
	return p, ok
}

func (c *mapCache) Set(_ context.Context, userID string, p *entity.OrganizerPublicProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[userID] = p
}

func (c *mapCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
	c.invalidated = append(c.invalidated, userID)
}

// env is a fully wired application over the memory driver.
type env struct {
	users    *memory.UserRepository
	profiles *memory.OrganizerProfileRepository
	events   *memory.EventRepository
	regs     *memory.RegistrationRepository
	reviews  *memory.ReviewRepository

	notifier *fakeNotifier
	index    *fakeIndex
	images   *fakeImages
	cache    *mapCache

	Events        *EventService
	Registrations *RegistrationService
	Reviews       *ReviewService
	Organizers    *OrganizerService
	Identity      *UserService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	e := &env{
		users:    memory.NewUserRepository(s),
		profiles: memory.NewOrganizerProfileRepository(s),
		events:   memory.NewEventRepository(s),
		regs:     memory.NewRegistrationRepository(s),
		reviews:  memory.NewReviewRepository(s),
		notifier: &fakeNotifier{},
		index:    newFakeIndex(),
		images:   &fakeImages{},
		cache:    newMapCache(),
	}
	logger := quietLogger()
	e.Events = NewEventService(e.events, e.regs, e.index, e.images, logger)
	e.Registrations = NewRegistrationService(e.events, e.regs, e.notifier, "KidzEvents", logger)
	e.Reviews = NewReviewService(e.reviews, e.profiles, e.events, e.cache, logger)
	e.Organizers = NewOrganizerService(e.users, e.profiles, e.reviews, e.cache, logger)
	e.Identity = NewUserService(e.users, helpers.NewJWTManager("a", "r", time.Minute, time.Hour), nil, e.cache, logger)
	return e
}

func (e *env) parent(t *testing.T, first string) entity.Principal {
	t.Helper()
	u := &entity.User{Email: strings.ToLower(first) + "@example.com", Password: "x", FirstName: first, LastName: "Parent", Role: entity.RoleParent}
	require.NoError(t, e.users.Create(context.Background(), u))
	return entity.PrincipalOf(u)
}

func (e *env) admin(t *testing.T) entity.Principal {
	t.Helper()
	u := &entity.User{Email: "admin@example.com", Password: "x", FirstName: "Ada", Role: entity.RoleAdmin}
	require.NoError(t, e.users.Create(context.Background(), u))
	return entity.PrincipalOf(u)
}

func (e *env) organizer(t *testing.T, first, orgName string) (entity.Principal, *entity.OrganizerProfile) {
	t.Helper()
	u := &entity.User{Email: strings.ToLower(first) + "@org.example.com", Password: "x", FirstName: first, LastName: "Org", Role: entity.RoleOrganizer}
	p := &entity.OrganizerProfile{OrgName: orgName}
	require.NoError(t, e.users.CreateOrganizer(context.Background(), u, p))
	return entity.PrincipalOf(u), p
}

func (e *env) event(t *testing.T, owner entity.Principal, title string, date time.Time) *entity.EventDetail {
	t.Helper()
	d, err := e.Events.CreateEvent(context.Background(), owner, EventInput{
		Title:       title,
		Description: "An afternoon of " + title,
		Date:        date,
		Location:    "City Park",
	})
	require.NoError(t, err)
	return d
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equalf(t, kind, apperr.KindOf(err), "got %v", err)
}

func strp(s string) *string { return &s }

var errBoom = errors.New("boom")

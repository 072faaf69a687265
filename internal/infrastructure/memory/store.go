// Package memory is a process-local storage driver honoring the same
// constraints as the postgres schema. It backs STORAGE_DRIVER=memory and tests.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

// Store holds every table behind one lock so that multi-table checks
// (foreign keys, unique pairs) are atomic with the write they guard.
type Store struct {
	mu sync.RWMutex

	users          map[string]entity.User
	usersByEmail   map[string]string
	profiles       map[string]entity.OrganizerProfile
	profilesByUser map[string]string
	events         map[string]entity.Event
	registrations  []entity.Registration
	regKeys        map[string]struct{}
	reviews        []entity.Review

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          make(map[string]entity.User),
		usersByEmail:   make(map[string]string),
		profiles:       make(map[string]entity.OrganizerProfile),
		profilesByUser: make(map[string]string),
		events:         make(map[string]entity.Event),
		regKeys:        make(map[string]struct{}),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func newID() string { return uuid.NewString() }

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func regKey(userID, eventID string) string { return userID + "|" + eventID }

func (s *Store) organizerSummary(userID string) entity.OrganizerSummary {
	u := s.users[userID]
	sum := entity.OrganizerSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	if pid, ok := s.profilesByUser[userID]; ok {
		name := s.profiles[pid].OrgName
		sum.OrgName = &name
	}
	return sum
}

func (s *Store) countRegistrations(eventID string) int {
	n := 0
	for _, r := range s.registrations {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

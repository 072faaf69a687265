package memory

import (
	"context"
	"fmt"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insertLocked(u)
}

func (r *UserRepository) insertLocked(u *entity.User) error {
	key := emailKey(u.Email)
	if _, taken := r.s.usersByEmail[key]; taken {
		return fmt.Errorf("users.create: email: %w", repository.ErrDuplicate)
	}
	now := r.s.now()
	u.ID = newID()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	r.s.usersByEmail[key] = u.ID
	return nil
}

func (r *UserRepository) CreateOrganizer(_ context.Context, u *entity.User, p *entity.OrganizerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.insertLocked(u); err != nil {
		return err
	}
	now := r.s.now()
	p.ID = newID()
	p.UserID = u.ID
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.profiles[p.ID] = *p
	r.s.profilesByUser[u.ID] = p.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("users.get_by_id: %w", repository.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usersByEmail[emailKey(email)]
	if !ok {
		return nil, fmt.Errorf("users.get_by_email: %w", repository.ErrNotFound)
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return fmt.Errorf("users.update: %w", repository.ErrNotFound)
	}
	oldKey, newKey := emailKey(cur.Email), emailKey(u.Email)
	if oldKey != newKey {
		if _, taken := r.s.usersByEmail[newKey]; taken {
			return fmt.Errorf("users.update: email: %w", repository.ErrDuplicate)
		}
		delete(r.s.usersByEmail, oldKey)
		r.s.usersByEmail[newKey] = u.ID
	}
	cur.Email, cur.FirstName, cur.LastName = u.Email, u.FirstName, u.LastName
	cur.UpdatedAt = r.s.now()
	r.s.users[u.ID] = cur
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("users.update_password: %w", repository.ErrNotFound)
	}
	cur.Password = hash
	cur.UpdatedAt = r.s.now()
	r.s.users[id] = cur
	return nil
}

type OrganizerProfileRepository struct{ s *Store }

func NewOrganizerProfileRepository(s *Store) *OrganizerProfileRepository {
	return &OrganizerProfileRepository{s: s}
}

func (r *OrganizerProfileRepository) GetByID(_ context.Context, id string) (*entity.OrganizerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("organizer_profiles.get_by_id: %w", repository.ErrNotFound)
	}
	return &p, nil
}

func (r *OrganizerProfileRepository) GetByUserID(_ context.Context, userID string) (*entity.OrganizerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.profilesByUser[userID]
	if !ok {
		return nil, fmt.Errorf("organizer_profiles.get_by_user_id: %w", repository.ErrNotFound)
	}
	p := r.s.profiles[id]
	return &p, nil
}

var (
	_ repository.UserRepository             = (*UserRepository)(nil)
	_ repository.OrganizerProfileRepository = (*OrganizerProfileRepository)(nil)
)

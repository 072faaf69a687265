package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, string(u.Role))

	return translate("users.create", row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt), repository.ErrNotFound)
}

func (r *UserRepository) CreateOrganizer(ctx context.Context, u *entity.User, p *entity.OrganizerProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate("users.create_organizer", err, repository.ErrNotFound)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, string(u.Role)).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return translate("users.create_organizer", err, repository.ErrNotFound)
	}

	p.UserID = u.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO organizer_profiles (user_id, org_name, description, website, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.OrgName, p.Description, p.Website, p.Phone).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translate("organizer_profiles.create", err, repository.ErrNotFound)
	}

	return translate("users.create_organizer.commit", tx.Commit(ctx), repository.ErrNotFound)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate("users.get_by_id", err, repository.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate("users.get_by_email", err, repository.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, updated_at = $4
		WHERE id = $5
	`, u.Email, u.FirstName, u.LastName, u.UpdatedAt, u.ID)
	if err != nil {
		return translate("users.update", err, repository.ErrNotFound)
	}
	if res.RowsAffected() == 0 {
		return translate("users.update", errNoRows, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return translate("users.update_password", err, repository.ErrNotFound)
	}
	if res.RowsAffected() == 0 {
		return translate("users.update_password", errNoRows, repository.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &role,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

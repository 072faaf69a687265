package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type OrganizerProfileRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizerProfileRepository(pool *pgxpool.Pool) *OrganizerProfileRepository {
	return &OrganizerProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, org_name, description, website, phone, created_at, updated_at`

func (r *OrganizerProfileRepository) GetByID(ctx context.Context, id string) (*entity.OrganizerProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM organizer_profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, translate("organizer_profiles.get_by_id", err, repository.ErrNotFound)
	}
	return p, nil
}

func (r *OrganizerProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.OrganizerProfile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM organizer_profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, translate("organizer_profiles.get_by_user_id", err, repository.ErrNotFound)
	}
	return p, nil
}

func scanProfile(row scanner) (*entity.OrganizerProfile, error) {
	p := &entity.OrganizerProfile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.OrgName, &p.Description, &p.Website, &p.Phone,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

var _ repository.OrganizerProfileRepository = (*OrganizerProfileRepository)(nil)

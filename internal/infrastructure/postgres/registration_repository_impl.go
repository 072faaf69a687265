package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// Create relies on registrations_user_id_event_id_key alone; there is no prior read.
func (r *RegistrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO registrations (user_id, event_id)
		VALUES ($1, $2)
		RETURNING id, registered_at
	`, reg.UserID, reg.EventID)

	return translate("registrations.create", row.Scan(&reg.ID, &reg.RegisteredAt), repository.ErrNotFound)
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, translate("registrations.count_by_event", err, repository.ErrNotFound)
	}
	return n, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]entity.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.registered_at,
			u.id, u.first_name, u.last_name, u.email
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC
	`, eventID)
	if err != nil {
		return nil, translate("registrations.list_by_event", err, repository.ErrNotFound)
	}
	defer rows.Close()

	out := []entity.Participant{}
	for rows.Next() {
		var p entity.Participant
		if err := rows.Scan(&p.ID, &p.UserID, &p.EventID, &p.RegisteredAt,
			&p.User.ID, &p.User.FirstName, &p.User.LastName, &p.User.Email); err != nil {
			return nil, translate("registrations.list_by_event.scan", err, repository.ErrNotFound)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("registrations.list_by_event.rows", err, repository.ErrNotFound)
	}
	return out, nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]entity.RegistrationWithEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.registered_at,
			e.id, e.title, e.description, e.date, e.location, e.category, e.age_group, e.price::float8
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.date ASC
	`, userID)
	if err != nil {
		return nil, translate("registrations.list_by_user", err, repository.ErrNotFound)
	}
	defer rows.Close()

	out := []entity.RegistrationWithEvent{}
	for rows.Next() {
		var x entity.RegistrationWithEvent
		if err := rows.Scan(&x.ID, &x.UserID, &x.EventID, &x.RegisteredAt,
			&x.Event.ID, &x.Event.Title, &x.Event.Description, &x.Event.Date, &x.Event.Location,
			&x.Event.Category, &x.Event.AgeGroup, &x.Event.Price); err != nil {
			return nil, translate("registrations.list_by_user.scan", err, repository.ErrNotFound)
		}
		out = append(out, x)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("registrations.list_by_user.rows", err, repository.ErrNotFound)
	}
	return out, nil
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `e.id, e.organizer_id, e.title, e.description, e.date, e.location,
	e.category, e.age_group, e.price::float8, e.image_url, e.created_at, e.updated_at`

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (organizer_id, title, description, date, location, category, age_group, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, e.OrganizerID, e.Title, e.Description, e.Date, e.Location, e.Category, e.AgeGroup, e.Price, e.ImageURL)

	return translate("events.create", row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt), repository.ErrNotFound)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, translate("events.get_by_id", err, repository.ErrNotFound)
	}
	return e, nil
}

func (r *EventRepository) GetDetail(ctx context.Context, id string) (*entity.EventDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`,
			u.id, u.first_name, u.last_name, u.email,
			p.id, p.user_id, p.org_name, p.description, p.website, p.phone, p.created_at, p.updated_at
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		LEFT JOIN organizer_profiles p ON p.user_id = u.id
		WHERE e.id = $1
	`, id)

	d := &entity.EventDetail{}
	var (
		pID, pUserID, pOrgName  *string
		pDesc, pWebsite, pPhone *string
		pCreatedAt, pUpdatedAt  *time.Time
	)
	dest := append(eventDest(&d.Event),
		&d.Organizer.ID, &d.Organizer.FirstName, &d.Organizer.LastName, &d.Organizer.Email,
		&pID, &pUserID, &pOrgName, &pDesc, &pWebsite, &pPhone, &pCreatedAt, &pUpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, translate("events.get_detail", err, repository.ErrNotFound)
	}
	if pID != nil {
		d.Organizer.OrganizerInfo = &entity.OrganizerProfile{
			ID:          *pID,
			UserID:      *pUserID,
			OrgName:     *pOrgName,
			Description: pDesc,
			Website:     pWebsite,
			Phone:       pPhone,
			CreatedAt:   *pCreatedAt,
			UpdatedAt:   *pUpdatedAt,
		}
	}
	return d, nil
}

func (r *EventRepository) List(ctx context.Context, f entity.EventFilter) ([]entity.EventListItem, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		where = append(where, "e.category ILIKE "+arg(likePattern(f.Category)))
	}
	if f.AgeGroup != "" {
		where = append(where, "e.age_group ILIKE "+arg(likePattern(f.AgeGroup)))
	}
	if f.StartDate != nil {
		where = append(where, "e.date >= "+arg(*f.StartDate))
	}
	if f.SearchTerm != "" {
		p := arg(likePattern(f.SearchTerm))
		where = append(where, "("+strings.Join([]string{
			"e.title ILIKE " + p,
			"e.description ILIKE " + p,
			"e.location ILIKE " + p,
			"e.category ILIKE " + p,
			"u.first_name ILIKE " + p,
			"u.last_name ILIKE " + p,
			"p.org_name ILIKE " + p,
		}, " OR ")+")")
	}

	q := `
		SELECT ` + eventColumns + `,
			u.id, u.first_name, u.last_name, u.email, p.org_name,
			(SELECT count(*) FROM registrations r WHERE r.event_id = e.id)
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		LEFT JOIN organizer_profiles p ON p.user_id = u.id`
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tORDER BY e.date ASC, e.created_at ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, translate("events.list", err, repository.ErrNotFound)
	}
	defer rows.Close()

	items := []entity.EventListItem{}
	for rows.Next() {
		var it entity.EventListItem
		dest := append(eventDest(&it.Event),
			&it.Organizer.ID, &it.Organizer.FirstName, &it.Organizer.LastName, &it.Organizer.Email,
			&it.Organizer.OrgName, &it.RegistrationCount,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, translate("events.list.scan", err, repository.ErrNotFound)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("events.list.rows", err, repository.ErrNotFound)
	}
	return items, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]entity.EventWithCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`,
			(SELECT count(*) FROM registrations r WHERE r.event_id = e.id)
		FROM events e
		WHERE e.organizer_id = $1
		ORDER BY e.date DESC, e.created_at DESC, e.id DESC
	`, organizerID)
	if err != nil {
		return nil, translate("events.list_by_organizer", err, repository.ErrNotFound)
	}
	defer rows.Close()

	items := []entity.EventWithCount{}
	for rows.Next() {
		var it entity.EventWithCount
		if err := rows.Scan(append(eventDest(&it.Event), &it.RegistrationCount)...); err != nil {
			return nil, translate("events.list_by_organizer.scan", err, repository.ErrNotFound)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("events.list_by_organizer.rows", err, repository.ErrNotFound)
	}
	return items, nil
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET title = $1, description = $2, date = $3, location = $4,
			category = $5, age_group = $6, price = $7, updated_at = now()
		WHERE id = $8
		RETURNING image_url, updated_at
	`, e.Title, e.Description, e.Date, e.Location, e.Category, e.AgeGroup, e.Price, e.ID)

	return translate("events.update", row.Scan(&e.ImageURL, &e.UpdatedAt), repository.ErrNotFound)
}

func (r *EventRepository) SetImageURL(ctx context.Context, id, url string) (*string, error) {
	var previous *string
	err := r.pool.QueryRow(ctx, `
		WITH old AS (SELECT id, image_url FROM events WHERE id = $2 FOR UPDATE)
		UPDATE events e
		SET image_url = $1, updated_at = now()
		FROM old
		WHERE e.id = old.id
		RETURNING old.image_url
	`, url, id).Scan(&previous)
	if err != nil {
		return nil, translate("events.set_image", err, repository.ErrNotFound)
	}
	return previous, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return translate("events.delete", err, repository.ErrHasDependents)
	}
	if res.RowsAffected() == 0 {
		return translate("events.delete", errNoRows, repository.ErrHasDependents)
	}
	return nil
}

func eventDest(e *entity.Event) []any {
	return []any{
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.Category, &e.AgeGroup, &e.Price, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt,
	}
}

func scanEvent(row scanner) (*entity.Event, error) {
	e := &entity.Event{}
	if err := row.Scan(eventDest(e)...); err != nil {
		return nil, err
	}
	return e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains pattern with LIKE wildcards in s taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var _ repository.EventRepository = (*EventRepository)(nil)

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (rating, comment, reviewer_id, organizer_profile_id, event_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rv.Rating, rv.Comment, rv.ReviewerID, rv.OrganizerProfileID, rv.EventID)

	return translate("reviews.create", row.Scan(&rv.ID, &rv.CreatedAt), repository.ErrNotFound)
}

func (r *ReviewRepository) ListRecentByProfile(ctx context.Context, profileID string, limit int) ([]entity.ReviewWithReviewer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.rating, rv.comment, rv.reviewer_id, rv.organizer_profile_id, rv.event_id, rv.created_at,
			u.first_name, u.last_name
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.organizer_profile_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, translate("reviews.list_recent", err, repository.ErrNotFound)
	}
	defer rows.Close()

	out := []entity.ReviewWithReviewer{}
	for rows.Next() {
		var x entity.ReviewWithReviewer
		if err := rows.Scan(&x.ID, &x.Rating, &x.Comment, &x.ReviewerID, &x.OrganizerProfileID, &x.EventID,
			&x.CreatedAt, &x.Reviewer.FirstName, &x.Reviewer.LastName); err != nil {
			return nil, translate("reviews.list_recent.scan", err, repository.ErrNotFound)
		}
		out = append(out, x)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("reviews.list_recent.rows", err, repository.ErrNotFound)
	}
	return out, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

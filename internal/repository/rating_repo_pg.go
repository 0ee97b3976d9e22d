package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingFilter struct {
	FlightID *int64
	UserID   *string
}

type RatingRepository interface {
	// Upsert inserts the rating or overwrites the score of the existing
	// (user, flight) rating. created is false for an overwrite.
	Upsert(ctx context.Context, rating *domain.Rating) (created bool, err error)
	List(ctx context.Context, filter RatingFilter) ([]domain.Rating, error)
}

type PGRatingRepository struct {
	db *pgxpool.Pool
}

func NewRatingRepository(db *pgxpool.Pool) RatingRepository {
	return &PGRatingRepository{db: db}
}

func (r *PGRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	var inserted bool
	err := r.db.QueryRow(ctx, `INSERT INTO ratings (user_id, flight_id, rating) VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_rating_user_flight DO UPDATE SET rating = EXCLUDED.rating
		RETURNING id, created_at, (xmax = 0) AS inserted`, rating.UserID, rating.FlightID, rating.Rating).
		Scan(&rating.ID, &rating.CreatedAt, &inserted)
	if err != nil {
		return false, translate(err)
	}
	return inserted, nil
}

func buildRatingQuery(filter RatingFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT id, user_id, flight_id, rating, created_at FROM ratings")

	var conds []string
	var args []any
	if filter.FlightID != nil {
		args = append(args, *filter.FlightID)
		conds = append(conds, fmt.Sprintf("flight_id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	return sb.String(), args
}

func (r *PGRatingRepository) List(ctx context.Context, filter RatingFilter) ([]domain.Rating, error) {
	query, args := buildRatingQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.FlightID, &rt.Rating, &rt.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

var _ RatingRepository = (*PGRatingRepository)(nil)

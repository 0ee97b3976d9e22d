package repository

import (
	"context"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	List(ctx context.Context) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	// GetOrCreate returns the airline with this name, inserting it when
	// missing. created is true only for the insert.
	GetOrCreate(ctx context.Context, name string) (airline *domain.Airline, created bool, err error)
	Delete(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM airlines ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	var a domain.Airline
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM airlines WHERE id=$1`, id).Scan(&a.ID, &a.Name); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// The no-op update makes RETURNING yield the existing row on conflict;
// xmax is 0 only for a freshly inserted tuple.
const getOrCreateAirlineSQL = `INSERT INTO airlines (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id, name, (xmax = 0) AS inserted`

func (r *PGAirlineRepository) GetOrCreate(ctx context.Context, name string) (*domain.Airline, bool, error) {
	row := r.db.QueryRow(ctx, getOrCreateAirlineSQL, name)
	var a domain.Airline
	var inserted bool
	if err := row.Scan(&a.ID, &a.Name, &inserted); err != nil {
		return nil, false, err
	}
	return &a, inserted, nil
}

func (r *PGAirlineRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airlines WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)

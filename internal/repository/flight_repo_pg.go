package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightFilter narrows List at the storage layer. Nil fields do not filter.
type FlightFilter struct {
	AirlineID      *int64
	ApprovalStatus *domain.ApprovalStatus
}

type FlightRepository interface {
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	// UpdateDetails writes the editable columns and sends a REJECTED flight
	// back to PENDING. It reports false when the flight is missing or has
	// departed by now.
	UpdateDetails(ctx context.Context, flight *domain.Flight, now time.Time) (bool, error)
	// SetApproval stores the review decision held in flight. It reports
	// false when the flight is missing or no longer PENDING.
	SetApproval(ctx context.Context, flight *domain.Flight) (bool, error)
	// MarkCanceled stores the cancellation held in flight. It reports false
	// when the flight is missing, already canceled or in the air at
	// flight.CanceledAt.
	MarkCanceled(ctx context.Context, flight *domain.Flight) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.name, f.airline_id, a.name, f.distance_km, f.duration_seconds, f.departure_time,
	f.origin_airport, f.destination_airport, f.created_by_user_id, f.price,
	f.approval_status, f.rejection_reason, f.approved_by_user_id, f.approved_at,
	f.canceled, f.canceled_by_user_id, f.canceled_at, f.created_at, f.updated_at`

const flightFrom = ` FROM flights f JOIN airlines a ON a.id = f.airline_id`

func scanFlight(row scanner) (*domain.Flight, error) {
	var f domain.Flight
	var airlineName string
	var approval string
	if err := row.Scan(&f.ID, &f.Name, &f.AirlineID, &airlineName, &f.DistanceKM, &f.DurationSeconds, &f.DepartureTime,
		&f.OriginAirport, &f.DestinationAirport, &f.CreatedByUserID, &f.Price,
		&approval, &f.RejectionReason, &f.ApprovedByUserID, &f.ApprovedAt,
		&f.Canceled, &f.CanceledByUserID, &f.CanceledAt, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ApprovalStatus = domain.ApprovalStatus(approval)
	f.Airline = &domain.Airline{ID: f.AirlineID, Name: airlineName}
	return &f, nil
}

// buildListQuery renders the filtered, departure-ordered listing query.
func buildListQuery(filter FlightFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(flightColumns)
	sb.WriteString(flightFrom)

	var conds []string
	var args []any
	if filter.AirlineID != nil {
		args = append(args, *filter.AirlineID)
		conds = append(conds, fmt.Sprintf("f.airline_id = $%d", len(args)))
	}
	if filter.ApprovalStatus != nil {
		args = append(args, string(*filter.ApprovalStatus))
		conds = append(conds, fmt.Sprintf("f.approval_status = $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY f.departure_time ASC, f.id ASC")
	return sb.String(), args
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+flightFrom+` WHERE f.id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (r *PGFlightRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Flight, error) {
	out := make(map[int64]*domain.Flight, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+flightFrom+` WHERE f.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, rows.Err()
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (name, airline_id, distance_km, duration_seconds, departure_time,
		origin_airport, destination_airport, created_by_user_id, price, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		f.Name, f.AirlineID, f.DistanceKM, f.DurationSeconds, f.DepartureTime,
		f.OriginAirport, f.DestinationAirport, f.CreatedByUserID, f.Price, string(f.ApprovalStatus)).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return translate(err)
}

// Each transition touches only its own columns and is guarded on the state
// it starts from, so concurrent transitions cannot overwrite each other.
const (
	updateDetailsSQL = `UPDATE flights SET
		name=$2, airline_id=$3, distance_km=$4, duration_seconds=$5, departure_time=$6,
		origin_airport=$7, destination_airport=$8, price=$9,
		approval_status = CASE WHEN approval_status = 'REJECTED' THEN 'PENDING' ELSE approval_status END,
		rejection_reason = CASE WHEN approval_status = 'REJECTED' THEN NULL ELSE rejection_reason END,
		approved_by_user_id = CASE WHEN approval_status = 'REJECTED' THEN NULL ELSE approved_by_user_id END,
		approved_at = CASE WHEN approval_status = 'REJECTED' THEN NULL ELSE approved_at END,
		updated_at=now()
		WHERE id=$1 AND (canceled OR departure_time > $10)
		RETURNING approval_status, rejection_reason, approved_by_user_id, approved_at,
			canceled, canceled_by_user_id, canceled_at, updated_at`

	setApprovalSQL = `UPDATE flights SET
		approval_status=$2, rejection_reason=$3, approved_by_user_id=$4, approved_at=$5, updated_at=now()
		WHERE id=$1 AND approval_status='PENDING'
		RETURNING canceled, canceled_by_user_id, canceled_at, updated_at`

	markCanceledSQL = `UPDATE flights SET
		canceled=true, canceled_by_user_id=$2, canceled_at=$3, updated_at=now()
		WHERE id=$1 AND NOT canceled
			AND NOT (departure_time <= $3 AND departure_time + duration_seconds * interval '1 second' > $3)
		RETURNING approval_status, rejection_reason, approved_by_user_id, approved_at, updated_at`
)

// guarded maps "no row" from a guarded UPDATE ... RETURNING to false.
func guarded(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, translate(err)
}

func (r *PGFlightRepository) UpdateDetails(ctx context.Context, f *domain.Flight, now time.Time) (bool, error) {
	var approval string
	err := r.db.QueryRow(ctx, updateDetailsSQL,
		f.ID, f.Name, f.AirlineID, f.DistanceKM, f.DurationSeconds, f.DepartureTime,
		f.OriginAirport, f.DestinationAirport, f.Price, now).
		Scan(&approval, &f.RejectionReason, &f.ApprovedByUserID, &f.ApprovedAt,
			&f.Canceled, &f.CanceledByUserID, &f.CanceledAt, &f.UpdatedAt)
	ok, err := guarded(err)
	if ok {
		f.ApprovalStatus = domain.ApprovalStatus(approval)
	}
	return ok, err
}

func (r *PGFlightRepository) SetApproval(ctx context.Context, f *domain.Flight) (bool, error) {
	err := r.db.QueryRow(ctx, setApprovalSQL,
		f.ID, string(f.ApprovalStatus), f.RejectionReason, f.ApprovedByUserID, f.ApprovedAt).
		Scan(&f.Canceled, &f.CanceledByUserID, &f.CanceledAt, &f.UpdatedAt)
	return guarded(err)
}

func (r *PGFlightRepository) MarkCanceled(ctx context.Context, f *domain.Flight) (bool, error) {
	var approval string
	err := r.db.QueryRow(ctx, markCanceledSQL, f.ID, f.CanceledByUserID, f.CanceledAt).
		Scan(&approval, &f.RejectionReason, &f.ApprovedByUserID, &f.ApprovedAt, &f.UpdatedAt)
	ok, err := guarded(err)
	if ok {
		f.ApprovalStatus = domain.ApprovalStatus(approval)
	}
	return ok, err
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)

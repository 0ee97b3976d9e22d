package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error)
	// Settle moves a PENDING purchase to its terminal status. It reports false
	// when the purchase is gone or was already settled.
	Settle(ctx context.Context, id int64, status domain.PurchaseStatus, reason *string, purchasedAt *time.Time) (bool, error)
	HasCompleted(ctx context.Context, userID string, flightID int64) (bool, error)
	CompletedBuyers(ctx context.Context, flightID int64) ([]string, error)
}

type PGPurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) PurchaseRepository {
	return &PGPurchaseRepository{db: db}
}

const purchaseColumns = `id, user_id, flight_id, status, failure_reason, price_paid, purchased_at, created_at`

func scanPurchase(row scanner) (*domain.Purchase, error) {
	var p domain.Purchase
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &p.FlightID, &status, &p.FailureReason, &p.PricePaid, &p.PurchasedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Status = domain.PurchaseStatus(status)
	return &p, nil
}

func (r *PGPurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	return r.db.QueryRow(ctx, `INSERT INTO purchases (user_id, flight_id, status, price_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, p.UserID, p.FlightID, string(p.Status), p.PricePaid).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *PGPurchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	p, err := scanPurchase(r.db.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id=$1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PGPurchaseRepository) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	rows, err := r.db.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]domain.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, *p)
	}
	return purchases, rows.Err()
}

func (r *PGPurchaseRepository) Settle(ctx context.Context, id int64, status domain.PurchaseStatus, reason *string, purchasedAt *time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE purchases SET status=$2, failure_reason=$3, purchased_at=$4
		WHERE id=$1 AND status=$5`, id, string(status), reason, purchasedAt, string(domain.PurchasePending))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *PGPurchaseRepository) HasCompleted(ctx context.Context, userID string, flightID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id=$1 AND flight_id=$2 AND status=$3)`,
		userID, flightID, string(domain.PurchaseCompleted)).Scan(&exists)
	return exists, err
}

func (r *PGPurchaseRepository) CompletedBuyers(ctx context.Context, flightID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM purchases WHERE flight_id=$1 AND status=$2 ORDER BY user_id`,
		flightID, string(domain.PurchaseCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buyers := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		buyers = append(buyers, userID)
	}
	return buyers, rows.Err()
}

var _ PurchaseRepository = (*PGPurchaseRepository)(nil)

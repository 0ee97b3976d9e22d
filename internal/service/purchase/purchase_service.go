package purchase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/kafka"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/worker"
)

const reasonSchedulingFailed = "Purchase processing unavailable"

type PurchaseUseCase interface {
	Submit(ctx context.Context, flightID int64, userID string) (*SubmitResult, error)
	Settle(ctx context.Context, purchaseID int64) error
	ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error)
}

// Scheduler runs a task after a delay, detached from the caller.
type Scheduler interface {
	SubmitAfter(delay time.Duration, task worker.Task) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type SubmitResult struct {
	Purchase          *domain.Purchase
	ProcessingSeconds int
}

type PurchaseService struct {
	purchases repository.PurchaseRepository
	flights   repository.FlightRepository
	scheduler Scheduler
	delay     time.Duration
	events    Publisher
	topic     string
	logger    logger.Logger
	now       func() time.Time
}

type Option func(*PurchaseService)

func WithEvents(p Publisher, topic string) Option {
	return func(s *PurchaseService) {
		s.events = p
		s.topic = topic
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *PurchaseService) {
		s.now = now
	}
}

// NewPurchaseService settles every submitted purchase processingDelay after
// submission. A negative delay is treated as zero.
func NewPurchaseService(
	purchases repository.PurchaseRepository,
	flights repository.FlightRepository,
	scheduler Scheduler,
	processingDelay time.Duration,
	log logger.Logger,
	opts ...Option,
) *PurchaseService {
	if processingDelay < 0 {
		processingDelay = 0
	}
	s := &PurchaseService{
		purchases: purchases,
		flights:   flights,
		scheduler: scheduler,
		delay:     processingDelay,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a PENDING purchase at the current flight price and
// schedules its settlement. Eligibility is checked only at settlement.
func (s *PurchaseService) Submit(ctx context.Context, flightID int64, userID string) (*SubmitResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.Auth("X-User-Id header is required")
	}

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Flight not found")
		}
		return nil, fmt.Errorf("get flight %d: %w", flightID, err)
	}

	p := &domain.Purchase{
		UserID:    userID,
		FlightID:  flight.ID,
		Status:    domain.PurchasePending,
		PricePaid: flight.Price,
	}
	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	id := p.ID
	if err := s.scheduler.SubmitAfter(s.delay, func(ctx context.Context) {
		if err := s.Settle(ctx, id); err != nil {
			s.logger.Error("settle purchase", logger.F("purchase_id", id), logger.F("error", err))
		}
	}); err != nil {
		s.logger.Error("schedule settlement", logger.F("purchase_id", id), logger.F("error", err))
		reason := reasonSchedulingFailed
		if _, serr := s.purchases.Settle(ctx, id, domain.PurchaseFailed, &reason, nil); serr != nil {
			s.logger.Error("fail unscheduled purchase", logger.F("purchase_id", id), logger.F("error", serr))
		}
		return nil, domain.Unavailable("Purchase processing is busy, try again later")
	}

	s.logger.Info("purchase submitted", logger.F("purchase_id", id), logger.F("flight_id", flight.ID), logger.F("user_id", userID))
	return &SubmitResult{Purchase: p, ProcessingSeconds: int(s.delay / time.Second)}, nil
}

// Settle decides the terminal status of a purchase against the flight as it
// is now. A purchase that vanished or was already settled is left alone.
func (s *PurchaseService) Settle(ctx context.Context, purchaseID int64) error {
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("purchase vanished before settlement", logger.F("purchase_id", purchaseID))
			return nil
		}
		return fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}
	if p.Status != domain.PurchasePending {
		return nil
	}

	flight, err := s.flights.GetByID(ctx, p.FlightID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("get flight %d: %w", p.FlightID, err)
	}

	now := s.now()
	status, reason := domain.SettlementOutcome(flight, now)

	var failure *string
	var purchasedAt *time.Time
	if status == domain.PurchaseFailed {
		failure = &reason
	} else {
		purchasedAt = &now
	}

	settled, err := s.purchases.Settle(ctx, p.ID, status, failure, purchasedAt)
	if err != nil {
		return fmt.Errorf("settle purchase %d: %w", p.ID, err)
	}
	if !settled {
		return nil
	}

	s.logger.Info("purchase settled", logger.F("purchase_id", p.ID), logger.F("status", string(status)), logger.F("reason", reason))
	s.publish(ctx, p, status, reason, now)
	return nil
}

// ListByUser returns the user's purchases newest first, each with the
// flight it refers to when that flight still exists.
func (s *PurchaseService) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	ids := make([]int64, 0, len(purchases))
	seen := make(map[int64]struct{}, len(purchases))
	for _, p := range purchases {
		if _, ok := seen[p.FlightID]; !ok {
			seen[p.FlightID] = struct{}{}
			ids = append(ids, p.FlightID)
		}
	}
	flights, err := s.flights.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load purchased flights: %w", err)
	}
	for i := range purchases {
		purchases[i].Flight = flights[purchases[i].FlightID]
	}
	return purchases, nil
}

func (s *PurchaseService) publish(ctx context.Context, p *domain.Purchase, status domain.PurchaseStatus, reason string, at time.Time) {
	if s.events == nil || s.topic == "" {
		return
	}
	eventType := kafka.EventPurchaseCompleted
	if status == domain.PurchaseFailed {
		eventType = kafka.EventPurchaseFailed
	}
	event := kafka.NewPurchaseEvent(eventType, p.ID, p.FlightID, p.UserID, string(status), at)
	event.Reason = reason
	if err := s.events.Publish(ctx, s.topic, strconv.FormatInt(p.ID, 10), event); err != nil {
		s.logger.Error("publish purchase event", logger.F("purchase_id", p.ID), logger.F("error", err))
	}
}

var _ PurchaseUseCase = (*PurchaseService)(nil)

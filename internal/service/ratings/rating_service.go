package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/repository"
)

type RatingUseCase interface {
	Rate(ctx context.Context, input RateInput) (rating *domain.Rating, created bool, err error)
	List(ctx context.Context, filter repository.RatingFilter) ([]domain.Rating, error)
}

type RateInput struct {
	FlightID *int64
	Rating   *int
	UserID   string
}

type RatingService struct {
	ratings   repository.RatingRepository
	flights   repository.FlightRepository
	purchases repository.PurchaseRepository
	logger    logger.Logger
	now       func() time.Time
}

type Option func(*RatingService)

func WithClock(now func() time.Time) Option {
	return func(s *RatingService) {
		s.now = now
	}
}

func NewRatingService(
	ratings repository.RatingRepository,
	flights repository.FlightRepository,
	purchases repository.PurchaseRepository,
	log logger.Logger,
	opts ...Option,
) *RatingService {
	s := &RatingService{
		ratings:   ratings,
		flights:   flights,
		purchases: purchases,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rate creates or overwrites the caller's rating of a finished flight they
// bought. created is false when an existing rating was updated.
func (s *RatingService) Rate(ctx context.Context, in RateInput) (*domain.Rating, bool, error) {
	if in.FlightID == nil {
		return nil, false, domain.Validation("flight_id must be int")
	}
	if in.Rating == nil {
		return nil, false, domain.Validation("rating must be int")
	}
	if *in.Rating < domain.MinRating || *in.Rating > domain.MaxRating {
		return nil, false, domain.Validation(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, false, domain.Validation("user_id is required (or send X-User-Id)")
	}

	flight, err := s.flights.GetByID(ctx, *in.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, domain.NotFound("Flight not found")
		}
		return nil, false, fmt.Errorf("get flight %d: %w", *in.FlightID, err)
	}

	bought, err := s.purchases.HasCompleted(ctx, userID, flight.ID)
	if err != nil {
		return nil, false, fmt.Errorf("check purchase: %w", err)
	}
	if err := domain.CheckRatingEligibility(flight, bought, s.now()); err != nil {
		return nil, false, err
	}

	rating := &domain.Rating{UserID: userID, FlightID: flight.ID, Rating: *in.Rating}
	created, err := s.ratings.Upsert(ctx, rating)
	if err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return nil, false, domain.NotFound("Flight not found")
		}
		return nil, false, fmt.Errorf("save rating: %w", err)
	}
	rating.Flight = flight

	s.logger.Info("flight rated", logger.F("flight_id", flight.ID), logger.F("user_id", userID), logger.F("rating", rating.Rating), logger.F("created", created))
	return rating, created, nil
}

// List returns ratings newest first with their flights attached.
func (s *RatingService) List(ctx context.Context, filter repository.RatingFilter) ([]domain.Rating, error) {
	ratings, err := s.ratings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if len(ratings) == 0 {
		return ratings, nil
	}

	ids := make([]int64, 0, len(ratings))
	seen := make(map[int64]struct{}, len(ratings))
	for _, r := range ratings {
		if _, ok := seen[r.FlightID]; !ok {
			seen[r.FlightID] = struct{}{}
			ids = append(ids, r.FlightID)
		}
	}
	flights, err := s.flights.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load rated flights: %w", err)
	}
	for i := range ratings {
		ratings[i].Flight = flights[ratings[i].FlightID]
	}
	return ratings, nil
}

var _ RatingUseCase = (*RatingService)(nil)

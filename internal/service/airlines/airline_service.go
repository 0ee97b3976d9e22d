package airlines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/repository"
)

type AirlineUseCase interface {
	List(ctx context.Context) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	GetOrCreate(ctx context.Context, name string) (*domain.Airline, bool, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetAirlines(ctx context.Context) ([]domain.Airline, error)
	SetAirlines(ctx context.Context, airlines []domain.Airline) error
	InvalidateAirlines(ctx context.Context) error
}

type AirlineService struct {
	repo   repository.AirlineRepository
	cache  Cache
	logger logger.Logger
}

type Option func(*AirlineService)

func WithCache(cache Cache) Option {
	return func(s *AirlineService) {
		s.cache = cache
	}
}

func NewAirlineService(repo repository.AirlineRepository, log logger.Logger, opts ...Option) *AirlineService {
	s := &AirlineService{repo: repo, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AirlineService) List(ctx context.Context) ([]domain.Airline, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAirlines(ctx)
		if err != nil {
			s.logger.Warn("airline cache read failed", logger.F("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	airlines, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list airlines: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetAirlines(ctx, airlines); err != nil {
			s.logger.Warn("airline cache write failed", logger.F("error", err))
		}
	}
	return airlines, nil
}

func (s *AirlineService) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	airline, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Airline not found")
		}
		return nil, fmt.Errorf("get airline %d: %w", id, err)
	}
	return airline, nil
}

// GetOrCreate returns the airline named name, creating it if needed. The
// boolean reports whether a new airline was created.
func (s *AirlineService) GetOrCreate(ctx context.Context, name string) (*domain.Airline, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.Validation("name is required")
	}

	airline, created, err := s.repo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("get or create airline: %w", err)
	}
	if created {
		s.invalidate(ctx)
		s.logger.Info("airline created", logger.F("airline_id", airline.ID), logger.F("name", airline.Name))
	}
	return airline, created, nil
}

func (s *AirlineService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound("Airline does not exist")
	case errors.Is(err, repository.ErrInUse):
		return domain.Validation("Airline still has flights")
	case err != nil:
		return fmt.Errorf("delete airline %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *AirlineService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAirlines(ctx); err != nil {
		s.logger.Warn("airline cache invalidation failed", logger.F("error", err))
	}
}

var _ AirlineUseCase = (*AirlineService)(nil)

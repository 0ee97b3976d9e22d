package flights

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
)

type FlightUseCase interface {
	List(ctx context.Context, query ListQuery) ([]FlightView, error)
	GetByID(ctx context.Context, id int64) (*FlightView, error)
	Create(ctx context.Context, input CreateFlightInput) (*FlightView, error)
	Update(ctx context.Context, id int64, input UpdateFlightInput) (*FlightView, error)
	Delete(ctx context.Context, id int64) error
	Approve(ctx context.Context, id int64, actor string) (*FlightView, error)
	Reject(ctx context.Context, id int64, actor, reason string) (*FlightView, error)
	Cancel(ctx context.Context, id int64, actor string) (*FlightView, error)
	Buyers(ctx context.Context, id int64) ([]string, error)
}

// BuyerLister returns the users holding a completed purchase for a flight.
type BuyerLister interface {
	CompletedBuyers(ctx context.Context, flightID int64) ([]string, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// ListQuery carries the raw listing parameters.
type ListQuery struct {
	Tab            string
	Text           string
	AirlineID      *int64
	ApprovalStatus string
}

// FlightView is a flight evaluated at the instant the request was served.
type FlightView struct {
	Flight  *domain.Flight
	Runtime domain.RuntimeState
	EndTime time.Time
}

type FlightService struct {
	flights  repository.FlightRepository
	airlines repository.AirlineRepository
	buyers   BuyerLister
	events   Publisher
	topic    string
	logger   logger.Logger
	now      func() time.Time
}

type Option func(*FlightService)

func WithEvents(p Publisher, topic string) Option {
	return func(s *FlightService) {
		s.events = p
		s.topic = topic
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	airlines repository.AirlineRepository,
	buyers BuyerLister,
	log logger.Logger,
	opts ...Option,
) *FlightService {
	s := &FlightService{
		flights:  flights,
		airlines: airlines,
		buyers:   buyers,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errFlightNotFound = domain.NotFound("Flight not found")

func (s *FlightService) view(f *domain.Flight, now time.Time) FlightView {
	return FlightView{Flight: f, Runtime: f.RuntimeState(now), EndTime: f.EndTime()}
}

func (s *FlightService) List(ctx context.Context, q ListQuery) ([]FlightView, error) {
	tab, err := ParseTab(q.Tab)
	if err != nil {
		return nil, err
	}

	filter := repository.FlightFilter{AirlineID: q.AirlineID}
	if raw := strings.ToUpper(strings.TrimSpace(q.ApprovalStatus)); raw != "" {
		approval := domain.ApprovalStatus(raw)
		if !approval.Valid() {
			return nil, domain.Validation("approval_status must be PENDING, APPROVED or REJECTED")
		}
		filter.ApprovalStatus = &approval
	}

	flights, err := s.flights.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	now := s.now()
	out := make([]FlightView, 0, len(flights))
	for i := range flights {
		f := &flights[i]
		if !matchesText(f, text) {
			continue
		}
		v := s.view(f, now)
		if !tab.Includes(f.ApprovalStatus, v.Runtime.Status) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *FlightService) load(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errFlightNotFound
		}
		return nil, fmt.Errorf("get flight %d: %w", id, err)
	}
	return f, nil
}

func (s *FlightService) airline(ctx context.Context, id int64) (*domain.Airline, error) {
	a, err := s.airlines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Airline not found")
		}
		return nil, fmt.Errorf("get airline %d: %w", id, err)
	}
	return a, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*FlightView, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(f, s.now())
	return &v, nil
}

func (s *FlightService) Create(ctx context.Context, in CreateFlightInput) (*FlightView, error) {
	if missing := in.missing(); len(missing) > 0 {
		return nil, domain.Validation("Missing: " + strings.Join(missing, ", "))
	}
	if err := positive("distance_km", *in.DistanceKM); err != nil {
		return nil, err
	}
	duration, err := wholeSeconds(*in.DurationSeconds)
	if err != nil {
		return nil, err
	}
	if err := positive("price", *in.Price); err != nil {
		return nil, err
	}
	departure, err := ParseISOTime(*in.DepartureTime)
	if err != nil {
		return nil, err
	}
	creator := strings.TrimSpace(in.CreatedByUserID)
	if creator == "" {
		return nil, domain.Validation("created_by_user_id required (or send X-User-Id header)")
	}

	airline, err := s.airline(ctx, *in.AirlineID)
	if err != nil {
		return nil, err
	}

	f := &domain.Flight{
		Name:               strings.TrimSpace(*in.Name),
		AirlineID:          airline.ID,
		Airline:            airline,
		DistanceKM:         *in.DistanceKM,
		DurationSeconds:    duration,
		DepartureTime:      departure,
		OriginAirport:      strings.TrimSpace(*in.OriginAirport),
		DestinationAirport: strings.TrimSpace(*in.DestinationAirport),
		CreatedByUserID:    creator,
		Price:              *in.Price,
		ApprovalStatus:     domain.ApprovalPending,
	}
	if err := s.flights.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return nil, domain.NotFound("Airline not found")
		}
		return nil, fmt.Errorf("create flight: %w", err)
	}

	s.logger.Info("flight created", logger.F("flight_id", f.ID), logger.F("created_by", creator))
	v := s.view(f, s.now())
	return &v, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, in UpdateFlightInput) (*FlightView, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := f.BeginEdit(now); err != nil {
		return nil, err
	}

	keep := func(dst *string, src *string) {
		if src != nil {
			if v := strings.TrimSpace(*src); v != "" {
				*dst = v
			}
		}
	}
	keep(&f.Name, in.Name)
	keep(&f.OriginAirport, in.OriginAirport)
	keep(&f.DestinationAirport, in.DestinationAirport)

	if in.AirlineID != nil {
		airline, err := s.airline(ctx, *in.AirlineID)
		if err != nil {
			return nil, err
		}
		f.AirlineID = airline.ID
		f.Airline = airline
	}
	if in.DistanceKM != nil {
		if err := positive("distance_km", *in.DistanceKM); err != nil {
			return nil, err
		}
		f.DistanceKM = *in.DistanceKM
	}
	if in.DurationSeconds != nil {
		if f.DurationSeconds, err = wholeSeconds(*in.DurationSeconds); err != nil {
			return nil, err
		}
	}
	if in.DepartureTime != nil {
		if f.DepartureTime, err = ParseISOTime(*in.DepartureTime); err != nil {
			return nil, err
		}
	}
	if in.Price != nil {
		if err := positive("price", *in.Price); err != nil {
			return nil, err
		}
		f.Price = *in.Price
	}

	ok, err := s.flights.UpdateDetails(ctx, f, now)
	if err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return nil, domain.NotFound("Airline not found")
		}
		return nil, fmt.Errorf("update flight %d: %w", id, err)
	}
	if !ok {
		return nil, s.conflict(ctx, id, domain.ErrEditLocked)
	}
	v := s.view(f, now)
	return &v, nil
}

// conflict explains a guarded write that matched no row: the flight is
// either gone or no longer in the state the transition starts from.
func (s *FlightService) conflict(ctx context.Context, id int64, stale error) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return stale
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errFlightNotFound
		}
		return fmt.Errorf("delete flight %d: %w", id, err)
	}
	s.logger.Info("flight deleted", logger.F("flight_id", id))
	return nil
}

func (s *FlightService) Approve(ctx context.Context, id int64, actor string) (*FlightView, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := f.Approve(actor, now); err != nil {
		return nil, err
	}
	ok, err := s.flights.SetApproval(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("approve flight %d: %w", id, err)
	}
	if !ok {
		return nil, s.conflict(ctx, id, domain.ErrApproveNotPending)
	}
	s.publish(ctx, kafka.EventFlightApproved, f, actor, "", now)
	v := s.view(f, now)
	return &v, nil
}

func (s *FlightService) Reject(ctx context.Context, id int64, actor, reason string) (*FlightView, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	reason = strings.TrimSpace(reason)
	if err := f.Reject(actor, reason, now); err != nil {
		return nil, err
	}
	ok, err := s.flights.SetApproval(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reject flight %d: %w", id, err)
	}
	if !ok {
		return nil, s.conflict(ctx, id, domain.ErrRejectNotPending)
	}
	s.publish(ctx, kafka.EventFlightRejected, f, actor, reason, now)
	v := s.view(f, now)
	return &v, nil
}

// Cancel is idempotent: canceling a canceled flight returns it unchanged.
func (s *FlightService) Cancel(ctx context.Context, id int64, actor string) (*FlightView, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	changed, err := f.Cancel(actor, now)
	if err != nil {
		return nil, err
	}
	if changed {
		ok, err := s.flights.MarkCanceled(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("cancel flight %d: %w", id, err)
		}
		if ok {
			s.publish(ctx, kafka.EventFlightCanceled, f, actor, "", now)
		} else {
			// someone else got there first; report what is stored now
			if f, err = s.load(ctx, id); err != nil {
				return nil, err
			}
			if !f.Canceled {
				return nil, domain.ErrCancelInProgress
			}
		}
	}
	v := s.view(f, now)
	return &v, nil
}

func (s *FlightService) Buyers(ctx context.Context, id int64) ([]string, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	buyers, err := s.buyers.CompletedBuyers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list buyers of flight %d: %w", id, err)
	}
	return buyers, nil
}

// publish never fails the caller; a lost event is only logged.
func (s *FlightService) publish(ctx context.Context, eventType string, f *domain.Flight, actor, reason string, at time.Time) {
	if s.events == nil {
		return
	}
	event := kafka.NewFlightEvent(eventType, f.ID, f.Name, at)
	event.ActorID = actor
	event.Reason = reason
	if err := s.events.Publish(ctx, s.topic, strconv.FormatInt(f.ID, 10), event); err != nil {
		s.logger.Error("publish flight event", logger.F("type", eventType), logger.F("flight_id", f.ID), logger.F("error", err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)

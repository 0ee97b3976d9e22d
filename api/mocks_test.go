package api

import (
	"context"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/service/flights"
	"github.com/Domenick1991/letservice/internal/service/purchase"
	"github.com/Domenick1991/letservice/internal/service/ratings"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) view(args mock.Arguments) (*flights.FlightView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) List(ctx context.Context, query flights.ListQuery) ([]flights.FlightView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flights.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *MockFlightUseCase) Update(ctx context.Context, id int64, input flights.UpdateFlightInput) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, id, input))
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFlightUseCase) Approve(ctx context.Context, id int64, actor string) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, id, actor))
}

func (m *MockFlightUseCase) Reject(ctx context.Context, id int64, actor, reason string) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, id, actor, reason))
}

func (m *MockFlightUseCase) Cancel(ctx context.Context, id int64, actor string) (*flights.FlightView, error) {
	return m.view(m.Called(ctx, id, actor))
}

func (m *MockFlightUseCase) Buyers(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPurchaseUseCase struct {
	mock.Mock
}

func (m *MockPurchaseUseCase) Submit(ctx context.Context, flightID int64, userID string) (*purchase.SubmitResult, error) {
	args := m.Called(ctx, flightID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.SubmitResult), args.Error(1)
}

func (m *MockPurchaseUseCase) Settle(ctx context.Context, purchaseID int64) error {
	return m.Called(ctx, purchaseID).Error(0)
}

func (m *MockPurchaseUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

type MockRatingUseCase struct {
	mock.Mock
}

func (m *MockRatingUseCase) Rate(ctx context.Context, input ratings.RateInput) (*domain.Rating, bool, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Rating), args.Bool(1), args.Error(2)
}

func (m *MockRatingUseCase) List(ctx context.Context, filter repository.RatingFilter) ([]domain.Rating, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

type MockAirlineUseCase struct {
	mock.Mock
}

func (m *MockAirlineUseCase) List(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockAirlineUseCase) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineUseCase) GetOrCreate(ctx context.Context, name string) (*domain.Airline, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Airline), args.Bool(1), args.Error(2)
}

func (m *MockAirlineUseCase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

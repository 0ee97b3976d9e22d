package ratings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	args := m.Called(ctx, rating)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) List(ctx context.Context, filter repository.RatingFilter) ([]domain.Rating, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Flight, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return m.Called(ctx, flight).Error(0)
}

func (m *MockFlightRepository) UpdateDetails(ctx context.Context, flight *domain.Flight, now time.Time) (bool, error) {
	args := m.Called(ctx, flight, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) SetApproval(ctx context.Context, flight *domain.Flight) (bool, error) {
	args := m.Called(ctx, flight)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) MarkCanceled(ctx context.Context, flight *domain.Flight) (bool, error) {
	args := m.Called(ctx, flight)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Settle(ctx context.Context, id int64, status domain.PurchaseStatus, reason *string, at *time.Time) (bool, error) {
	args := m.Called(ctx, id, status, reason, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) HasCompleted(ctx context.Context, userID string, flightID int64) (bool, error) {
	args := m.Called(ctx, userID, flightID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) CompletedBuyers(ctx context.Context, flightID int64) ([]string, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]string), args.Error(1)
}

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ratings   *MockRatingRepository
	flights   *MockFlightRepository
	purchases *MockPurchaseRepository
	service   *RatingService
}

func newFixture() *fixture {
	f := &fixture{
		ratings:   &MockRatingRepository{},
		flights:   &MockFlightRepository{},
		purchases: &MockPurchaseRepository{},
	}
	f.service = NewRatingService(f.ratings, f.flights, f.purchases, logger.Nop(),
		WithClock(func() time.Time { return now }))
	return f
}

func finishedFlight() *domain.Flight {
	return &domain.Flight{ID: 3, Name: "BEG-LHR", DepartureTime: now.Add(-2 * time.Hour), DurationSeconds: 3600, ApprovalStatus: domain.ApprovalApproved}
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestRatingService_Rate_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		input   RateInput
		message string
	}{
		{"no flight", RateInput{Rating: intPtr(4), UserID: "42"}, "flight_id must be int"},
		{"no rating", RateInput{FlightID: int64Ptr(3), UserID: "42"}, "rating must be int"},
		{"rating too high", RateInput{FlightID: int64Ptr(3), Rating: intPtr(6), UserID: "42"}, "rating must be between 1 and 5"},
		{"rating too low", RateInput{FlightID: int64Ptr(3), Rating: intPtr(0), UserID: "42"}, "rating must be between 1 and 5"},
		{"no user", RateInput{FlightID: int64Ptr(3), Rating: intPtr(4)}, "user_id is required (or send X-User-Id)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, _, err := f.service.Rate(context.Background(), tc.input)

			kind, _ := domain.KindOf(err)
			assert.Equal(t, domain.KindValidation, kind)
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestRatingService_Rate_InProgressFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flight := finishedFlight()
	flight.DepartureTime = now.Add(-time.Minute)

	f.flights.On("GetByID", ctx, int64(3)).Return(flight, nil)
	f.purchases.On("HasCompleted", ctx, "42", int64(3)).Return(true, nil)

	_, _, err := f.service.Rate(ctx, RateInput{FlightID: int64Ptr(3), Rating: intPtr(5), UserID: "42"})

	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindInvalid, kind)
	f.ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRatingService_Rate_NotBought(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(3)).Return(finishedFlight(), nil)
	f.purchases.On("HasCompleted", ctx, "42", int64(3)).Return(false, nil)

	_, _, err := f.service.Rate(ctx, RateInput{FlightID: int64Ptr(3), Rating: intPtr(5), UserID: "42"})

	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindForbidden, kind)
}

func TestRatingService_Rate_MissingFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(3)).Return(nil, repository.ErrNotFound)

	_, _, err := f.service.Rate(ctx, RateInput{FlightID: int64Ptr(3), Rating: intPtr(5), UserID: "42"})
	assert.EqualError(t, err, "Flight not found")
}

func TestRatingService_Rate_CreateThenUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(3)).Return(finishedFlight(), nil)
	f.purchases.On("HasCompleted", ctx, "42", int64(3)).Return(true, nil)
	f.ratings.On("Upsert", ctx, mock.MatchedBy(func(r *domain.Rating) bool { return r.Rating == 4 })).Return(true, nil).Once()
	f.ratings.On("Upsert", ctx, mock.MatchedBy(func(r *domain.Rating) bool { return r.Rating == 2 })).Return(false, nil).Once()

	rating, created, err := f.service.Rate(ctx, RateInput{FlightID: int64Ptr(3), Rating: intPtr(4), UserID: " 42 "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "42", rating.UserID)
	assert.Equal(t, "BEG-LHR", rating.Flight.Name)

	rating, created, err = f.service.Rate(ctx, RateInput{FlightID: int64Ptr(3), Rating: intPtr(2), UserID: "42"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, rating.Rating)
	f.ratings.AssertExpectations(t)
}

func TestRatingService_List(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flightID := int64(3)
	filter := repository.RatingFilter{FlightID: &flightID}

	f.ratings.On("List", ctx, filter).Return([]domain.Rating{
		{ID: 2, FlightID: 3, UserID: "7", Rating: 5},
		{ID: 1, FlightID: 3, UserID: "42", Rating: 4},
	}, nil)
	f.flights.On("GetByIDs", ctx, []int64{3}).Return(map[int64]*domain.Flight{3: finishedFlight()}, nil)

	ratings, err := f.service.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, int64(2), ratings[0].ID)
	assert.Equal(t, "BEG-LHR", ratings[1].Flight.Name)
}

func TestRatingService_List_Error(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.ratings.On("List", ctx, repository.RatingFilter{}).Return(nil, errors.New("db down"))

	_, err := f.service.List(ctx, repository.RatingFilter{})
	assert.ErrorContains(t, err, "db down")
}

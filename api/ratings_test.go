package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/service/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingHandler_rate(t *testing.T) {
	flightID := int64(7)
	four := 4

	testCases := []struct {
		name    string
		body    string
		headers map[string]string
		input   ratings.RateInput
		created bool
		status  int
	}{
		{
			name:    "new rating",
			body:    `{"flight_id":7,"rating":4}`,
			headers: map[string]string{HeaderUserID: "u1"},
			input:   ratings.RateInput{FlightID: &flightID, Rating: &four, UserID: "u1"},
			created: true,
			status:  http.StatusCreated,
		},
		{
			name:    "camel case aliases override header",
			body:    `{"flightId":"7","rating":"4","userId":"u2"}`,
			headers: map[string]string{HeaderUserID: "u1"},
			input:   ratings.RateInput{FlightID: &flightID, Rating: &four, UserID: "u2"},
			status:  http.StatusOK,
		},
		{
			name:   "numeric user id",
			body:   `{"flight_id":7,"rating":4,"user_id":42}`,
			input:  ratings.RateInput{FlightID: &flightID, Rating: &four, UserID: "42"},
			status: http.StatusOK,
		},
		{
			name:   "fractional rating is not an int",
			body:   `{"flight_id":7,"rating":4.5,"user_id":"u3"}`,
			input:  ratings.RateInput{FlightID: &flightID, UserID: "u3"},
			status: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockRatingUseCase{}
			r := newTestRouter(Handlers{Ratings: NewRatingHandler(mockService, NewRoleGuard(false))})
			rating := &domain.Rating{ID: 1, UserID: tc.input.UserID, FlightID: 7, Rating: 4, CreatedAt: testNow}
			mockService.On("Rate", mock.Anything, tc.input).Return(rating, tc.created, nil)

			w := doRequest(r, http.MethodPost, "/ratings", tc.body, tc.headers)

			assert.Equal(t, tc.status, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestRatingHandler_rate_errors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"out of range", domain.Validation("rating must be between 1 and 5"), http.StatusBadRequest},
		{"not a buyer", domain.Forbidden("Only buyers with completed purchase can rate this flight"), http.StatusForbidden},
		{"not finished", domain.Invalid("Flight is not finished yet"), http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockRatingUseCase{}
			r := newTestRouter(Handlers{Ratings: NewRatingHandler(mockService, NewRoleGuard(false))})
			mockService.On("Rate", mock.Anything, mock.Anything).Return(nil, false, tc.err)

			w := doRequest(r, http.MethodPost, "/ratings", `{"flight_id":7,"rating":4}`, map[string]string{HeaderUserID: "u1"})

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.err.Error(), decodeError(t, w).Message)
		})
	}
}

func TestRatingHandler_rate_requiresRole(t *testing.T) {
	mockService := &MockRatingUseCase{}
	r := newTestRouter(Handlers{Ratings: NewRatingHandler(mockService, NewRoleGuard(true))})

	w := doRequest(r, http.MethodPost, "/ratings", `{"flight_id":7,"rating":4}`, map[string]string{HeaderUserRole: "GUEST"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, mockService.Calls)
}

func TestRatingHandler_list(t *testing.T) {
	mockService := &MockRatingUseCase{}
	r := newTestRouter(Handlers{Ratings: NewRatingHandler(mockService, NewRoleGuard(false))})

	flightID := int64(7)
	user := "u1"
	list := []domain.Rating{{ID: 3, UserID: "u1", FlightID: 7, Flight: testFlight(7), Rating: 5, CreatedAt: testNow}}
	mockService.On("List", mock.Anything, repository.RatingFilter{FlightID: &flightID, UserID: &user}).Return(list, nil)

	w := doRequest(r, http.MethodGet, "/ratings?flightId=7&user_id=u1", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []ratingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 5, resp[0].Rating)
	assert.Equal(t, "BEG-LHR", resp[0].Flight.Name)
}

func TestRatingHandler_list_badFlight(t *testing.T) {
	r := newTestRouter(Handlers{Ratings: NewRatingHandler(&MockRatingUseCase{}, NewRoleGuard(false))})

	w := doRequest(r, http.MethodGet, "/ratings?flight_id=x", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "flight_id must be int", decodeError(t, w).Message)
}

package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(h Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(logger.Nop(), "", h)
}

func doRequest(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testFlight(id int64) *domain.Flight {
	return &domain.Flight{
		ID:                 id,
		Name:               "BEG-LHR",
		AirlineID:          3,
		Airline:            &domain.Airline{ID: 3, Name: "Air Serbia"},
		DistanceKM:         1700,
		DurationSeconds:    10800,
		DepartureTime:      testNow.Add(24 * time.Hour),
		OriginAirport:      "BEG",
		DestinationAirport: "LHR",
		CreatedByUserID:    "manager-1",
		Price:              199.5,
		ApprovalStatus:     domain.ApprovalPending,
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
}

func testView(f *domain.Flight) *flights.FlightView {
	return &flights.FlightView{
		Flight:  f,
		Runtime: f.RuntimeState(testNow),
		EndTime: f.EndTime(),
	}
}

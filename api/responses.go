package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type flightBody struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Airline            *domain.Airline `json:"airline"`
	DistanceKM         float64         `json:"distance_km"`
	DurationSeconds    int64           `json:"duration_seconds"`
	DepartureTime      time.Time       `json:"departure_time"`
	OriginAirport      string          `json:"origin_airport"`
	DestinationAirport string          `json:"destination_airport"`
	CreatedByUserID    string          `json:"created_by_user_id"`
	Price              float64         `json:"price"`
	ApprovalStatus     string          `json:"approval_status"`
	RejectionReason    *string         `json:"rejection_reason"`
	ApprovedByUserID   *string         `json:"approved_by_user_id"`
	ApprovedAt         *time.Time      `json:"approved_at"`
	Canceled           bool            `json:"canceled"`
	CanceledByUserID   *string         `json:"canceled_by_user_id"`
	CanceledAt         *time.Time      `json:"canceled_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type flightResponse struct {
	flightBody
	RuntimeStatus    string    `json:"runtime_status"`
	RemainingSeconds *int64    `json:"remaining_seconds"`
	EndTime          time.Time `json:"end_time"`
}

func newFlightBody(f *domain.Flight) *flightBody {
	if f == nil {
		return nil
	}
	return &flightBody{
		ID:                 f.ID,
		Name:               f.Name,
		Airline:            f.Airline,
		DistanceKM:         f.DistanceKM,
		DurationSeconds:    f.DurationSeconds,
		DepartureTime:      f.DepartureTime,
		OriginAirport:      f.OriginAirport,
		DestinationAirport: f.DestinationAirport,
		CreatedByUserID:    f.CreatedByUserID,
		Price:              f.Price,
		ApprovalStatus:     string(f.ApprovalStatus),
		RejectionReason:    f.RejectionReason,
		ApprovedByUserID:   f.ApprovedByUserID,
		ApprovedAt:         f.ApprovedAt,
		Canceled:           f.Canceled,
		CanceledByUserID:   f.CanceledByUserID,
		CanceledAt:         f.CanceledAt,
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

func newFlightResponse(v flights.FlightView) flightResponse {
	return flightResponse{
		flightBody:       *newFlightBody(v.Flight),
		RuntimeStatus:    string(v.Runtime.Status),
		RemainingSeconds: v.Runtime.RemainingSeconds,
		EndTime:          v.EndTime,
	}
}

type purchaseResponse struct {
	ID            int64       `json:"id"`
	UserID        string      `json:"user_id"`
	FlightID      int64       `json:"flight_id"`
	Status        string      `json:"status"`
	FailureReason *string     `json:"failure_reason"`
	PricePaid     float64     `json:"price_paid"`
	PurchasedAt   *time.Time  `json:"purchased_at"`
	CreatedAt     time.Time   `json:"created_at"`
	Flight        *flightBody `json:"flight"`
}

func newPurchaseResponse(p domain.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		FlightID:      p.FlightID,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		PricePaid:     p.PricePaid,
		PurchasedAt:   p.PurchasedAt,
		CreatedAt:     p.CreatedAt,
		Flight:        newFlightBody(p.Flight),
	}
}

type ratingResponse struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user_id"`
	FlightID  int64       `json:"flight_id"`
	Rating    int         `json:"rating"`
	CreatedAt time.Time   `json:"created_at"`
	Flight    *flightBody `json:"flight"`
}

func newRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		FlightID:  r.FlightID,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		Flight:    newFlightBody(r.Flight),
	}
}

// bindOptionalJSON binds the body into v; an empty body leaves v untouched.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		validationError(c, "invalid id")
		return 0, false
	}
	return id, true
}

// firstQuery returns the first non-blank value among the given query keys.
func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

// looseNumber keeps the raw text of a JSON number or string so handlers can
// report a type error instead of a decode failure.
type looseNumber string

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*n = looseNumber(strings.TrimSpace(s))
	return nil
}

// optionalInt parses n when present; blank or null yields nil.
func optionalInt(name string, n looseNumber) (*int64, error) {
	if n == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return nil, domain.Validation(fmt.Sprintf("%s must be int", name))
	}
	return &v, nil
}

func optionalFloat(name string, n looseNumber) (*float64, error) {
	if n == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Validation(fmt.Sprintf("%s must be number", name))
	}
	return &v, nil
}

func numberField(values ...looseNumber) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

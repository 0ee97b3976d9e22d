package flights

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
)

type CreateFlightInput struct {
	Name               *string  `json:"name"`
	AirlineID          *int64   `json:"airline_id"`
	DistanceKM         *float64 `json:"distance_km"`
	DurationSeconds    *float64 `json:"duration_seconds"`
	DepartureTime      *string  `json:"departure_time"`
	OriginAirport      *string  `json:"origin_airport"`
	DestinationAirport *string  `json:"destination_airport"`
	Price              *float64 `json:"price"`
	CreatedByUserID    string   `json:"created_by_user_id"`
}

// UpdateFlightInput is a partial update. Nil fields are left alone and blank
// strings keep the current value.
type UpdateFlightInput struct {
	Name               *string  `json:"name"`
	AirlineID          *int64   `json:"airline_id"`
	DistanceKM         *float64 `json:"distance_km"`
	DurationSeconds    *float64 `json:"duration_seconds"`
	DepartureTime      *string  `json:"departure_time"`
	OriginAirport      *string  `json:"origin_airport"`
	DestinationAirport *string  `json:"destination_airport"`
	Price              *float64 `json:"price"`
}

func (in CreateFlightInput) missing() []string {
	var missing []string
	blank := func(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }
	if blank(in.Name) {
		missing = append(missing, "name")
	}
	if in.AirlineID == nil {
		missing = append(missing, "airline_id")
	}
	if in.DistanceKM == nil {
		missing = append(missing, "distance_km")
	}
	if in.DurationSeconds == nil {
		missing = append(missing, "duration_seconds")
	}
	if blank(in.DepartureTime) {
		missing = append(missing, "departure_time")
	}
	if blank(in.OriginAirport) {
		missing = append(missing, "origin_airport")
	}
	if blank(in.DestinationAirport) {
		missing = append(missing, "destination_airport")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

func positive(name string, v float64) error {
	if v <= 0 {
		return domain.Validation(fmt.Sprintf("%s must be positive", name))
	}
	return nil
}

// wholeSeconds truncates a duration given in (possibly fractional) seconds.
func wholeSeconds(v float64) (int64, error) {
	if v > float64(domain.MaxDurationSeconds) {
		return 0, domain.Validation(fmt.Sprintf("duration_seconds must not exceed %d", domain.MaxDurationSeconds))
	}
	secs := int64(v)
	if secs <= 0 {
		return 0, domain.Validation("duration_seconds must be positive")
	}
	return secs, nil
}

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISOTime accepts RFC 3339 instants and offset-less ISO 8601 values,
// which are taken as UTC. A space may separate date and time.
func ParseISOTime(raw string) (time.Time, error) {
	value := strings.Replace(strings.TrimSpace(raw), " ", "T", 1)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Validation("departure_time must be ISO datetime")
}

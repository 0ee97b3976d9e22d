package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        int64
	UserID    string
	FlightID  int64
	Flight    *Flight
	Rating    int
	CreatedAt time.Time
}

// CheckRatingEligibility enforces that only finished flights can be rated and
// only by a buyer holding a completed purchase.
func CheckRatingEligibility(f *Flight, hasCompletedPurchase bool, now time.Time) error {
	if f.RuntimeState(now).Status != RuntimeFinished {
		return Invalid("Flight is not finished yet")
	}
	if !hasCompletedPurchase {
		return Forbidden("You can only rate flights you bought")
	}
	return nil
}

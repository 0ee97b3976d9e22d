package domain

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseFailed    PurchaseStatus = "FAILED"
)

const (
	ReasonFlightNotFound    = "Flight not found"
	ReasonFlightNotApproved = "Flight is not approved"
	ReasonFlightCanceled    = "Flight is canceled"
	ReasonFlightDeparted    = "Flight already started or finished"
)

type Purchase struct {
	ID            int64
	UserID        string
	FlightID      int64
	Flight        *Flight
	Status        PurchaseStatus
	FailureReason *string
	PricePaid     float64
	PurchasedAt   *time.Time
	CreatedAt     time.Time
}

// SettlementOutcome decides the terminal status of a purchase from the
// flight as it looks at settlement time. A nil flight means it was deleted.
// The reason is empty for COMPLETED.
func SettlementOutcome(f *Flight, now time.Time) (PurchaseStatus, string) {
	switch {
	case f == nil:
		return PurchaseFailed, ReasonFlightNotFound
	case f.ApprovalStatus != ApprovalApproved:
		return PurchaseFailed, ReasonFlightNotApproved
	case f.Canceled:
		return PurchaseFailed, ReasonFlightCanceled
	case f.RuntimeState(now).Status != RuntimeUpcoming:
		return PurchaseFailed, ReasonFlightDeparted
	}
	return PurchaseCompleted, ""
}

package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventFlightApproved = "flight_approved"
	EventFlightRejected = "flight_rejected"
	EventFlightCanceled = "flight_canceled"

	EventPurchaseCompleted = "purchase_completed"
	EventPurchaseFailed    = "purchase_failed"
)

type FlightEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	FlightID   int64     `json:"flight_id"`
	FlightName string    `json:"flight_name"`
	ActorID    string    `json:"actor_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PurchaseEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	PurchaseID int64     `json:"purchase_id"`
	FlightID   int64     `json:"flight_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewFlightEvent(eventType string, flightID int64, flightName string, at time.Time) FlightEvent {
	return FlightEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		FlightID:   flightID,
		FlightName: flightName,
		OccurredAt: at,
	}
}

func NewPurchaseEvent(eventType string, purchaseID, flightID int64, userID, status string, at time.Time) PurchaseEvent {
	return PurchaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		PurchaseID: purchaseID,
		FlightID:   flightID,
		UserID:     userID,
		Status:     status,
		OccurredAt: at,
	}
}

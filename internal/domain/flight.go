package domain

import (
	"math"
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// RuntimeStatus is derived from the clock and is never persisted.
type RuntimeStatus string

const (
	RuntimeUpcoming   RuntimeStatus = "UPCOMING"
	RuntimeInProgress RuntimeStatus = "IN_PROGRESS"
	RuntimeFinished   RuntimeStatus = "FINISHED"
	RuntimeCanceled   RuntimeStatus = "CANCELED"
)

type Flight struct {
	ID                 int64
	Name               string
	AirlineID          int64
	Airline            *Airline
	DistanceKM         float64
	DurationSeconds    int64
	DepartureTime      time.Time
	OriginAirport      string
	DestinationAirport string
	CreatedByUserID    string
	Price              float64

	ApprovalStatus   ApprovalStatus
	RejectionReason  *string
	ApprovedByUserID *string
	ApprovedAt       *time.Time

	Canceled         bool
	CanceledByUserID *string
	CanceledAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxDurationSeconds bounds the flight duration accepted on create and edit.
const MaxDurationSeconds int64 = 366 * 24 * 60 * 60

var (
	ErrApproveNotPending = Validation("Only PENDING flights can be approved")
	ErrRejectNotPending  = Validation("Only PENDING flights can be rejected")
	ErrEditLocked        = Validation("Cannot edit flight that started/finished")
	ErrCancelInProgress  = Validation("Cannot cancel while in progress")
)

// RuntimeState is the result of evaluating a flight against a given instant.
// RemainingSeconds is nil for canceled flights.
type RuntimeState struct {
	Status           RuntimeStatus
	RemainingSeconds *int64
}

// ComputeRuntimeState evaluates the operational status of a flight at now.
func ComputeRuntimeState(departure time.Time, durationSeconds int64, canceled bool, now time.Time) RuntimeState {
	if canceled {
		return RuntimeState{Status: RuntimeCanceled}
	}
	if now.Before(departure) {
		return RuntimeState{Status: RuntimeUpcoming, RemainingSeconds: ceilSeconds(departure.Sub(now))}
	}
	end := departure.Add(durationOf(durationSeconds))
	if now.Before(end) {
		return RuntimeState{Status: RuntimeInProgress, RemainingSeconds: ceilSeconds(end.Sub(now))}
	}
	zero := int64(0)
	return RuntimeState{Status: RuntimeFinished, RemainingSeconds: &zero}
}

func ceilSeconds(d time.Duration) *int64 {
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return &secs
}

// durationOf saturates instead of overflowing for values beyond time.Duration.
func durationOf(seconds int64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	if seconds > int64(math.MaxInt64/time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds) * time.Second
}

func (f *Flight) EndTime() time.Time {
	return f.DepartureTime.Add(durationOf(f.DurationSeconds))
}

func (f *Flight) RuntimeState(now time.Time) RuntimeState {
	return ComputeRuntimeState(f.DepartureTime, f.DurationSeconds, f.Canceled, now)
}

// Approve moves a PENDING flight to APPROVED.
func (f *Flight) Approve(actor string, now time.Time) error {
	if f.ApprovalStatus != ApprovalPending {
		return ErrApproveNotPending
	}
	f.ApprovalStatus = ApprovalApproved
	f.RejectionReason = nil
	f.ApprovedByUserID = optional(actor)
	f.ApprovedAt = &now
	return nil
}

// Reject moves a PENDING flight to REJECTED. The approval fields record who
// rejected it and when.
func (f *Flight) Reject(actor, reason string, now time.Time) error {
	if f.ApprovalStatus != ApprovalPending {
		return ErrRejectNotPending
	}
	if reason == "" {
		return Validation("reason is required")
	}
	f.ApprovalStatus = ApprovalRejected
	f.RejectionReason = &reason
	f.ApprovedByUserID = optional(actor)
	f.ApprovedAt = &now
	return nil
}

// BeginEdit checks that the flight may still be edited and, for a REJECTED
// flight, sends it back to PENDING review.
func (f *Flight) BeginEdit(now time.Time) error {
	switch f.RuntimeState(now).Status {
	case RuntimeInProgress, RuntimeFinished:
		return ErrEditLocked
	}
	if f.ApprovalStatus == ApprovalRejected {
		f.ApprovalStatus = ApprovalPending
		f.RejectionReason = nil
		f.ApprovedByUserID = nil
		f.ApprovedAt = nil
	}
	return nil
}

// Cancel marks the flight canceled. It reports false when the flight was
// already canceled, in which case nothing changes.
func (f *Flight) Cancel(actor string, now time.Time) (bool, error) {
	if f.RuntimeState(now).Status == RuntimeInProgress {
		return false, ErrCancelInProgress
	}
	if f.Canceled {
		return false, nil
	}
	f.Canceled = true
	f.CanceledByUserID = optional(actor)
	f.CanceledAt = &now
	return true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

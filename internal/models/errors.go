package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed domain errors for the booking engine. Handlers map these to HTTP
// status codes with errors.As; each carries enough context to log and to
// render a precise user-facing message.

// NotFoundError indicates a train, station, user or reservation is missing
// or not visible to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidScheduleError indicates the train does not operate on the
// requested weekday.
type InvalidScheduleError struct {
	TrainNumber string
	DayName     string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("train %s does not run on %s", e.TrainNumber, e.DayName)
}

// CapacityExceededError indicates the requested seat count exceeds the
// remaining capacity for the train and journey day.
type CapacityExceededError struct {
	TrainID   uuid.UUID
	Requested int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("train %s: requested %d seats but only %d available", e.TrainID, e.Requested, e.Available)
}

// PassengerLimitExceededError indicates a booking request holds more
// passengers than a single reservation may carry.
type PassengerLimitExceededError struct {
	Requested int
	Limit     int
}

func (e *PassengerLimitExceededError) Error() string {
	return fmt.Sprintf("a reservation may hold at most %d passengers, got %d", e.Limit, e.Requested)
}

// CodeGenerationExhaustedError indicates the PNR generator ran out of
// collision retries.
type CodeGenerationExhaustedError struct {
	Attempts int
}

func (e *CodeGenerationExhaustedError) Error() string {
	return fmt.Sprintf("failed to generate a unique reservation code after %d attempts", e.Attempts)
}

// CancellationWindowClosedError indicates the reservation is too close to
// departure to cancel.
type CancellationWindowClosedError struct {
	HoursUntil  float64
	CutoffHours float64
}

func (e *CancellationWindowClosedError) Error() string {
	return fmt.Sprintf("cancellation window closed: %.2f hours to departure, cutoff is %.0f", e.HoursUntil, e.CutoffHours)
}

// AlreadyCancelledError indicates a cancel request for a reservation that
// is already cancelled.
type AlreadyCancelledError struct {
	ReservationID uuid.UUID
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("reservation %s is already cancelled", e.ReservationID)
}

// StorageError wraps a transport or transaction failure from the
// persistence layer. It is the only error class eligible for caller-driven
// retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// BookingFailedError is the umbrella error surfaced by CreateReservation.
// The specific cause is preserved for logging and errors.As.
type BookingFailedError struct {
	Cause error
}

func (e *BookingFailedError) Error() string {
	return fmt.Sprintf("booking failed: %v", e.Cause)
}

func (e *BookingFailedError) Unwrap() error { return e.Cause }

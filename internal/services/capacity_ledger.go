package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/railbook/train-reservation-backend/internal/database"
)

// CapacityLedger answers how many seats remain on a train for a journey
// day. The committed count is always read from storage at call time; the
// booking transaction re-reads it under the train row lock, so this
// read-only path never needs a cache to stay honest.
type CapacityLedger struct {
	reservations *database.ReservationRepository
}

// NewCapacityLedger creates a new capacity ledger
func NewCapacityLedger(reservations *database.ReservationRepository) *CapacityLedger {
	return &CapacityLedger{reservations: reservations}
}

// AvailableSeats returns the free seat count for the train within the
// journey window. Confirmed and RAC passengers both count as committed.
func (l *CapacityLedger) AvailableSeats(trainID uuid.UUID, totalSeats int, dayStart, dayEnd time.Time) (int, error) {
	committed, err := l.reservations.CountCommittedPassengers(trainID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}
	return totalSeats - committed, nil
}

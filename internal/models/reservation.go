package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	// ReservationStatusRAC is accepted as a legacy status and counts toward
	// capacity; the engine never promotes RAC to confirmed.
	ReservationStatusRAC       ReservationStatus = "rac"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// PaymentStatus represents the payment status of a reservation
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PassengerStatus represents the per-passenger status within a reservation
type PassengerStatus string

const (
	PassengerStatusConfirmed PassengerStatus = "confirmed"
	PassengerStatusRAC       PassengerStatus = "rac"
	PassengerStatusCancelled PassengerStatus = "cancelled"
)

// Reservation represents a confirmed request to travel. Reservations are
// never deleted; cancellation and payment updates only transition status
// fields, preserving an audit trail.
type Reservation struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	PNR           string            `json:"pnr" db:"pnr"`
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	TrainID       uuid.UUID         `json:"train_id" db:"train_id"`
	JourneyDate   time.Time         `json:"journey_date" db:"journey_date"`
	FromStationID uuid.UUID         `json:"from_station_id" db:"from_station_id"`
	ToStationID   uuid.UUID         `json:"to_station_id" db:"to_station_id"`
	TotalFare     float64           `json:"total_fare" db:"total_fare"`
	Status        ReservationStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status" db:"payment_status"`
	PaymentMethod *string           `json:"payment_method,omitempty" db:"payment_method"`
	BookingSource *string           `json:"booking_source,omitempty" db:"booking_source"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty" db:"cancelled_at"`
	Passengers    []Passenger       `json:"passengers,omitempty" db:"-"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the reservation still counts toward capacity.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusConfirmed || r.Status == ReservationStatusRAC
}

// Passenger is one traveller within a reservation. SeatNumber is assigned
// by the booking transaction; it stays nil only for passengers that never
// received a seat.
type Passenger struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ReservationID   uuid.UUID       `json:"reservation_id" db:"reservation_id"`
	Name            string          `json:"name" db:"name"`
	Age             int             `json:"age" db:"age"`
	Gender          string          `json:"gender" db:"gender"`
	BerthPreference *string         `json:"berth_preference,omitempty" db:"berth_preference"`
	SeatNumber      *int            `json:"seat_number,omitempty" db:"seat_number"`
	Coach           *string         `json:"coach,omitempty" db:"coach"`
	Status          PassengerStatus `json:"status" db:"status"`
}

// SeatLabel renders the human-readable seat, e.g. "A1".
func (p *Passenger) SeatLabel() string {
	if p.SeatNumber == nil || p.Coach == nil {
		return ""
	}
	return fmt.Sprintf("%s%d", *p.Coach, *p.SeatNumber)
}

// PassengerRequest is one traveller entry in a booking request
type PassengerRequest struct {
	Name            string  `json:"name" binding:"required"`
	Age             int     `json:"age" binding:"required,min=1,max=120"`
	Gender          string  `json:"gender" binding:"required"`
	BerthPreference *string `json:"berth_preference,omitempty"`
}

// CreateReservationRequest represents the request to book a journey
type CreateReservationRequest struct {
	TrainID       uuid.UUID          `json:"train_id" binding:"required"`
	JourneyDate   string             `json:"journey_date" binding:"required"`
	FromStationID uuid.UUID          `json:"from_station_id" binding:"required"`
	ToStationID   uuid.UUID          `json:"to_station_id" binding:"required"`
	Passengers    []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
}

// Validate validates the create reservation request
func (r *CreateReservationRequest) Validate() error {
	if len(r.Passengers) == 0 {
		return errors.New("at least one passenger is required")
	}
	if r.FromStationID == r.ToStationID {
		return errors.New("origin and destination stations must differ")
	}
	for i, p := range r.Passengers {
		if p.Name == "" {
			return fmt.Errorf("passenger %d: name is required", i+1)
		}
		if p.Age < 1 || p.Age > 120 {
			return fmt.Errorf("passenger %d: age must be between 1 and 120", i+1)
		}
	}
	return nil
}

// ConfirmPaymentRequest represents the request to confirm payment for a
// reservation. Collection itself happens in an external gateway.
type ConfirmPaymentRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required"`
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// AvailabilityResponse is the response for seat availability lookups
type AvailabilityResponse struct {
	TrainID        uuid.UUID `json:"train_id"`
	TrainNumber    string    `json:"train_number"`
	JourneyDate    string    `json:"journey_date"`
	DayName        string    `json:"day_name"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
}

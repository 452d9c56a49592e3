package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// WeekdayNames is the fixed Sunday-first weekday table used everywhere a
// day-of-operation is stored or compared. Index 0 is Sunday to match
// time.Weekday.
var WeekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Train represents a scheduled train service. The weekly operating pattern
// is stored as a set of short weekday names from WeekdayNames. Trains are
// read-only to the booking engine.
type Train struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	TrainNumber     string         `json:"train_number" db:"train_number"`
	Name            string         `json:"name" db:"name"`
	TotalSeats      int            `json:"total_seats" db:"total_seats"`
	FareBaseRate    float64        `json:"fare_base_rate" db:"fare_base_rate"`
	DaysOfOperation pq.StringArray `json:"days_of_operation" db:"days_of_operation"`
	Stops           []TrainStop    `json:"stops,omitempty" db:"-"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// TrainStop is one entry in a train's ordered route. DistanceKM is the
// cumulative distance from the origin station.
type TrainStop struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TrainID       uuid.UUID `json:"train_id" db:"train_id"`
	StationID     uuid.UUID `json:"station_id" db:"station_id"`
	StationName   string    `json:"station_name,omitempty" db:"station_name"`
	StopOrder     int       `json:"stop_order" db:"stop_order"`
	DistanceKM    float64   `json:"distance_km" db:"distance_km"`
	DepartureTime *string   `json:"departure_time,omitempty" db:"departure_time"`
	ArrivalTime   *string   `json:"arrival_time,omitempty" db:"arrival_time"`
}

// RunsOn reports whether the train operates on the given weekday name.
func (t *Train) RunsOn(dayName string) bool {
	for _, d := range t.DaysOfOperation {
		if d == dayName {
			return true
		}
	}
	return false
}

// StopByStation returns the route entry for the given station, if present.
func (t *Train) StopByStation(stationID uuid.UUID) (*TrainStop, bool) {
	for i := range t.Stops {
		if t.Stops[i].StationID == stationID {
			return &t.Stops[i], true
		}
	}
	return nil, false
}

// CreateTrainRequest represents the admin request to register a train
type CreateTrainRequest struct {
	TrainNumber     string                   `json:"train_number" binding:"required"`
	Name            string                   `json:"name" binding:"required"`
	TotalSeats      int                      `json:"total_seats" binding:"required,min=1"`
	FareBaseRate    float64                  `json:"fare_base_rate" binding:"required,gt=0"`
	DaysOfOperation []string                 `json:"days_of_operation" binding:"required,min=1"`
	Stops           []CreateTrainStopRequest `json:"stops" binding:"required,min=2"`
}

// CreateTrainStopRequest is one route entry in a train registration
type CreateTrainStopRequest struct {
	StationID     uuid.UUID `json:"station_id" binding:"required"`
	DistanceKM    float64   `json:"distance_km"`
	DepartureTime *string   `json:"departure_time,omitempty"`
	ArrivalTime   *string   `json:"arrival_time,omitempty"`
}

// Validate validates the create train request
func (r *CreateTrainRequest) Validate() error {
	if strings.TrimSpace(r.TrainNumber) == "" {
		return errors.New("train_number is required")
	}
	if r.TotalSeats <= 0 {
		return errors.New("total_seats must be at least 1")
	}
	if r.FareBaseRate <= 0 {
		return errors.New("fare_base_rate must be positive")
	}
	if len(r.Stops) < 2 {
		return errors.New("route must contain at least 2 stops")
	}
	for _, day := range r.DaysOfOperation {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid day of operation: %s", day)
		}
	}
	return nil
}

func isValidWeekday(day string) bool {
	for _, name := range WeekdayNames {
		if name == day {
			return true
		}
	}
	return false
}

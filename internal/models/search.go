package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SearchTrainsRequest represents a passenger's journey search query. The
// date filter is optional; without it the search returns trains regardless
// of their operating days.
type SearchTrainsRequest struct {
	FromStationID uuid.UUID
	ToStationID   uuid.UUID
	Date          string
	Limit         int
}

// TrainSearchResult is one matching train in search results. Availability
// is populated only when the search includes a journey date.
type TrainSearchResult struct {
	TrainID         uuid.UUID      `json:"train_id" db:"train_id"`
	TrainNumber     string         `json:"train_number" db:"train_number"`
	Name            string         `json:"name" db:"name"`
	TotalSeats      int            `json:"total_seats" db:"total_seats"`
	FareBaseRate    float64        `json:"-" db:"fare_base_rate"`
	DaysOfOperation pq.StringArray `json:"-" db:"days_of_operation"`
	FromStopOrder   int            `json:"-" db:"from_stop_order"`
	ToStopOrder     int            `json:"-" db:"to_stop_order"`
	DistanceKM      float64        `json:"distance_km" db:"distance_km"`
	DepartureTime   *string        `json:"departure_time,omitempty" db:"departure_time"`
	ArrivalTime     *string        `json:"arrival_time,omitempty" db:"arrival_time"`
	FarePerSeat     float64        `json:"fare_per_seat"`
	AvailableSeats  *int           `json:"available_seats,omitempty"`
	RunsOnDate      *bool          `json:"runs_on_date,omitempty"`
}

// SearchTrainsResponse wraps search results
type SearchTrainsResponse struct {
	Results      []TrainSearchResult `json:"results"`
	SearchTimeMs int64               `json:"search_time_ms"`
}

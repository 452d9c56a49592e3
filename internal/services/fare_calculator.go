package services

import (
	"math"

	"github.com/google/uuid"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// FareCalculator prices journeys from a train's base rate and the
// cumulative route distances. Pure computation.
type FareCalculator struct{}

// NewFareCalculator creates a new fare calculator
func NewFareCalculator() *FareCalculator {
	return &FareCalculator{}
}

// PerPassengerFare computes the fare for one seat between two stations on
// the train's route: the absolute distance between the stops, in units of
// 100 km, times the base rate, rounded up to the next whole unit. When
// either station is missing from the route the base rate applies as a
// flat fallback, so a route misconfiguration degrades pricing instead of
// blocking bookings.
func (f *FareCalculator) PerPassengerFare(train *models.Train, fromStationID, toStationID uuid.UUID) float64 {
	from, okFrom := train.StopByStation(fromStationID)
	to, okTo := train.StopByStation(toStationID)
	if !okFrom || !okTo {
		return train.FareBaseRate
	}
	return FareForDistance(math.Abs(to.DistanceKM-from.DistanceKM), train.FareBaseRate)
}

// TotalFare computes the fare for a full passenger group.
func (f *FareCalculator) TotalFare(train *models.Train, fromStationID, toStationID uuid.UUID, passengerCount int) float64 {
	return f.PerPassengerFare(train, fromStationID, toStationID) * float64(passengerCount)
}

// FareForDistance prices a single seat over a known distance.
func FareForDistance(distanceKM, baseRate float64) float64 {
	return math.Ceil(distanceKM / 100 * baseRate)
}
